package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/RahulVervebot/pims-sub002/engine"
)

type lineView struct {
	LineID    string         `json:"lineId" yaml:"lineId"`
	ProductID string         `json:"productId" yaml:"productId"`
	Quantity  int            `json:"quantity" yaml:"quantity"`
	Payload   map[string]any `json:"payload,omitempty" yaml:"payload,omitempty"`
}

type listView struct {
	Collection    string     `json:"collection" yaml:"collection"`
	Version       uint64     `json:"version" yaml:"version"`
	TotalQuantity int        `json:"totalQuantity" yaml:"totalQuantity"`
	Lines         []lineView `json:"lines" yaml:"lines"`
}

func newListView(s engine.Snapshot) listView {
	v := listView{
		Collection:    s.Key,
		Version:       s.Version,
		TotalQuantity: s.TotalQuantity(),
		Lines:         make([]lineView, 0, s.Len()),
	}
	for _, it := range s.Items {
		v.Lines = append(v.Lines, lineView{
			LineID:    it.LineID.String(),
			ProductID: it.ProductID.String(),
			Quantity:  it.Quantity,
			Payload:   it.Payload,
		})
	}
	return v
}

func render(w io.Writer, format string, s engine.Snapshot) error {
	view := newListView(s)
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "table":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PRODUCT\tQTY\tNAME\tLINE")
		for _, l := range view.Lines {
			name := l.Payload["name"]
			if name == nil {
				name = ""
			}
			fmt.Fprintf(tw, "%s\t%d\t%v\t%s\n", l.ProductID, l.Quantity, name, l.LineID)
		}
		fmt.Fprintf(tw, "TOTAL\t%d\t\t\n", view.TotalQuantity)
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/RahulVervebot/pims-sub002/logic"
	"github.com/RahulVervebot/pims-sub002/pos"
)

func dispatch(app *pos.App, collection, command string, args []string, stdout, stderr io.Writer) int {
	e, err := app.Engine(collection)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		usage(stderr)
		return exitUsage
	}

	switch command {
	case "add":
		if len(args) != 1 {
			fmt.Fprintln(stderr, "Error: add takes one JSON payload")
			return exitUsage
		}
		payload, err := parsePayload(args[0])
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitInvalidArgument
		}
		change, err := e.AddOrIncrement(payload)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitCode(err)
		}
		printChange(stdout, change)

	case "inc", "dec", "rm":
		if len(args) != 1 {
			fmt.Fprintf(stderr, "Error: %s takes one product id\n", command)
			return exitUsage
		}
		var change logic.Change
		switch command {
		case "inc":
			change = e.IncreaseQuantity(args[0])
		case "dec":
			change = e.DecreaseQuantity(args[0])
		default:
			change = e.Remove(args[0])
		}
		printChange(stdout, change)

	case "clear":
		printChange(stdout, e.Clear())

	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		fs.SetOutput(stderr)
		output := fs.String("o", "table", "Output format: table, json or yaml")
		if err := fs.Parse(args); err != nil {
			return exitUsage
		}
		if err := render(stdout, *output, e.Snapshot()); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitUsage
		}

	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n", command)
		usage(stderr)
		return exitUsage
	}
	return exitOK
}

// parsePayload keeps numbers as json.Number so integer ids are not turned
// into floats before normalization.
func parsePayload(raw string) (logic.Payload, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var payload logic.Payload
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	return payload, nil
}

func printChange(w io.Writer, c logic.Change) {
	switch c.Kind {
	case logic.ChangeAdded:
		fmt.Fprintf(w, "added %s (quantity %d)\n", c.ProductID, c.Quantity)
	case logic.ChangeQuantity:
		fmt.Fprintf(w, "%s quantity %d -> %d\n", c.ProductID, c.Previous, c.Quantity)
	case logic.ChangeRemoved:
		fmt.Fprintf(w, "removed %s\n", c.ProductID)
	case logic.ChangeCleared:
		fmt.Fprintf(w, "cleared %d items\n", c.Cleared)
	default:
		fmt.Fprintln(w, "no change")
	}
}

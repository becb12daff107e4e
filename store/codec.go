package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Codec converts records to and from the bytes kept by a Backend.
type Codec interface {
	Name() string
	Encode(records []Record) ([]byte, error)
	// Decode returns the records found in data. Elements that are not
	// records are skipped and counted in skipped.
	Decode(data []byte) (records []Record, skipped int, err error)
}

// CodecByName returns the codec registered under name.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", JSONCodecName:
		return JSONCodec{}, nil
	case ProtoCodecName:
		return ProtoCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}

const (
	JSONCodecName  = "json"
	ProtoCodecName = "proto"
)

// JSONCodec stores a collection as a JSON array of flattened records, the
// format the collections have always been written in on device.
type JSONCodec struct{}

func (JSONCodec) Name() string { return JSONCodecName }

func (JSONCodec) Encode(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	return json.Marshal(records)
}

// Decode keeps numbers as json.Number so identifiers and payload values
// beyond float64 precision read back exactly as they were written.
func (JSONCodec) Decode(data []byte) ([]Record, int, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, 0, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, 0, errors.New("unexpected data after collection")
	}
	records := make([]Record, 0, len(raw))
	skipped := 0
	for _, element := range raw {
		obj, ok := element.(map[string]any)
		if !ok {
			skipped++
			continue
		}
		records = append(records, Record(obj))
	}
	return records, skipped, nil
}

// ProtoCodec stores a collection as a protobuf ListValue of Struct records.
// Struct numbers are doubles, so integers above 2^53 lose precision.
type ProtoCodec struct{}

func (ProtoCodec) Name() string { return ProtoCodecName }

func (ProtoCodec) Encode(records []Record) ([]byte, error) {
	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(records))}
	for _, rec := range records {
		s, err := toStruct(rec)
		if err != nil {
			return nil, err
		}
		list.Values = append(list.Values, structpb.NewStructValue(s))
	}
	return proto.Marshal(list)
}

func (ProtoCodec) Decode(data []byte) ([]Record, int, error) {
	var list structpb.ListValue
	if err := proto.Unmarshal(data, &list); err != nil {
		return nil, 0, err
	}
	records := make([]Record, 0, len(list.Values))
	skipped := 0
	for _, v := range list.Values {
		s := v.GetStructValue()
		if s == nil {
			skipped++
			continue
		}
		records = append(records, Record(s.AsMap()))
	}
	return records, skipped, nil
}

// toStruct converts a record to a Struct. Payload values structpb does not
// understand directly (named map types, typed slices, structs) are first
// flattened through their JSON form.
func toStruct(rec Record) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(rec)
	if err == nil {
		return s, nil
	}
	raw, jsonErr := json.Marshal(rec)
	if jsonErr != nil {
		return nil, errors.Join(err, jsonErr)
	}
	var plain map[string]any
	if jsonErr := json.Unmarshal(raw, &plain); jsonErr != nil {
		return nil, errors.Join(err, jsonErr)
	}
	return structpb.NewStruct(plain)
}

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RahulVervebot/pims-sub002/logic"
)

func TestCodecByName(t *testing.T) {
	codec, err := CodecByName("")
	require.NoError(t, err)
	assert.Equal(t, JSONCodecName, codec.Name())

	codec, err = CodecByName("proto")
	require.NoError(t, err)
	assert.Equal(t, ProtoCodecName, codec.Name())

	_, err = CodecByName("xml")
	assert.Error(t, err)
}

func TestJSONCodec_EncodesEmptyAsArray(t *testing.T) {
	data, err := JSONCodec{}.Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestJSONCodec_DecodeNull(t *testing.T) {
	records, skipped, err := JSONCodec{}.Decode([]byte("null"))
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, skipped)
}

func TestJSONCodec_FlattenedRecord(t *testing.T) {
	item := sampleItems()[0]
	data, err := JSONCodec{}.Encode([]Record{recordFromItem(item)})
	require.NoError(t, err)

	assert.JSONEq(t, `[{
		"productId": "P1",
		"quantity": 3,
		"lineId": "`+item.LineID.String()+`",
		"name": "Soap",
		"price": 10
	}]`, string(data))
}

func TestProtoCodec_NamedPayloadTypes(t *testing.T) {
	rec := Record{
		logic.FieldProductID: "P1",
		logic.FieldQuantity:  2,
		"size":               logic.Payload{"w": 3},
		"colors":             []string{"red", "blue"},
	}

	data, err := ProtoCodec{}.Encode([]Record{rec})
	require.NoError(t, err)

	records, skipped, err := ProtoCodec{}.Decode(data)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, records, 1)
	assert.Equal(t, map[string]any{"w": 3.0}, records[0]["size"])
	assert.Equal(t, []any{"red", "blue"}, records[0]["colors"])
	assert.Equal(t, 2.0, records[0][logic.FieldQuantity])
}

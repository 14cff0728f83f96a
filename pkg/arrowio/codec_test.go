package arrowio

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"
)

func TestRoundtrip(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "vendor", Type: arrow.BinaryTypes.String},
		{Name: "fare", Type: arrow.PrimitiveTypes.Float64},
		{Name: "trips", Type: arrow.PrimitiveTypes.Int64},
	}, nil)

	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	b.Field(0).(*array.StringBuilder).AppendValues([]string{"acme", "zenith"}, nil)
	b.Field(1).(*array.Float64Builder).AppendValues([]float64{12.5, 7.25}, nil)
	b.Field(2).(*array.Int64Builder).AppendValues([]int64{3, 9}, nil)

	rec := b.NewRecord()
	defer rec.Release()

	data, err := Marshal(rec)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	defer got.Release()

	require.True(t, rec.Schema().Equal(got.Schema()))
	require.Equal(t, rec.NumRows(), got.NumRows())
	require.Equal(t, []string{"acme", "zenith"}, []string{
		got.Column(0).(*array.String).Value(0),
		got.Column(0).(*array.String).Value(1),
	})
	require.Equal(t, 7.25, got.Column(1).(*array.Float64).Value(1))
}

func TestUnmarshalGarbage(t *testing.T) {
	_, err := Unmarshal([]byte("not an ipc stream"))
	require.Error(t, err)
}

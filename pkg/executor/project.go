package executor

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// NewProjection returns a pipeline that narrows each input record to the
// given columns, in the given order.
func NewProjection(input Pipeline, columns []string) Pipeline {
	return newGenericPipeline(func(ctx context.Context, inputs []Pipeline) (arrow.Record, error) {
		rec, err := inputs[0].Read(ctx)
		if err != nil {
			return nil, err
		}
		defer rec.Release()
		return projectRecord(rec, columns)
	}, input)
}

func projectRecord(rec arrow.Record, columns []string) (arrow.Record, error) {
	fields := make([]arrow.Field, 0, len(columns))
	cols := make([]arrow.Array, 0, len(columns))
	for _, name := range columns {
		indices := rec.Schema().FieldIndices(name)
		if len(indices) == 0 {
			return nil, fmt.Errorf("projection column %q does not exist", name)
		}
		fields = append(fields, rec.Schema().Field(indices[0]))
		cols = append(cols, rec.Column(indices[0]))
	}
	// NewRecord retains the column arrays, so releasing the input record
	// afterwards is safe.
	return array.NewRecord(arrow.NewSchema(fields, nil), cols, rec.NumRows()), nil
}

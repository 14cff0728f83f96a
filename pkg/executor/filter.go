package executor

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/colibri-io/colibri/pkg/queryplan"
)

// NewFilter returns a pipeline that keeps only the input rows matching every
// predicate. Rows with a null in a filtered column never match.
func NewFilter(input Pipeline, predicates []queryplan.Predicate) Pipeline {
	return newGenericPipeline(func(ctx context.Context, inputs []Pipeline) (arrow.Record, error) {
		for {
			rec, err := inputs[0].Read(ctx)
			if err != nil {
				return nil, err
			}

			mask, err := evalPredicates(rec, predicates)
			if err != nil {
				rec.Release()
				return nil, err
			}

			kept := 0
			for _, m := range mask {
				if m {
					kept++
				}
			}
			if kept == int(rec.NumRows()) {
				return rec, nil
			}
			if kept == 0 {
				rec.Release()
				continue
			}

			out, err := filterRecord(rec, mask)
			rec.Release()
			if err != nil {
				return nil, err
			}
			return out, nil
		}
	}, input)
}

func evalPredicates(rec arrow.Record, predicates []queryplan.Predicate) ([]bool, error) {
	mask := make([]bool, rec.NumRows())
	for i := range mask {
		mask[i] = true
	}
	for _, p := range predicates {
		if err := applyPredicate(rec, p, mask); err != nil {
			return nil, err
		}
	}
	return mask, nil
}

func applyPredicate(rec arrow.Record, p queryplan.Predicate, mask []bool) error {
	indices := rec.Schema().FieldIndices(p.Column)
	if len(indices) == 0 {
		return fmt.Errorf("filter column %q does not exist", p.Column)
	}
	col := rec.Column(indices[0])

	switch arr := col.(type) {
	case *array.Int64:
		lit, ok := numericLiteral(p.Value)
		if !ok {
			return fmt.Errorf("filter column %q: literal %v is not numeric", p.Column, p.Value)
		}
		for i := range mask {
			if !mask[i] {
				continue
			}
			mask[i] = !arr.IsNull(i) && compareFloat(float64(arr.Value(i)), lit, p.Op)
		}
	case *array.Float64:
		lit, ok := numericLiteral(p.Value)
		if !ok {
			return fmt.Errorf("filter column %q: literal %v is not numeric", p.Column, p.Value)
		}
		for i := range mask {
			if !mask[i] {
				continue
			}
			mask[i] = !arr.IsNull(i) && compareFloat(arr.Value(i), lit, p.Op)
		}
	case *array.String:
		lit, ok := p.Value.(string)
		if !ok {
			return fmt.Errorf("filter column %q: literal %v is not a string", p.Column, p.Value)
		}
		for i := range mask {
			if !mask[i] {
				continue
			}
			mask[i] = !arr.IsNull(i) && compareString(arr.Value(i), lit, p.Op)
		}
	case *array.Boolean:
		lit, ok := p.Value.(bool)
		if !ok {
			return fmt.Errorf("filter column %q: literal %v is not a boolean", p.Column, p.Value)
		}
		if p.Op != queryplan.OpEq && p.Op != queryplan.OpNeq {
			return fmt.Errorf("filter column %q: op %s is not supported for booleans", p.Column, p.Op)
		}
		for i := range mask {
			if !mask[i] {
				continue
			}
			mask[i] = !arr.IsNull(i) && ((arr.Value(i) == lit) == (p.Op == queryplan.OpEq))
		}
	default:
		return fmt.Errorf("filter column %q: unsupported type %s", p.Column, col.DataType())
	}
	return nil
}

func numericLiteral(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}

func compareFloat(a, b float64, op queryplan.CompareOp) bool {
	switch op {
	case queryplan.OpEq:
		return a == b
	case queryplan.OpNeq:
		return a != b
	case queryplan.OpLt:
		return a < b
	case queryplan.OpLte:
		return a <= b
	case queryplan.OpGt:
		return a > b
	case queryplan.OpGte:
		return a >= b
	}
	return false
}

func compareString(a, b string, op queryplan.CompareOp) bool {
	switch op {
	case queryplan.OpEq:
		return a == b
	case queryplan.OpNeq:
		return a != b
	case queryplan.OpLt:
		return a < b
	case queryplan.OpLte:
		return a <= b
	case queryplan.OpGt:
		return a > b
	case queryplan.OpGte:
		return a >= b
	}
	return false
}

// filterRecord copies the masked rows of rec into a new record.
func filterRecord(rec arrow.Record, mask []bool) (arrow.Record, error) {
	b := array.NewRecordBuilder(memory.DefaultAllocator, rec.Schema())
	defer b.Release()

	for c := 0; c < int(rec.NumCols()); c++ {
		if err := appendMasked(b.Field(c), rec.Column(c), mask); err != nil {
			return nil, fmt.Errorf("column %q: %w", rec.Schema().Field(c).Name, err)
		}
	}
	return b.NewRecord(), nil
}

func appendMasked(fb array.Builder, col arrow.Array, mask []bool) error {
	switch arr := col.(type) {
	case *array.Int64:
		tb := fb.(*array.Int64Builder)
		for i, keep := range mask {
			if !keep {
				continue
			}
			if arr.IsNull(i) {
				tb.AppendNull()
			} else {
				tb.Append(arr.Value(i))
			}
		}
	case *array.Float64:
		tb := fb.(*array.Float64Builder)
		for i, keep := range mask {
			if !keep {
				continue
			}
			if arr.IsNull(i) {
				tb.AppendNull()
			} else {
				tb.Append(arr.Value(i))
			}
		}
	case *array.String:
		tb := fb.(*array.StringBuilder)
		for i, keep := range mask {
			if !keep {
				continue
			}
			if arr.IsNull(i) {
				tb.AppendNull()
			} else {
				tb.Append(arr.Value(i))
			}
		}
	case *array.Boolean:
		tb := fb.(*array.BooleanBuilder)
		for i, keep := range mask {
			if !keep {
				continue
			}
			if arr.IsNull(i) {
				tb.AppendNull()
			} else {
				tb.Append(arr.Value(i))
			}
		}
	default:
		return fmt.Errorf("unsupported type %s", col.DataType())
	}
	return nil
}

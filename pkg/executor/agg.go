package executor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/colibri-io/colibri/pkg/queryplan"
)

// AggState accumulates an aggregation incrementally. Workers feed it raw
// scan batches through Accumulate and emit one partial record per
// partition; combiners and the coordinator feed partial records through
// Fold. All supported functions are commutative and associative, so
// partials may arrive and fold in any order. AggState is safe for
// concurrent use.
type AggState struct {
	mtx sync.Mutex

	agg    *queryplan.Aggregation
	groups map[string]*groupState
	order  []string
}

type groupState struct {
	keys   []groupKey
	counts []int64
	sums   []float64
	mins   []float64
	maxs   []float64
	// seen tracks, per aggregate, whether any non-null value contributed.
	// min and max of an all-null column stay null.
	seen []bool
}

type groupKey struct {
	str    string
	num    float64
	isNull bool
	kind   arrow.Type
}

// NewAggState returns an empty accumulator for agg.
func NewAggState(agg *queryplan.Aggregation) *AggState {
	return &AggState{
		agg:    agg,
		groups: make(map[string]*groupState),
	}
}

// Accumulate folds one raw record batch into the state.
func (s *AggState) Accumulate(rec arrow.Record) error {
	return s.fold(rec, false)
}

// Fold merges one partial aggregate record, as produced by Emit on another
// AggState, into the state.
func (s *AggState) Fold(rec arrow.Record) error {
	return s.fold(rec, true)
}

func (s *AggState) fold(rec arrow.Record, partial bool) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	groupCols, err := s.groupColumns(rec)
	if err != nil {
		return err
	}
	for row := 0; row < int(rec.NumRows()); row++ {
		keys, id := encodeGroupKey(groupCols, row)
		g, ok := s.groups[id]
		if !ok {
			g = newGroupState(keys, len(s.agg.Aggregates))
			s.groups[id] = g
			s.order = append(s.order, id)
		}
		for i, a := range s.agg.Aggregates {
			if err := s.apply(g, i, a, rec, row, partial); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *AggState) groupColumns(rec arrow.Record) ([]arrow.Array, error) {
	cols := make([]arrow.Array, 0, len(s.agg.GroupBy))
	for _, name := range s.agg.GroupBy {
		indices := rec.Schema().FieldIndices(name)
		if len(indices) == 0 {
			return nil, fmt.Errorf("group by column %q does not exist", name)
		}
		cols = append(cols, rec.Column(indices[0]))
	}
	return cols, nil
}

func (s *AggState) apply(g *groupState, i int, a queryplan.Aggregate, rec arrow.Record, row int, partial bool) error {
	if a.Func == queryplan.AggCount && !partial {
		g.counts[i]++
		g.seen[i] = true
		return nil
	}

	// Raw input reads the aggregated column; partial input reads the
	// emitted column named after the aggregate, e.g. "sum(fare)".
	name := a.Column
	if partial {
		name = a.Name()
	}
	indices := rec.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return fmt.Errorf("aggregate column %q does not exist", name)
	}
	col := rec.Column(indices[0])
	if col.IsNull(row) {
		return nil
	}

	if a.Func == queryplan.AggCount {
		n, ok := col.(*array.Int64)
		if !ok {
			return fmt.Errorf("partial count column %q has type %s, want int64", name, col.DataType())
		}
		g.counts[i] += n.Value(row)
		g.seen[i] = true
		return nil
	}

	var v float64
	switch arr := col.(type) {
	case *array.Int64:
		v = float64(arr.Value(row))
	case *array.Float64:
		v = arr.Value(row)
	default:
		return fmt.Errorf("aggregate column %q has unsupported type %s", name, col.DataType())
	}

	switch a.Func {
	case queryplan.AggSum:
		g.sums[i] += v
	case queryplan.AggMin:
		if !g.seen[i] || v < g.mins[i] {
			g.mins[i] = v
		}
	case queryplan.AggMax:
		if !g.seen[i] || v > g.maxs[i] {
			g.maxs[i] = v
		}
	default:
		return fmt.Errorf("unsupported aggregate function %q", a.Func)
	}
	g.seen[i] = true
	return nil
}

func newGroupState(keys []groupKey, n int) *groupState {
	return &groupState{
		keys:   keys,
		counts: make([]int64, n),
		sums:   make([]float64, n),
		mins:   make([]float64, n),
		maxs:   make([]float64, n),
		seen:   make([]bool, n),
	}
}

func encodeGroupKey(cols []arrow.Array, row int) ([]groupKey, string) {
	keys := make([]groupKey, len(cols))
	var sb strings.Builder
	for i, col := range cols {
		k := groupKey{kind: col.DataType().ID()}
		if col.IsNull(row) {
			k.isNull = true
			sb.WriteString("\x00n")
			keys[i] = k
			continue
		}
		switch arr := col.(type) {
		case *array.Int64:
			k.num = float64(arr.Value(row))
			sb.WriteString(strconv.FormatInt(arr.Value(row), 10))
		case *array.Float64:
			k.num = arr.Value(row)
			sb.WriteString(strconv.FormatFloat(arr.Value(row), 'g', -1, 64))
		case *array.String:
			k.str = arr.Value(row)
			sb.WriteString(k.str)
		case *array.Boolean:
			if arr.Value(row) {
				k.num = 1
			}
			sb.WriteString(strconv.FormatBool(arr.Value(row)))
		}
		keys[i] = k
		sb.WriteByte(0)
	}
	return keys, sb.String()
}

// Emit materializes the accumulated state as a single record: the group by
// columns followed by one column per aggregate. Without group by columns it
// always yields exactly one row, so an empty input still produces count 0
// and null min and max. Groups are emitted in a deterministic order.
func (s *AggState) Emit() (arrow.Record, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if len(s.agg.GroupBy) == 0 && len(s.groups) == 0 {
		s.groups[""] = newGroupState(nil, len(s.agg.Aggregates))
		s.order = append(s.order, "")
	}

	order := make([]string, len(s.order))
	copy(order, s.order)
	sort.Strings(order)

	fields := make([]arrow.Field, 0, len(s.agg.GroupBy)+len(s.agg.Aggregates))
	for i, name := range s.agg.GroupBy {
		fields = append(fields, arrow.Field{Name: name, Type: groupByType(s.groups, order, i), Nullable: true})
	}
	for _, a := range s.agg.Aggregates {
		fields = append(fields, arrow.Field{Name: a.Name(), Type: aggType(a.Func), Nullable: a.Func != queryplan.AggCount})
	}

	b := array.NewRecordBuilder(memory.DefaultAllocator, arrow.NewSchema(fields, nil))
	defer b.Release()

	for _, id := range order {
		g := s.groups[id]
		for i := range s.agg.GroupBy {
			appendGroupKey(b.Field(i), g.keys[i])
		}
		for i, a := range s.agg.Aggregates {
			fb := b.Field(len(s.agg.GroupBy) + i)
			switch a.Func {
			case queryplan.AggCount:
				fb.(*array.Int64Builder).Append(g.counts[i])
			case queryplan.AggSum:
				fb.(*array.Float64Builder).Append(g.sums[i])
			case queryplan.AggMin:
				appendOptFloat(fb, g.mins[i], g.seen[i])
			case queryplan.AggMax:
				appendOptFloat(fb, g.maxs[i], g.seen[i])
			}
		}
	}
	return b.NewRecord(), nil
}

func aggType(f queryplan.AggFunc) arrow.DataType {
	if f == queryplan.AggCount {
		return arrow.PrimitiveTypes.Int64
	}
	return arrow.PrimitiveTypes.Float64
}

func groupByType(groups map[string]*groupState, order []string, i int) arrow.DataType {
	for _, id := range order {
		k := groups[id].keys[i]
		switch k.kind {
		case arrow.INT64:
			return arrow.PrimitiveTypes.Int64
		case arrow.FLOAT64:
			return arrow.PrimitiveTypes.Float64
		case arrow.BOOL:
			return arrow.FixedWidthTypes.Boolean
		case arrow.STRING:
			return arrow.BinaryTypes.String
		}
	}
	return arrow.BinaryTypes.String
}

func appendGroupKey(fb array.Builder, k groupKey) {
	if k.isNull {
		fb.AppendNull()
		return
	}
	switch tb := fb.(type) {
	case *array.Int64Builder:
		tb.Append(int64(k.num))
	case *array.Float64Builder:
		tb.Append(k.num)
	case *array.BooleanBuilder:
		tb.Append(k.num != 0)
	case *array.StringBuilder:
		tb.Append(k.str)
	}
}

func appendOptFloat(fb array.Builder, v float64, ok bool) {
	tb := fb.(*array.Float64Builder)
	if !ok {
		tb.AppendNull()
		return
	}
	tb.Append(v)
}

// NewAggregation returns a pipeline that drains its input into state and
// emits the accumulated partial as a single record.
func NewAggregation(input Pipeline, agg *queryplan.Aggregation) Pipeline {
	state := NewAggState(agg)
	done := false
	return newGenericPipeline(func(ctx context.Context, inputs []Pipeline) (arrow.Record, error) {
		if done {
			return nil, EOF
		}
		for {
			rec, err := inputs[0].Read(ctx)
			if errors.Is(err, EOF) {
				break
			}
			if err != nil {
				return nil, err
			}
			accErr := state.Accumulate(rec)
			rec.Release()
			if accErr != nil {
				return nil, accErr
			}
		}
		done = true
		return state.Emit()
	}, input)
}

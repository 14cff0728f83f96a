// Package queryplan defines the plan fragment shipped to worker executors.
//
// A fragment describes a linear sequence of columnar operations (scan,
// filter, projection, partial aggregation) over a single partition. The
// fabric treats fragments as opaque bytes; only workers and the aggregation
// barrier interpret them.
package queryplan

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CompareOp is a comparison operator applied by a filter predicate.
type CompareOp string

const (
	OpEq  CompareOp = "eq"
	OpNeq CompareOp = "neq"
	OpLt  CompareOp = "lt"
	OpLte CompareOp = "lte"
	OpGt  CompareOp = "gt"
	OpGte CompareOp = "gte"
)

// AggFunc is an aggregation function. All supported functions are
// commutative and associative so that partial results can be folded in any
// order across workers and combiners.
type AggFunc string

const (
	AggCount AggFunc = "count"
	AggSum   AggFunc = "sum"
	AggMin   AggFunc = "min"
	AggMax   AggFunc = "max"
)

// Predicate filters rows by comparing a column against a literal. Numeric
// literals are decoded as float64, regardless of the column's physical type.
type Predicate struct {
	Column string      `json:"column"`
	Op     CompareOp   `json:"op"`
	Value  interface{} `json:"value"`
}

// Aggregate is a single aggregation over a column. Count ignores the column.
type Aggregate struct {
	Func   AggFunc `json:"func"`
	Column string  `json:"column,omitempty"`
}

// Name returns the output column name of the aggregate.
func (a Aggregate) Name() string {
	if a.Func == AggCount {
		return "count()"
	}
	return fmt.Sprintf("%s(%s)", a.Func, a.Column)
}

// Aggregation describes the aggregation stage of a fragment. Workers emit
// partial aggregates; combiners and the coordinator fold them.
type Aggregation struct {
	GroupBy    []string    `json:"group_by,omitempty"`
	Aggregates []Aggregate `json:"aggregates"`
}

// Fragment is the unit of computation a worker executes against one
// partition. Table names the dataset prefix in object storage; it is used by
// the coordinator to resolve partitions and ignored by workers, which
// receive an explicit partition descriptor.
type Fragment struct {
	Table       string       `json:"table"`
	Columns     []string     `json:"columns,omitempty"`
	Filters     []Predicate  `json:"filters,omitempty"`
	Aggregation *Aggregation `json:"aggregation,omitempty"`
}

// Marshal encodes the fragment for transfer over the wire.
func (f *Fragment) Marshal() ([]byte, error) {
	return json.Marshal(f)
}

// Unmarshal decodes a fragment received over the wire.
func Unmarshal(data []byte) (*Fragment, error) {
	var f Fragment
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding plan fragment: %w", err)
	}
	return &f, nil
}

// Validate reports whether the fragment is executable. Coordinators and
// workers both validate before dispatching or running any work, so an
// unsupported fragment fails the query without consuming a retry attempt.
func (f *Fragment) Validate() error {
	if f.Table == "" {
		return fmt.Errorf("fragment has no table")
	}
	for _, p := range f.Filters {
		switch p.Op {
		case OpEq, OpNeq, OpLt, OpLte, OpGt, OpGte:
		default:
			return fmt.Errorf("unsupported compare op %q", p.Op)
		}
		if p.Column == "" {
			return fmt.Errorf("filter predicate has no column")
		}
	}
	if agg := f.Aggregation; agg != nil {
		if len(agg.Aggregates) == 0 {
			return fmt.Errorf("aggregation has no aggregates")
		}
		for _, a := range agg.Aggregates {
			switch a.Func {
			case AggCount:
			case AggSum, AggMin, AggMax:
				if a.Column == "" {
					return fmt.Errorf("%s aggregate has no column", a.Func)
				}
			default:
				return fmt.Errorf("unsupported aggregate func %q", a.Func)
			}
		}
	}
	return nil
}

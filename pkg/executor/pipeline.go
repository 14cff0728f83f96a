// Package executor implements the columnar operations a worker applies to
// one partition: a Parquet scan feeding filter, projection and partial
// aggregation pipelines over Arrow record batches. It also provides the
// bounded record stream used by every tier to move batches between
// producers and consumers under backpressure.
package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// Pipeline represents a data processing pipeline that produces Arrow
// records. Records returned by Read are owned by the caller and must be
// released.
type Pipeline interface {
	// Read returns the next record from the pipeline. It returns EOF once
	// the pipeline is exhausted.
	Read(context.Context) (arrow.Record, error)
	// Close releases the resources of the pipeline. The implementation must
	// close all of the pipeline's inputs.
	Close()
}

// EOF reports that a pipeline produced all of its records.
var EOF = errors.New("pipeline exhausted") //nolint:revive

type readFunc func(context.Context, []Pipeline) (arrow.Record, error)

type genericPipeline struct {
	inputs []Pipeline
	read   readFunc
}

func newGenericPipeline(read readFunc, inputs ...Pipeline) *genericPipeline {
	return &genericPipeline{read: read, inputs: inputs}
}

func (p *genericPipeline) Read(ctx context.Context) (arrow.Record, error) {
	if p.read == nil {
		return nil, EOF
	}
	return p.read(ctx, p.inputs)
}

func (p *genericPipeline) Close() {
	for _, inp := range p.inputs {
		inp.Close()
	}
}

// ErrorPipeline returns a pipeline whose reads always fail with err.
func ErrorPipeline(err error) Pipeline {
	return newGenericPipeline(func(context.Context, []Pipeline) (arrow.Record, error) {
		return nil, fmt.Errorf("failed to execute pipeline: %w", err)
	})
}

// SlicePipeline returns a pipeline that emits the given records in order.
// The pipeline takes ownership of the records; unread records are released
// on Close.
func SlicePipeline(recs ...arrow.Record) Pipeline {
	s := &slicePipeline{recs: recs}
	return s
}

type slicePipeline struct {
	recs []arrow.Record
	next int
}

func (s *slicePipeline) Read(_ context.Context) (arrow.Record, error) {
	if s.next >= len(s.recs) {
		return nil, EOF
	}
	rec := s.recs[s.next]
	s.recs[s.next] = nil
	s.next++
	return rec, nil
}

func (s *slicePipeline) Close() {
	for ; s.next < len(s.recs); s.next++ {
		if s.recs[s.next] != nil {
			s.recs[s.next].Release()
			s.recs[s.next] = nil
		}
	}
}

// Drain reads p to exhaustion and returns the collected records. On error
// the already collected records are released.
func Drain(ctx context.Context, p Pipeline) ([]arrow.Record, error) {
	var recs []arrow.Record
	for {
		rec, err := p.Read(ctx)
		if errors.Is(err, EOF) {
			return recs, nil
		}
		if err != nil {
			for _, r := range recs {
				r.Release()
			}
			return nil, err
		}
		recs = append(recs, rec)
	}
}

// ReleaseAll releases every record in recs.
func ReleaseAll(recs []arrow.Record) {
	for _, r := range recs {
		r.Release()
	}
}

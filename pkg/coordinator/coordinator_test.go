package coordinator

import (
	"bytes"
	"context"
	"flag"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-kit/log"
	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/thanos-io/objstore"

	"github.com/colibri-io/colibri/pkg/combiner"
	"github.com/colibri-io/colibri/pkg/executor"
	"github.com/colibri-io/colibri/pkg/fabricpb"
	"github.com/colibri-io/colibri/pkg/invoke"
	"github.com/colibri-io/colibri/pkg/queryplan"
)

type trip struct {
	City string  `parquet:"city"`
	Fare float64 `parquet:"fare"`
}

// newTestBucket stores four single row group partitions under trips/.
func newTestBucket(t *testing.T) objstore.Bucket {
	t.Helper()

	bkt := objstore.NewInMemBucket()
	for i, rows := range [][]trip{
		{{City: "paris", Fare: 10}, {City: "lyon", Fare: 5}},
		{{City: "paris", Fare: 20}},
		{{City: "nice", Fare: 7}, {City: "nice", Fare: 3}},
		{{City: "lyon", Fare: 40}},
	} {
		var buf bytes.Buffer
		w := parquet.NewGenericWriter[trip](&buf)
		_, err := w.Write(rows)
		require.NoError(t, err)
		require.NoError(t, w.Close())
		name := []string{"trips/a.parquet", "trips/b.parquet", "trips/c.parquet", "trips/d.parquet"}[i]
		require.NoError(t, bkt.Upload(context.Background(), name, bytes.NewReader(buf.Bytes())))
	}
	return bkt
}

func newTestCoordinator(t *testing.T, bkt objstore.Bucket, abortOnPartialFailure bool) *Coordinator {
	t.Helper()

	var combinerCfg combiner.Config
	combinerCfg.RegisterFlags(flag.NewFlagSet("test", flag.PanicOnError))
	combiners := []*combiner.Combiner{
		combiner.New(combinerCfg, invoke.NewLocal(bkt, log.NewNopLogger()), log.NewNopLogger(), prometheus.NewRegistry()),
		combiner.New(combinerCfg, invoke.NewLocal(bkt, log.NewNopLogger()), log.NewNopLogger(), prometheus.NewRegistry()),
	}

	cfg := Config{
		Mode:                  ModeInProcess,
		InProcessCombiners:    len(combiners),
		SplitStrategy:         SplitRoundRobin,
		AbortOnPartialFailure: abortOnPartialFailure,
	}
	c, err := New(cfg, bkt, combiners, log.NewNopLogger(), prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func countPlan() *queryplan.Fragment {
	return &queryplan.Fragment{
		Table: "trips",
		Aggregation: &queryplan.Aggregation{
			Aggregates: []queryplan.Aggregate{
				{Func: queryplan.AggCount},
				{Func: queryplan.AggSum, Column: "fare"},
			},
		},
	}
}

func TestSubmitAggregation(t *testing.T) {
	c := newTestCoordinator(t, newTestBucket(t), true)

	res, err := c.Submit(context.Background(), countPlan())
	require.NoError(t, err)
	defer res.Close()
	require.NotEmpty(t, res.QueryID())

	rec, err := res.Read(context.Background())
	require.NoError(t, err)
	defer rec.Release()
	require.Equal(t, int64(6), rec.Column(0).(*array.Int64).Value(0))
	require.InDelta(t, 85.0, rec.Column(1).(*array.Float64).Value(0), 1e-9)

	_, err = res.Read(context.Background())
	require.ErrorIs(t, err, executor.EOF)
	require.Equal(t, fabricpb.RESULT_COMPLETE, res.Status().Status)
}

func TestSubmitStreaming(t *testing.T) {
	c := newTestCoordinator(t, newTestBucket(t), true)

	res, err := c.Submit(context.Background(), &queryplan.Fragment{Table: "trips", Columns: []string{"city"}})
	require.NoError(t, err)
	defer res.Close()

	seen := map[string]bool{}
	var rows int64
	for {
		id, rec, err := res.ReadTagged(context.Background())
		if errors.Is(err, executor.EOF) {
			break
		}
		require.NoError(t, err)
		seen[id] = true
		rows += rec.NumRows()
		rec.Release()
	}

	require.Equal(t, fabricpb.RESULT_COMPLETE, res.Status().Status)
	require.Equal(t, int64(6), rows)
	require.Len(t, seen, 4)
}

func TestSubmitPartialOnCorruptPartition(t *testing.T) {
	bkt := newTestBucket(t)
	require.NoError(t, bkt.Upload(context.Background(), "trips/e.parquet", strings.NewReader("not parquet at all")))
	c := newTestCoordinator(t, bkt, false)

	res, err := c.Submit(context.Background(), countPlan())
	require.NoError(t, err)
	defer res.Close()

	rec, err := res.Read(context.Background())
	require.NoError(t, err)
	defer rec.Release()
	// The four healthy partitions still aggregate.
	require.Equal(t, int64(6), rec.Column(0).(*array.Int64).Value(0))

	_, err = res.Read(context.Background())
	require.ErrorIs(t, err, executor.EOF)

	status := res.Status()
	require.Equal(t, fabricpb.RESULT_PARTIAL, status.Status)
	require.Equal(t, []string{"trips/e.parquet"}, status.FailedPartitions)
}

func TestSubmitAbortOnCorruptPartition(t *testing.T) {
	bkt := newTestBucket(t)
	require.NoError(t, bkt.Upload(context.Background(), "trips/e.parquet", strings.NewReader("not parquet at all")))
	c := newTestCoordinator(t, bkt, true)

	res, err := c.Submit(context.Background(), countPlan())
	require.NoError(t, err)
	defer res.Close()

	for {
		_, rec, readErr := res.ReadTagged(context.Background())
		if readErr != nil {
			require.NotErrorIs(t, readErr, executor.EOF)
			break
		}
		rec.Release()
	}

	status := res.Status()
	require.Equal(t, fabricpb.RESULT_FAILED, status.Status)
	require.Contains(t, status.FailedPartitions, "trips/e.parquet")
}

// streamEvent scripts one readTagged result.
type streamEvent struct {
	id  string
	rec arrow.Record
	err error
}

type scriptedStream struct {
	events []streamEvent
}

func (s *scriptedStream) readTagged(context.Context) (string, arrow.Record, error) {
	if len(s.events) == 0 {
		return "", nil, executor.EOF
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev.id, ev.rec, ev.err
}

func (s *scriptedStream) trailer() *fabricpb.Trailer { return nil }

func (s *scriptedStream) close() {}

type scriptedTarget struct {
	ps partialStream
}

func (t *scriptedTarget) execute(context.Context, string, *queryplan.Fragment, []*fabricpb.PartitionDesc, bool) (partialStream, error) {
	return t.ps, nil
}

func (t *scriptedTarget) close() error { return nil }

func buildCityRecord(t *testing.T) arrow.Record {
	t.Helper()
	schema := arrow.NewSchema([]arrow.Field{{Name: "city", Type: arrow.BinaryTypes.String}}, nil)
	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()
	b.Field(0).(*array.StringBuilder).Append("paris")
	return b.NewRecord()
}

// A stream lost mid-flight only fails the partitions whose completion mark
// never arrived; p0's batches are already downstream.
func TestGatherLostStreamKeepsDeliveredPartitions(t *testing.T) {
	subset := []*fabricpb.PartitionDesc{{ID: "p0"}, {ID: "p1"}}
	tgt := &scriptedTarget{ps: &scriptedStream{events: []streamEvent{
		{id: "p0", rec: buildCityRecord(t)},
		{id: "p0"}, // completion mark
		{id: "p1", rec: buildCityRecord(t)},
		{err: invoke.Transient(errors.New("connection reset"))},
	}}}

	c := &Coordinator{
		cfg:     Config{Mode: ModeInProcess, SplitStrategy: SplitRoundRobin},
		logger:  log.NewNopLogger(),
		metrics: newMetrics(prometheus.NewRegistry()),
	}
	res := newResult("q1", 8)
	defer res.Close()
	gather := &gatherState{}

	c.gatherOne(context.Background(), func() {}, "q1", &queryplan.Fragment{Table: "trips"}, tgt, subset, nil, res, gather)

	failed, fatal := gather.snapshot()
	require.NoError(t, fatal)
	require.Equal(t, []string{"p1"}, failed)
}

func TestSubmitInvalidPlan(t *testing.T) {
	c := newTestCoordinator(t, newTestBucket(t), true)

	_, err := c.Submit(context.Background(), &queryplan.Fragment{})
	require.Error(t, err)
	require.Equal(t, invoke.ClassPermanentPlan, invoke.Classify(err))
}

func TestSubmitEmptyTable(t *testing.T) {
	c := newTestCoordinator(t, objstore.NewInMemBucket(), true)

	plan := countPlan()
	res, err := c.Submit(context.Background(), plan)
	require.NoError(t, err)
	defer res.Close()

	rec, err := res.Read(context.Background())
	require.NoError(t, err)
	defer rec.Release()
	require.Equal(t, int64(0), rec.Column(0).(*array.Int64).Value(0))
	require.Equal(t, fabricpb.RESULT_COMPLETE, res.Status().Status)
}

func TestResolvePartitions(t *testing.T) {
	bkt := newTestBucket(t)

	parts, err := resolvePartitions(context.Background(), bkt, "trips")
	require.NoError(t, err)
	require.Len(t, parts, 4)
	require.Equal(t, "trips/a.parquet", parts[0].GetID())
	require.Positive(t, parts[0].GetSize_())

	single, err := resolvePartitions(context.Background(), bkt, "trips/b.parquet")
	require.NoError(t, err)
	require.Len(t, single, 1)
	require.Equal(t, "trips/b.parquet", single[0].GetLocation())
}

func TestSplitPartitions(t *testing.T) {
	parts := []*fabricpb.PartitionDesc{
		{ID: "p0", Size_: 100},
		{ID: "p1", Size_: 10},
		{ID: "p2", Size_: 90},
		{ID: "p3", Size_: 20},
	}

	rr := splitPartitions(parts, 2, SplitRoundRobin)
	require.Equal(t, []string{"p0", "p2"}, partitionIDs(rr[0]))
	require.Equal(t, []string{"p1", "p3"}, partitionIDs(rr[1]))

	// Largest first onto the least loaded combiner: 100+10 balances
	// against 90+20.
	sb := splitPartitions(parts, 2, SplitSizeBalanced)
	require.Equal(t, []string{"p0", "p1"}, partitionIDs(sb[0]))
	require.Equal(t, []string{"p2", "p3"}, partitionIDs(sb[1]))
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Mode: ModeInProcess, InProcessCombiners: 2, SplitStrategy: SplitRoundRobin}
	require.NoError(t, cfg.Validate())

	cfg.Mode = ModeGRPC
	require.Error(t, cfg.Validate())

	cfg.CombinerAddresses = []string{"combiner-1:9095"}
	require.NoError(t, cfg.Validate())

	cfg.SplitStrategy = "alphabetical"
	require.Error(t, cfg.Validate())
}

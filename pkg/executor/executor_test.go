package executor

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-kit/log"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/require"
	"github.com/thanos-io/objstore"

	"github.com/colibri-io/colibri/pkg/fabricpb"
	"github.com/colibri-io/colibri/pkg/queryplan"
)

type trip struct {
	City     string  `parquet:"city"`
	Fare     float64 `parquet:"fare"`
	Distance int64   `parquet:"distance"`
}

var testTrips = []trip{
	{City: "paris", Fare: 12.5, Distance: 3},
	{City: "paris", Fare: 30.0, Distance: 11},
	{City: "lyon", Fare: 7.2, Distance: 2},
	{City: "lyon", Fare: 18.3, Distance: 9},
	{City: "nice", Fare: 55.0, Distance: 40},
}

func uploadTrips(t *testing.T, bkt objstore.Bucket, name string, rows []trip) {
	t.Helper()

	var buf bytes.Buffer
	w := parquet.NewGenericWriter[trip](&buf)
	_, err := w.Write(rows)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, bkt.Upload(context.Background(), name, bytes.NewReader(buf.Bytes())))
}

func tripsPartition(name string) *fabricpb.PartitionDesc {
	return &fabricpb.PartitionDesc{ID: "p0", Location: name}
}

func TestParquetScan(t *testing.T) {
	bkt := objstore.NewInMemBucket()
	uploadTrips(t, bkt, "trips.parquet", testTrips)

	p := NewParquetScan(ScanOptions{
		Bucket:    bkt,
		Partition: tripsPartition("trips.parquet"),
		Columns:   []string{"city", "fare"},
		BatchSize: 1024,
	})
	defer p.Close()

	recs, err := Drain(context.Background(), p)
	require.NoError(t, err)
	defer ReleaseAll(recs)

	var rows int64
	for _, rec := range recs {
		require.Equal(t, int64(2), rec.NumCols())
		require.Equal(t, "city", rec.Schema().Field(0).Name)
		require.Equal(t, "fare", rec.Schema().Field(1).Name)
		rows += rec.NumRows()
	}
	require.Equal(t, int64(len(testTrips)), rows)
}

// failAfterCancelBucket refuses range reads once the caller's context is
// done, like a real object store client would.
type failAfterCancelBucket struct {
	objstore.Bucket
}

func (b *failAfterCancelBucket) GetRange(ctx context.Context, name string, off, length int64) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b.Bucket.GetRange(ctx, name, off, length)
}

// Page fetches must run under the context of the Read call that triggers
// them, not the one the scan was initialized with.
func TestParquetScanUsesCallContext(t *testing.T) {
	bkt := objstore.NewInMemBucket()

	var buf bytes.Buffer
	w := parquet.NewGenericWriter[trip](&buf)
	_, err := w.Write(testTrips[:3])
	require.NoError(t, err)
	require.NoError(t, w.Flush())
	_, err = w.Write(testTrips[3:])
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, bkt.Upload(context.Background(), "trips.parquet", bytes.NewReader(buf.Bytes())))

	p := NewParquetScan(ScanOptions{
		Bucket:    &failAfterCancelBucket{Bucket: bkt},
		Partition: tripsPartition("trips.parquet"),
		BatchSize: 1024,
	})
	defer p.Close()

	rec, err := p.Read(context.Background())
	require.NoError(t, err)
	rec.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Read(ctx)
	require.Error(t, err)
	require.ErrorContains(t, err, context.Canceled.Error())
}

func TestParquetScanMissingObject(t *testing.T) {
	p := NewParquetScan(ScanOptions{
		Bucket:    objstore.NewInMemBucket(),
		Partition: tripsPartition("missing.parquet"),
	})
	defer p.Close()

	_, err := p.Read(context.Background())
	require.Error(t, err)
}

func buildTestRecord(t *testing.T, cities []string, fares []float64) arrow.Record {
	t.Helper()

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "city", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "fare", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	}, nil)
	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	b.Field(0).(*array.StringBuilder).AppendValues(cities, nil)
	b.Field(1).(*array.Float64Builder).AppendValues(fares, nil)
	return b.NewRecord()
}

func TestFilter(t *testing.T) {
	rec := buildTestRecord(t,
		[]string{"paris", "lyon", "paris", "nice"},
		[]float64{10, 20, 30, 40},
	)
	p := NewFilter(SlicePipeline(rec), []queryplan.Predicate{
		{Column: "city", Op: queryplan.OpEq, Value: "paris"},
		{Column: "fare", Op: queryplan.OpGt, Value: float64(15)},
	})
	defer p.Close()

	out, err := p.Read(context.Background())
	require.NoError(t, err)
	defer out.Release()

	require.Equal(t, int64(1), out.NumRows())
	require.Equal(t, "paris", out.Column(0).(*array.String).Value(0))
	require.Equal(t, float64(30), out.Column(1).(*array.Float64).Value(0))

	_, err = p.Read(context.Background())
	require.ErrorIs(t, err, EOF)
}

func TestFilterSkipsEmptyBatches(t *testing.T) {
	rec1 := buildTestRecord(t, []string{"lyon"}, []float64{1})
	rec2 := buildTestRecord(t, []string{"paris"}, []float64{2})
	p := NewFilter(SlicePipeline(rec1, rec2), []queryplan.Predicate{
		{Column: "city", Op: queryplan.OpEq, Value: "paris"},
	})
	defer p.Close()

	out, err := p.Read(context.Background())
	require.NoError(t, err)
	defer out.Release()
	require.Equal(t, int64(1), out.NumRows())
}

func TestFilterUnknownColumn(t *testing.T) {
	rec := buildTestRecord(t, []string{"paris"}, []float64{1})
	p := NewFilter(SlicePipeline(rec), []queryplan.Predicate{
		{Column: "nope", Op: queryplan.OpEq, Value: "x"},
	})
	defer p.Close()

	_, err := p.Read(context.Background())
	require.ErrorContains(t, err, "does not exist")
}

func TestProjection(t *testing.T) {
	rec := buildTestRecord(t, []string{"paris", "lyon"}, []float64{10, 20})
	p := NewProjection(SlicePipeline(rec), []string{"fare"})
	defer p.Close()

	out, err := p.Read(context.Background())
	require.NoError(t, err)
	defer out.Release()

	require.Equal(t, int64(1), out.NumCols())
	require.Equal(t, "fare", out.Schema().Field(0).Name)
	require.Equal(t, int64(2), out.NumRows())
}

func TestAggStateGlobal(t *testing.T) {
	agg := &queryplan.Aggregation{
		Aggregates: []queryplan.Aggregate{
			{Func: queryplan.AggCount},
			{Func: queryplan.AggSum, Column: "fare"},
			{Func: queryplan.AggMin, Column: "fare"},
			{Func: queryplan.AggMax, Column: "fare"},
		},
	}
	state := NewAggState(agg)

	rec := buildTestRecord(t, []string{"paris", "lyon", "nice"}, []float64{10, 5, 40})
	defer rec.Release()
	require.NoError(t, state.Accumulate(rec))

	out, err := state.Emit()
	require.NoError(t, err)
	defer out.Release()

	require.Equal(t, int64(1), out.NumRows())
	require.Equal(t, int64(3), out.Column(0).(*array.Int64).Value(0))
	require.Equal(t, float64(55), out.Column(1).(*array.Float64).Value(0))
	require.Equal(t, float64(5), out.Column(2).(*array.Float64).Value(0))
	require.Equal(t, float64(40), out.Column(3).(*array.Float64).Value(0))
}

func TestAggStateEmptyInput(t *testing.T) {
	agg := &queryplan.Aggregation{
		Aggregates: []queryplan.Aggregate{
			{Func: queryplan.AggCount},
			{Func: queryplan.AggMin, Column: "fare"},
		},
	}
	out, err := NewAggState(agg).Emit()
	require.NoError(t, err)
	defer out.Release()

	require.Equal(t, int64(1), out.NumRows())
	require.Equal(t, int64(0), out.Column(0).(*array.Int64).Value(0))
	require.True(t, out.Column(1).IsNull(0))
}

func TestAggStateGroupBy(t *testing.T) {
	agg := &queryplan.Aggregation{
		GroupBy: []string{"city"},
		Aggregates: []queryplan.Aggregate{
			{Func: queryplan.AggCount},
			{Func: queryplan.AggSum, Column: "fare"},
		},
	}
	state := NewAggState(agg)

	rec := buildTestRecord(t, []string{"paris", "lyon", "paris"}, []float64{10, 7, 30})
	defer rec.Release()
	require.NoError(t, state.Accumulate(rec))

	out, err := state.Emit()
	require.NoError(t, err)
	defer out.Release()

	require.Equal(t, int64(2), out.NumRows())
	got := map[string][2]float64{}
	cities := out.Column(0).(*array.String)
	counts := out.Column(1).(*array.Int64)
	sums := out.Column(2).(*array.Float64)
	for i := 0; i < int(out.NumRows()); i++ {
		got[cities.Value(i)] = [2]float64{float64(counts.Value(i)), sums.Value(i)}
	}
	require.Equal(t, [2]float64{2, 40}, got["paris"])
	require.Equal(t, [2]float64{1, 7}, got["lyon"])
}

// Partial aggregates must fold to the same result in any order.
func TestAggStateFoldCommutes(t *testing.T) {
	agg := &queryplan.Aggregation{
		GroupBy: []string{"city"},
		Aggregates: []queryplan.Aggregate{
			{Func: queryplan.AggCount},
			{Func: queryplan.AggSum, Column: "fare"},
			{Func: queryplan.AggMin, Column: "fare"},
			{Func: queryplan.AggMax, Column: "fare"},
		},
	}

	partial := func(cities []string, fares []float64) arrow.Record {
		state := NewAggState(agg)
		rec := buildTestRecord(t, cities, fares)
		defer rec.Release()
		require.NoError(t, state.Accumulate(rec))
		out, err := state.Emit()
		require.NoError(t, err)
		return out
	}

	p1 := partial([]string{"paris", "lyon"}, []float64{10, 7})
	defer p1.Release()
	p2 := partial([]string{"paris", "nice"}, []float64{30, 2})
	defer p2.Release()

	fold := func(parts ...arrow.Record) arrow.Record {
		state := NewAggState(agg)
		for _, p := range parts {
			require.NoError(t, state.Fold(p))
		}
		out, err := state.Emit()
		require.NoError(t, err)
		return out
	}

	ab := fold(p1, p2)
	defer ab.Release()
	ba := fold(p2, p1)
	defer ba.Release()

	require.True(t, array.RecordEqual(ab, ba))

	cities := ab.Column(0).(*array.String)
	counts := ab.Column(1).(*array.Int64)
	sums := ab.Column(2).(*array.Float64)
	for i := 0; i < int(ab.NumRows()); i++ {
		if cities.Value(i) == "paris" {
			require.Equal(t, int64(2), counts.Value(i))
			require.Equal(t, float64(40), sums.Value(i))
		}
	}
}

func TestRunEndToEnd(t *testing.T) {
	bkt := objstore.NewInMemBucket()
	uploadTrips(t, bkt, "trips.parquet", testTrips)

	fragment := &queryplan.Fragment{
		Table:   "trips",
		Filters: []queryplan.Predicate{{Column: "distance", Op: queryplan.OpGte, Value: float64(9)}},
		Aggregation: &queryplan.Aggregation{
			Aggregates: []queryplan.Aggregate{
				{Func: queryplan.AggCount},
				{Func: queryplan.AggSum, Column: "fare"},
			},
		},
	}

	p := Run(Config{Bucket: bkt}, fragment, tripsPartition("trips.parquet"), log.NewNopLogger())
	defer p.Close()

	out, err := p.Read(context.Background())
	require.NoError(t, err)
	defer out.Release()

	require.Equal(t, int64(1), out.NumRows())
	require.Equal(t, int64(3), out.Column(0).(*array.Int64).Value(0))
	require.InDelta(t, 103.3, out.Column(1).(*array.Float64).Value(0), 1e-9)

	_, err = p.Read(context.Background())
	require.ErrorIs(t, err, EOF)
}

func TestRunInvalidFragment(t *testing.T) {
	p := Run(Config{Bucket: objstore.NewInMemBucket()}, &queryplan.Fragment{}, tripsPartition("x"), log.NewNopLogger())
	defer p.Close()

	_, err := p.Read(context.Background())
	require.Error(t, err)
}

package executor

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/thanos-io/objstore"

	"github.com/colibri-io/colibri/pkg/fabricpb"
	"github.com/colibri-io/colibri/pkg/queryplan"
)

// Config configures the execution of a plan fragment on one partition.
type Config struct {
	Bucket    objstore.Bucket
	BatchSize int64
}

const defaultBatchSize = 8192

// Run builds the pipeline for one plan fragment over one partition: a
// Parquet scan narrowed to the columns the fragment touches, the fragment's
// filters, and either partial aggregation or a projection to the selected
// columns. The returned pipeline is lazy; no object storage request is
// issued before the first Read.
func Run(cfg Config, fragment *queryplan.Fragment, partition *fabricpb.PartitionDesc, logger log.Logger) Pipeline {
	if err := fragment.Validate(); err != nil {
		return ErrorPipeline(err)
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	scanColumns := scanColumns(fragment)
	level.Debug(logger).Log(
		"msg", "building partition pipeline",
		"partition", partition.ID,
		"location", partition.Location,
		"columns", len(scanColumns),
		"filters", len(fragment.Filters),
		"aggregated", fragment.Aggregation != nil,
	)

	var p Pipeline = NewParquetScan(ScanOptions{
		Bucket:    cfg.Bucket,
		Partition: partition,
		Columns:   scanColumns,
		BatchSize: batchSize,
	})
	if len(fragment.Filters) > 0 {
		p = NewFilter(p, fragment.Filters)
	}
	if fragment.Aggregation != nil {
		return NewAggregation(p, fragment.Aggregation)
	}
	if len(fragment.Columns) > 0 {
		return NewProjection(p, fragment.Columns)
	}
	return p
}

// scanColumns returns the deduplicated union of every column the fragment
// reads: selected columns, filter columns, group by columns and aggregated
// columns.
func scanColumns(fragment *queryplan.Fragment) []string {
	seen := make(map[string]struct{})
	var cols []string
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		cols = append(cols, name)
	}

	for _, c := range fragment.Columns {
		add(c)
	}
	for _, f := range fragment.Filters {
		add(f.Column)
	}
	if agg := fragment.Aggregation; agg != nil {
		for _, c := range agg.GroupBy {
			add(c)
		}
		for _, a := range agg.Aggregates {
			add(a.Column)
		}
	}
	return cols
}

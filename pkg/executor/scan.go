package executor

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/parquet-go/parquet-go"
	"github.com/thanos-io/objstore"

	"github.com/colibri-io/colibri/pkg/fabricpb"
)

// ScanOptions configure a Parquet partition scan.
type ScanOptions struct {
	Bucket    objstore.Bucket
	Partition *fabricpb.PartitionDesc

	// Columns to read. An empty slice means all columns.
	Columns []string

	// BatchSize is the maximum number of rows per emitted record.
	BatchSize int64
}

// NewParquetScan returns a pipeline that reads the partition's Parquet
// object from the bucket and emits records of at most BatchSize rows.
// Pages are fetched lazily by byte range, so memory is bounded by the
// largest row group, not the object size.
//
// If the partition carries a byte range, only row groups whose file offset
// falls inside the range are read. This is how a single large object is
// split across sibling partitions without overlap.
func NewParquetScan(opts ScanOptions) Pipeline {
	return &parquetScan{opts: opts}
}

type parquetScan struct {
	opts ScanOptions

	initialized bool
	reader      *bucketReaderAt
	rowGroups   []parquet.RowGroup
	rows        parquet.Rows
	rowBuf      []parquet.Row

	schema  *arrow.Schema
	leafIdx []int // output column -> leaf column index
}

var _ Pipeline = (*parquetScan)(nil)

func (s *parquetScan) Read(ctx context.Context) (arrow.Record, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}
	// Page fetches triggered below run under this call's context, not the
	// one init saw.
	s.reader.setContext(ctx)

	for {
		if s.rows == nil {
			if len(s.rowGroups) == 0 {
				return nil, EOF
			}
			s.rows = s.rowGroups[0].Rows()
			s.rowGroups = s.rowGroups[1:]
		}

		n, err := s.rows.ReadRows(s.rowBuf)
		if n > 0 {
			rec, buildErr := s.buildRecord(s.rowBuf[:n])
			if buildErr != nil {
				return nil, buildErr
			}
			return rec, nil
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("reading partition %s: %w", s.opts.Partition.GetID(), err)
		}

		// Row group exhausted; move on to the next one.
		if closeErr := s.rows.Close(); closeErr != nil {
			return nil, fmt.Errorf("closing row group reader: %w", closeErr)
		}
		s.rows = nil
	}
}

func (s *parquetScan) Close() {
	if s.rows != nil {
		_ = s.rows.Close()
		s.rows = nil
	}
	s.rowGroups = nil
}

func (s *parquetScan) init(ctx context.Context) error {
	if s.initialized {
		return nil
	}

	part := s.opts.Partition
	size := part.GetSize_()
	if size == 0 {
		attrs, err := s.opts.Bucket.Attributes(ctx, part.GetLocation())
		if err != nil {
			return fmt.Errorf("resolving partition %s: %w", part.GetID(), err)
		}
		size = attrs.Size
	}

	s.reader = &bucketReaderAt{bkt: s.opts.Bucket, name: part.GetLocation()}
	s.reader.setContext(ctx)
	file, err := parquet.OpenFile(s.reader, size)
	if err != nil {
		return fmt.Errorf("opening partition %s: %w", part.GetID(), err)
	}

	if err := s.initSchema(file); err != nil {
		return err
	}

	meta := file.Metadata()
	for i, rg := range file.RowGroups() {
		if part.GetLength() > 0 {
			off := meta.RowGroups[i].FileOffset
			if off < part.GetOffset() || off >= part.GetOffset()+part.GetLength() {
				continue
			}
		}
		s.rowGroups = append(s.rowGroups, rg)
	}

	batchSize := s.opts.BatchSize
	if batchSize <= 0 {
		batchSize = 2048
	}
	s.rowBuf = make([]parquet.Row, batchSize)

	s.initialized = true
	return nil
}

// initSchema maps the requested Parquet leaf columns onto an Arrow schema.
// Only flat schemas are supported; nested groups fail the scan.
func (s *parquetScan) initSchema(file *parquet.File) error {
	fields := file.Schema().Fields()

	pick := func(name string) bool {
		if len(s.opts.Columns) == 0 {
			return true
		}
		for _, c := range s.opts.Columns {
			if c == name {
				return true
			}
		}
		return false
	}

	var (
		arrowFields []arrow.Field
		seen        = map[string]struct{}{}
	)
	for i, f := range fields {
		if !f.Leaf() {
			return fmt.Errorf("partition %s: nested column %q is not supported", s.opts.Partition.GetID(), f.Name())
		}
		if !pick(f.Name()) {
			continue
		}
		typ, err := arrowType(f.Type().Kind())
		if err != nil {
			return fmt.Errorf("partition %s: column %q: %w", s.opts.Partition.GetID(), f.Name(), err)
		}
		arrowFields = append(arrowFields, arrow.Field{Name: f.Name(), Type: typ, Nullable: f.Optional()})
		s.leafIdx = append(s.leafIdx, i)
		seen[f.Name()] = struct{}{}
	}

	for _, c := range s.opts.Columns {
		if _, ok := seen[c]; !ok {
			return fmt.Errorf("partition %s: column %q does not exist", s.opts.Partition.GetID(), c)
		}
	}

	s.schema = arrow.NewSchema(arrowFields, nil)
	return nil
}

func arrowType(kind parquet.Kind) (arrow.DataType, error) {
	switch kind {
	case parquet.Boolean:
		return arrow.FixedWidthTypes.Boolean, nil
	case parquet.Int32, parquet.Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case parquet.Float, parquet.Double:
		return arrow.PrimitiveTypes.Float64, nil
	case parquet.ByteArray:
		return arrow.BinaryTypes.String, nil
	default:
		return nil, fmt.Errorf("unsupported parquet kind %s", kind)
	}
}

func (s *parquetScan) buildRecord(rows []parquet.Row) (arrow.Record, error) {
	b := array.NewRecordBuilder(memory.DefaultAllocator, s.schema)
	defer b.Release()

	for _, row := range rows {
		for out, leaf := range s.leafIdx {
			if leaf >= len(row) {
				return nil, fmt.Errorf("partition %s: malformed row with %d values", s.opts.Partition.GetID(), len(row))
			}
			v := row[leaf]
			if v.IsNull() {
				b.Field(out).AppendNull()
				continue
			}
			switch fb := b.Field(out).(type) {
			case *array.BooleanBuilder:
				fb.Append(v.Boolean())
			case *array.Int64Builder:
				if v.Kind() == parquet.Int32 {
					fb.Append(int64(v.Int32()))
				} else {
					fb.Append(v.Int64())
				}
			case *array.Float64Builder:
				if v.Kind() == parquet.Float {
					fb.Append(float64(v.Float()))
				} else {
					fb.Append(v.Double())
				}
			case *array.StringBuilder:
				fb.Append(string(v.ByteArray()))
			default:
				return nil, fmt.Errorf("unsupported builder type %T", fb)
			}
		}
	}

	return b.NewRecord(), nil
}

// bucketReaderAt adapts a bucket object to io.ReaderAt for the Parquet
// footer and page reads. io.ReaderAt carries no context, so the owning
// scan installs the context of the Read call driving the page fetches.
type bucketReaderAt struct {
	bkt  objstore.Bucket
	name string

	mtx sync.Mutex
	ctx context.Context
}

func (r *bucketReaderAt) setContext(ctx context.Context) {
	r.mtx.Lock()
	r.ctx = ctx
	r.mtx.Unlock()
}

func (r *bucketReaderAt) context() context.Context {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.ctx
}

func (r *bucketReaderAt) ReadAt(p []byte, off int64) (int, error) {
	rc, err := r.bkt.GetRange(r.context(), r.name, off, int64(len(p)))
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	n, err := io.ReadFull(rc, p)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return n, err
}

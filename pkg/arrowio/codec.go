// Package arrowio converts Arrow records to and from their IPC stream
// representation for transfer inside transport frames.
package arrowio

import (
	"bytes"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Marshal encodes a single record as an Arrow IPC stream. Each record is
// framed independently so that frames can be decoded without carrying reader
// state across transport messages.
func Marshal(rec arrow.Record) ([]byte, error) {
	var buf bytes.Buffer

	w := ipc.NewWriter(&buf,
		ipc.WithSchema(rec.Schema()),
		ipc.WithAllocator(memory.DefaultAllocator),
	)
	if err := w.Write(rec); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("writing record to ipc stream: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing ipc stream: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a record from an IPC stream produced by [Marshal]. The
// returned record is retained and must be released by the caller.
func Unmarshal(data []byte) (arrow.Record, error) {
	r, err := ipc.NewReader(bytes.NewReader(data), ipc.WithAllocator(memory.DefaultAllocator))
	if err != nil {
		return nil, fmt.Errorf("opening ipc stream: %w", err)
	}
	defer r.Release()

	if !r.Next() {
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("reading ipc stream: %w", err)
		}
		return nil, fmt.Errorf("ipc stream contains no record")
	}

	rec := r.Record()
	rec.Retain()
	return rec, nil
}

// UnmarshalAll decodes one record per payload. On error the already decoded
// records are released.
func UnmarshalAll(payloads [][]byte) ([]arrow.Record, error) {
	recs := make([]arrow.Record, 0, len(payloads))
	for i, data := range payloads {
		rec, err := Unmarshal(data)
		if err != nil {
			for _, r := range recs {
				r.Release()
			}
			return nil, fmt.Errorf("payload %d: %w", i, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

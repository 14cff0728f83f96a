package executor

import (
	"context"
	"errors"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
)

// ErrClosedPipeline reports a send into or read from a pipeline whose
// consumer has closed it.
var ErrClosedPipeline = errors.New("pipeline closed")

type streamItem struct {
	tag string
	rec arrow.Record
}

// Stream is a bounded producer/consumer pipeline. Sends block once the
// buffer is full, so a stalled consumer applies backpressure to the
// producer, and Close releases the producer promptly. Records may carry a
// tag naming their origin, read back through ReadTagged.
type Stream struct {
	ch   chan streamItem
	done chan struct{}

	closeOnce sync.Once
	sendOnce  sync.Once

	errMut sync.Mutex
	err    error
}

var _ Pipeline = (*Stream)(nil)

// NewStream returns a stream pipeline with the given buffer capacity and its
// send side. Send may be called from multiple goroutines; CloseSend must be
// called exactly once, after all sends completed.
func NewStream(capacity int) (*Stream, *StreamSender) {
	if capacity < 1 {
		capacity = 1
	}
	s := &Stream{
		ch:   make(chan streamItem, capacity),
		done: make(chan struct{}),
	}
	return s, &StreamSender{s: s}
}

// Read implements Pipeline. It blocks until a record is available, the
// sender terminates the stream, the stream is closed, or ctx is done.
// Tag completion marks are skipped.
func (s *Stream) Read(ctx context.Context) (arrow.Record, error) {
	for {
		_, rec, err := s.ReadTagged(ctx)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return rec, nil
		}
	}
}

// ReadTagged returns the next record along with the tag it was sent under.
// Records sent without a tag carry an empty one. A nil record with a nil
// error is a completion mark: everything sent under that tag has been read.
func (s *Stream) ReadTagged(ctx context.Context) (string, arrow.Record, error) {
	select {
	case it, ok := <-s.ch:
		if !ok {
			return "", nil, s.terminalErr()
		}
		return it.tag, it.rec, nil
	case <-s.done:
		return "", nil, ErrClosedPipeline
	case <-ctx.Done():
		return "", nil, ctx.Err()
	}
}

// Close implements Pipeline. It unblocks pending and future sends and
// releases any buffered records.
func (s *Stream) Close() {
	s.closeOnce.Do(func() {
		close(s.done)

		// Drain whatever the producer already buffered; the producer stops
		// on its own once it observes done.
		go func() {
			for it := range s.ch {
				if it.rec != nil {
					it.rec.Release()
				}
			}
		}()
	})
}

func (s *Stream) terminalErr() error {
	s.errMut.Lock()
	defer s.errMut.Unlock()
	if s.err != nil {
		return s.err
	}
	return EOF
}

func (s *Stream) setTerminalErr(err error) {
	s.errMut.Lock()
	defer s.errMut.Unlock()
	s.err = err
}

// StreamSender is the producer side of a [Stream].
type StreamSender struct {
	s *Stream
}

// Send enqueues a record, blocking while the buffer is full. The stream
// takes ownership of the record; if Send returns an error the record has
// been released and the producer should stop.
func (ss *StreamSender) Send(ctx context.Context, rec arrow.Record) error {
	return ss.SendTagged(ctx, "", rec)
}

// SendTagged is Send with an origin tag attached to the record.
func (ss *StreamSender) SendTagged(ctx context.Context, tag string, rec arrow.Record) error {
	select {
	case ss.s.ch <- streamItem{tag: tag, rec: rec}:
		return nil
	case <-ss.s.done:
		rec.Release()
		return ErrClosedPipeline
	case <-ctx.Done():
		rec.Release()
		return ctx.Err()
	}
}

// SendMark enqueues a completion mark for tag, ordered after everything
// already sent under it.
func (ss *StreamSender) SendMark(ctx context.Context, tag string) error {
	select {
	case ss.s.ch <- streamItem{tag: tag}:
		return nil
	case <-ss.s.done:
		return ErrClosedPipeline
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CloseSend terminates the stream. A nil err ends it with EOF; a non-nil
// err is surfaced to the consumer after all buffered records are read.
func (ss *StreamSender) CloseSend(err error) {
	ss.s.sendOnce.Do(func() {
		if err != nil {
			ss.s.setTerminalErr(err)
		}
		close(ss.s.ch)
	})
}

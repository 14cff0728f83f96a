package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStreamDeliversInOrder(t *testing.T) {
	stream, sender := NewStream(4)
	defer stream.Close()

	want := []float64{1, 2, 3}
	go func() {
		for _, v := range want {
			rec := buildTestRecord(t, []string{"paris"}, []float64{v})
			if err := sender.Send(context.Background(), rec); err != nil {
				return
			}
		}
		sender.CloseSend(nil)
	}()

	recs, err := Drain(context.Background(), stream)
	require.NoError(t, err)
	defer ReleaseAll(recs)
	require.Len(t, recs, len(want))
}

func TestStreamCarriesTags(t *testing.T) {
	stream, sender := NewStream(4)
	defer stream.Close()

	require.NoError(t, sender.SendTagged(context.Background(), "p0", buildTestRecord(t, []string{"paris"}, []float64{1})))
	require.NoError(t, sender.Send(context.Background(), buildTestRecord(t, []string{"lyon"}, []float64{2})))
	sender.CloseSend(nil)

	tag, rec, err := stream.ReadTagged(context.Background())
	require.NoError(t, err)
	rec.Release()
	require.Equal(t, "p0", tag)

	tag, rec, err = stream.ReadTagged(context.Background())
	require.NoError(t, err)
	rec.Release()
	require.Empty(t, tag)

	_, _, err = stream.ReadTagged(context.Background())
	require.ErrorIs(t, err, EOF)
}

func TestStreamPropagatesTerminalError(t *testing.T) {
	stream, sender := NewStream(1)
	defer stream.Close()

	sentinel := errors.New("upstream blew up")
	require.NoError(t, sender.Send(context.Background(), buildTestRecord(t, []string{"paris"}, []float64{1})))
	sender.CloseSend(sentinel)

	// The buffered record is still delivered before the error surfaces.
	rec, err := stream.Read(context.Background())
	require.NoError(t, err)
	rec.Release()

	_, err = stream.Read(context.Background())
	require.ErrorIs(t, err, sentinel)
}

func TestStreamSendBlocksWhenFull(t *testing.T) {
	stream, sender := NewStream(1)
	defer stream.Close()

	require.NoError(t, sender.Send(context.Background(), buildTestRecord(t, []string{"a"}, []float64{1})))

	sent := make(chan error, 1)
	go func() {
		sent <- sender.Send(context.Background(), buildTestRecord(t, []string{"b"}, []float64{2}))
	}()

	select {
	case err := <-sent:
		t.Fatalf("send completed on a full stream: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	rec, err := stream.Read(context.Background())
	require.NoError(t, err)
	rec.Release()

	require.NoError(t, <-sent)
}

func TestStreamSendFailsAfterClose(t *testing.T) {
	stream, sender := NewStream(1)
	require.NoError(t, sender.Send(context.Background(), buildTestRecord(t, []string{"a"}, []float64{1})))
	stream.Close()

	err := sender.Send(context.Background(), buildTestRecord(t, []string{"b"}, []float64{2}))
	require.ErrorIs(t, err, ErrClosedPipeline)
}

func TestStreamSendHonorsContext(t *testing.T) {
	stream, sender := NewStream(1)
	defer stream.Close()

	require.NoError(t, sender.Send(context.Background(), buildTestRecord(t, []string{"a"}, []float64{1})))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := sender.Send(ctx, buildTestRecord(t, []string{"b"}, []float64{2}))
	require.ErrorIs(t, err, context.Canceled)
}

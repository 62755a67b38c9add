package transport

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/valu-sdk-go/internal/config"
	"github.com/wagiedev/valu-sdk-go/internal/errors"
)

// mockChunkReader delivers data in controlled chunks to simulate partial reads.
type mockChunkReader struct {
	chunks [][]byte
	index  int
}

func newMockChunkReader(chunks ...string) *mockChunkReader {
	byteChunks := make([][]byte, len(chunks))
	for i, chunk := range chunks {
		byteChunks[i] = []byte(chunk)
	}

	return &mockChunkReader{chunks: byteChunks}
}

func (r *mockChunkReader) Read(p []byte) (int, error) {
	if r.index >= len(r.chunks) {
		return 0, io.EOF
	}

	chunk := r.chunks[r.index]
	r.index++

	return copy(p, chunk), nil
}

// syncBuffer is a bytes.Buffer safe for the transport's write goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func collectFrames(t *testing.T, tr config.Transport) []*config.Frame {
	t.Helper()

	frames, errs := tr.ReadFrames(context.Background())

	var out []*config.Frame

	for f := range frames {
		out = append(out, f)
	}

	for err := range errs {
		require.NoError(t, err)
	}

	return out
}

func TestStdio_SplitsFramesAcrossChunks(t *testing.T) {
	reader := newMockChunkReader(
		`{"target":"valuApi","name":"api:ready",`,
		`"message":{}}`+"\n"+`{"target":"valuApi"`,
		`,"name":"api:trigger","message":{"action":"on_route"}}`+"\n\n",
	)

	tr := NewStdioWith(nil, reader, io.Discard, "")
	require.NoError(t, tr.Start(context.Background()))

	frames := collectFrames(t, tr)

	require.Len(t, frames, 2)
	require.Contains(t, string(frames[0].Data), "api:ready")
	require.Contains(t, string(frames[1].Data), "api:trigger")
	require.Equal(t, DefaultStdioOrigin, frames[0].Origin)
	require.Same(t, tr, frames[0].Source)
}

func TestStdio_FramesDoNotAlias(t *testing.T) {
	input := strings.Repeat(`{"target":"valuApi","name":"a"}`+"\n", 50)
	tr := NewStdioWith(nil, strings.NewReader(input), io.Discard, "test")

	frames := collectFrames(t, tr)

	require.Len(t, frames, 50)

	for _, f := range frames {
		require.JSONEq(t, `{"target":"valuApi","name":"a"}`, string(f.Data))
	}
}

func TestStdio_PostMessageAppendsNewline(t *testing.T) {
	var out syncBuffer

	tr := NewStdioWith(nil, strings.NewReader(""), &out, "")

	require.NoError(t, tr.PostMessage(context.Background(), []byte(`{"a":1}`), "ignored"))
	require.NoError(t, tr.PostMessage(context.Background(), []byte("{\"b\":2}\n"), "ignored"))

	require.Equal(t, "{\"a\":1}\n{\"b\":2}\n", out.String())

	require.NoError(t, tr.Close())
	require.ErrorIs(t, tr.PostMessage(context.Background(), []byte(`{}`), ""), errors.ErrTransportClosed)
	require.ErrorIs(t, tr.Start(context.Background()), errors.ErrTransportClosed)
}

func TestStdio_CloseEndsReader(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	tr := NewStdioWith(nil, pr, io.Discard, "")
	require.NoError(t, tr.Start(context.Background()))

	frames, errs := tr.ReadFrames(context.Background())

	_, err := pw.Write([]byte(`{"target":"valuApi","name":"api:ready"}` + "\n"))
	require.NoError(t, err)

	select {
	case f := <-frames:
		require.Contains(t, string(f.Data), "api:ready")
	case <-time.After(2 * time.Second):
		t.Fatal("frame not delivered")
	}

	require.NoError(t, tr.Close())

	select {
	case _, ok := <-frames:
		require.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("reader goroutine did not stop after Close")
	}

	require.NoError(t, <-errs)
}

func TestPipe_RoundTrip(t *testing.T) {
	guest, host := NewPipe(nil, "", 4)
	require.NoError(t, guest.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	frames, _ := guest.ReadFrames(ctx)

	require.NoError(t, host.Post(ctx, []byte(`{"hello":"guest"}`)))

	select {
	case f := <-frames:
		require.Equal(t, DefaultPipeOrigin, f.Origin)
		require.JSONEq(t, `{"hello":"guest"}`, string(f.Data))

		require.NoError(t, f.Source.PostMessage(ctx, []byte(`{"hello":"host"}`), f.Origin))
	case <-ctx.Done():
		t.Fatal("frame not delivered")
	}

	select {
	case msg := <-host.Received():
		require.JSONEq(t, `{"hello":"host"}`, string(msg))
	case <-ctx.Done():
		t.Fatal("message not received by host")
	}
}

func TestPipe_CloseStopsReading(t *testing.T) {
	guest, host := NewPipe(nil, "pipe://test", 1)

	frames, errs := guest.ReadFrames(context.Background())

	require.NoError(t, guest.Close())
	require.NoError(t, guest.Close())

	for range frames {
	}

	for range errs {
	}

	require.ErrorIs(t, guest.Start(context.Background()), errors.ErrTransportClosed)
	require.ErrorIs(t, host.PostMessage(context.Background(), []byte(`{}`), ""), errors.ErrTransportClosed)
	require.Equal(t, "pipe://test", host.Origin())
}

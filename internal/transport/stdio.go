package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/wagiedev/valu-sdk-go/internal/config"
	"github.com/wagiedev/valu-sdk-go/internal/errors"
)

const (
	// maxScanTokenSize is the largest single frame accepted from the host.
	maxScanTokenSize = 1024 * 1024 // 1MB

	// DefaultStdioOrigin is reported as the origin of frames read from stdin.
	DefaultStdioOrigin = "stdio://parent"
)

// Stdio implements config.Transport over a reader/writer pair.
// Each frame is one line of JSON.
type Stdio struct {
	log    *slog.Logger
	origin string
	in     io.Reader
	out    io.Writer

	mu     sync.Mutex // Protects writes and the closed flag
	closed bool
}

// Compile-time checks.
var (
	_ config.Transport = (*Stdio)(nil)
	_ config.Endpoint  = (*Stdio)(nil)
)

// NewStdio creates a transport on the process's stdin and stdout.
//
// Close never closes os.Stdin, so the goroutine reading it stays blocked until
// the parent closes the pipe or the process exits. Nothing it reads after
// Close is delivered.
func NewStdio(log *slog.Logger) *Stdio {
	return NewStdioWith(log, os.Stdin, os.Stdout, DefaultStdioOrigin)
}

// NewStdioWith creates a transport reading frames from in and writing them to
// out. origin is reported on every inbound frame.
func NewStdioWith(log *slog.Logger, in io.Reader, out io.Writer, origin string) *Stdio {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if origin == "" {
		origin = DefaultStdioOrigin
	}

	return &Stdio{
		log:    log.With("component", "stdio_transport"),
		origin: origin,
		in:     in,
		out:    out,
	}
}

// Start implements config.Transport.
func (t *Stdio) Start(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return errors.ErrTransportClosed
	}

	t.log.Debug("Stdio transport started", "origin", t.origin)

	return nil
}

// ReadFrames implements config.Transport.
func (t *Stdio) ReadFrames(ctx context.Context) (<-chan *config.Frame, <-chan error) {
	frames := make(chan *config.Frame)
	errs := make(chan error, 1)

	go func() {
		defer close(frames)
		defer close(errs)
		defer t.log.Debug("ReadFrames goroutine stopped")

		scanner := bufio.NewScanner(t.in)
		buf := make([]byte, 64*1024)
		scanner.Buffer(buf, maxScanTokenSize)

		frameCount := 0

		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			// The scanner reuses its buffer between calls.
			data := make([]byte, len(line))
			copy(data, line)

			frameCount++

			select {
			case frames <- &config.Frame{Source: t, Origin: t.origin, Data: data}:
			case <-ctx.Done():
				t.log.Debug("Context cancelled during frame delivery", "error", ctx.Err())

				return
			}
		}

		if err := scanner.Err(); err != nil {
			if t.isClosed() {
				t.log.Debug("Input closed by Close", "frames", frameCount)

				return
			}

			t.log.Error("Scanner error while reading frames", "error", err, "frames", frameCount)

			errs <- fmt.Errorf("scanner error: %w", err)

			return
		}

		t.log.Debug("Input closed", "frames", frameCount)
	}()

	return frames, errs
}

func (t *Stdio) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.closed
}

// PostMessage implements config.Endpoint. The target origin is not checked:
// the parent process is the only peer of a stdio channel.
func (t *Stdio) PostMessage(ctx context.Context, data []byte, _ string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return errors.ErrTransportClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	// Ensure message ends with newline
	if len(data) == 0 || data[len(data)-1] != '\n' {
		newData := make([]byte, len(data)+1)
		copy(newData, data)
		newData[len(data)] = '\n'
		data = newData
	}

	done := make(chan error, 1)

	go func() {
		_, err := t.out.Write(data)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.log.Error("Failed to write frame", "error", err)

			return fmt.Errorf("write frame: %w", err)
		}

		return nil

	case <-ctx.Done():
		// The write goroutine finishes on its own once the peer drains the pipe.
		select {
		case <-done:
		case <-time.After(time.Second):
			t.log.Warn("Write did not finish after cancellation")
		}

		return ctx.Err()
	}
}

// Close implements config.Transport. It stops outbound writes and closes the
// input stream unless it is the process's stdin. When the input is closed the
// ReadFrames goroutine ends; a reader that is not an io.Closer, or stdin, is
// left to end on its own.
func (t *Stdio) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true

	if c, ok := t.in.(io.Closer); ok && t.in != os.Stdin {
		return c.Close()
	}

	return nil
}

package transport

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/wagiedev/valu-sdk-go/internal/config"
	"github.com/wagiedev/valu-sdk-go/internal/errors"
)

// DefaultPipeOrigin is the origin an in-process host reports by default.
const DefaultPipeOrigin = "pipe://host"

// Pipe is the guest side of an in-process channel. Frames posted by the
// PipeHost arrive through ReadFrames; PostMessage on the host endpoint
// delivers to the PipeHost.
type Pipe struct {
	log    *slog.Logger
	frames chan *config.Frame
	host   *PipeHost

	closeOnce sync.Once
	done      chan struct{}
}

// PipeHost is the host side of an in-process channel.
type PipeHost struct {
	origin   string
	received chan []byte
	pipe     *Pipe
}

// Compile-time checks.
var (
	_ config.Transport = (*Pipe)(nil)
	_ config.Endpoint  = (*PipeHost)(nil)
)

// NewPipe creates a connected guest transport and host. buffer sizes both
// directions.
func NewPipe(log *slog.Logger, origin string, buffer int) (*Pipe, *PipeHost) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if origin == "" {
		origin = DefaultPipeOrigin
	}

	p := &Pipe{
		log:    log.With("component", "pipe_transport"),
		frames: make(chan *config.Frame, buffer),
		done:   make(chan struct{}),
	}
	h := &PipeHost{
		origin:   origin,
		received: make(chan []byte, buffer),
		pipe:     p,
	}
	p.host = h

	return p, h
}

// Start implements config.Transport.
func (p *Pipe) Start(_ context.Context) error {
	select {
	case <-p.done:
		return errors.ErrTransportClosed
	default:
		return nil
	}
}

// ReadFrames implements config.Transport. The frame channel closes when the
// pipe is closed or ctx ends.
func (p *Pipe) ReadFrames(ctx context.Context) (<-chan *config.Frame, <-chan error) {
	out := make(chan *config.Frame)
	errs := make(chan error)

	go func() {
		defer close(out)
		defer close(errs)

		for {
			select {
			case f := <-p.frames:
				select {
				case out <- f:
				case <-p.done:
					return
				case <-ctx.Done():
					return
				}
			case <-p.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, errs
}

// Close implements config.Transport.
func (p *Pipe) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
		p.log.Debug("Pipe closed")
	})

	return nil
}

// Done is closed when the guest side closes.
func (p *Pipe) Done() <-chan struct{} {
	return p.done
}

// Post delivers data to the guest as a frame from this host.
func (h *PipeHost) Post(ctx context.Context, data []byte) error {
	return h.PostFrom(ctx, h, h.origin, data)
}

// PostFrom delivers data with an explicit source and origin, for hosts that
// relay frames from elsewhere.
func (h *PipeHost) PostFrom(ctx context.Context, source config.Endpoint, origin string, data []byte) error {
	frame := &config.Frame{Source: source, Origin: origin, Data: data}

	if h.closed() {
		return errors.ErrTransportClosed
	}

	select {
	case h.pipe.frames <- frame:
		return nil
	case <-h.pipe.done:
		return errors.ErrTransportClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PostMessage implements config.Endpoint: the guest posting to the host.
func (h *PipeHost) PostMessage(ctx context.Context, data []byte, _ string) error {
	if h.closed() {
		return errors.ErrTransportClosed
	}

	msg := make([]byte, len(data))
	copy(msg, data)

	select {
	case h.received <- msg:
		return nil
	case <-h.pipe.done:
		return errors.ErrTransportClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Received yields messages the guest posted.
func (h *PipeHost) Received() <-chan []byte {
	return h.received
}

// Origin returns the origin this host reports.
func (h *PipeHost) Origin() string {
	return h.origin
}

func (h *PipeHost) closed() bool {
	select {
	case <-h.pipe.done:
		return true
	default:
		return false
	}
}

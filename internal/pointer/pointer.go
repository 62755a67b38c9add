// Package pointer implements module handles ("API pointers").
//
// A Handle represents one module bound by the host. It issues function calls
// against that module and owns the events the host emits for it. Each handle
// has its own request-identifier namespace and its own pending table; the
// client only transmits calls and forwards replies by identifier.
package pointer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/wagiedev/valu-sdk-go/internal/errors"
	"github.com/wagiedev/valu-sdk-go/internal/eventbus"
	"github.com/wagiedev/valu-sdk-go/internal/protocol"
)

// Router transmits function calls on behalf of a handle.
//
// Route must arrange for the reply to reach CompleteInvocation on the same
// handle. Release is called when the caller stops waiting, so the router can
// forget the request.
type Router interface {
	Route(ctx context.Context, h *Handle, call *protocol.Run) error
	Release(requestID string)
}

// Handle is a bound module.
type Handle struct {
	log    *slog.Logger
	id     string
	name   string
	ver    int
	router Router

	pending *protocol.Table[chan protocol.Reply]
	events  *eventbus.Bus
	done    <-chan struct{}
}

// New creates a handle for module name at the host-assigned version.
// done is closed when the owning client shuts down.
func New(log *slog.Logger, id, name string, version int, router Router, done <-chan struct{}) *Handle {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	log = log.With("component", "pointer", "module", name, "pointer_id", id)

	return &Handle{
		log:     log,
		id:      id,
		name:    name,
		ver:     version,
		router:  router,
		pending: protocol.NewTable[chan protocol.Reply](),
		events:  eventbus.New(log),
		done:    done,
	}
}

// ID returns the locally generated pointer id.
func (h *Handle) ID() string {
	return h.id
}

// Name returns the module name.
func (h *Handle) Name() string {
	return h.name
}

// Version returns the version the host bound, which may differ from the one
// requested.
func (h *Handle) Version() int {
	return h.ver
}

// Pending returns the number of calls awaiting a reply.
func (h *Handle) Pending() int {
	return h.pending.Len()
}

// Invoke calls functionName on the module and waits for its reply.
//
// An error reply from the host surfaces as *errors.InvocationError carrying
// the host's message. There is no built-in timeout; bound the wait with ctx.
func (h *Handle) Invoke(ctx context.Context, functionName string, params any) (any, error) {
	requestID := protocol.NewRequestID()
	waiter := make(chan protocol.Reply, 1)

	if err := h.pending.Put(requestID, waiter); err != nil {
		return nil, fmt.Errorf("invoke %s: %w", functionName, err)
	}

	h.log.Debug("Invoking module function", "request_id", requestID, "function", functionName)

	call := &protocol.Run{
		APIPointerID: h.id,
		RequestID:    requestID,
		FunctionName: functionName,
		Params:       params,
	}

	if err := h.router.Route(ctx, h, call); err != nil {
		h.pending.Claim(requestID)

		return nil, fmt.Errorf("invoke %s: %w", functionName, err)
	}

	select {
	case reply := <-waiter:
		if reply.IsErr() {
			h.log.Debug("Module function returned error", "request_id", requestID, "error", reply.Error())

			return nil, &errors.InvocationError{
				Module:   h.name,
				Function: functionName,
				Message:  reply.Error(),
			}
		}

		return reply.Value(), nil

	case <-h.done:
		h.abandon(requestID)

		return nil, errors.ErrClientClosed

	case <-ctx.Done():
		h.abandon(requestID)
		h.log.Debug("Invocation cancelled", "request_id", requestID, "function", functionName)

		return nil, ctx.Err()
	}
}

// abandon forgets a call the caller no longer waits for.
func (h *Handle) abandon(requestID string) {
	h.pending.Claim(requestID)
	h.router.Release(requestID)
}

// CompleteInvocation settles the call identified by requestID. Unknown
// identifiers are logged and dropped.
func (h *Handle) CompleteInvocation(requestID string, reply protocol.Reply) bool {
	waiter, ok := h.pending.Claim(requestID)
	if !ok {
		h.log.Warn("No pending invocation for reply", "request_id", requestID)

		return false
	}

	// Buffered and claimed exclusively, so this never blocks.
	waiter <- reply

	return true
}

// Subscribe registers fn for module event name.
func (h *Handle) Subscribe(name string, fn eventbus.Handler, once bool) *eventbus.Listener {
	return h.events.Subscribe(name, fn, once)
}

// Unsubscribe removes module event listeners; see eventbus.Bus.Unsubscribe.
func (h *Handle) Unsubscribe(name string, listeners ...*eventbus.Listener) {
	h.events.Unsubscribe(name, listeners...)
}

// Emit publishes a module event to this handle's listeners.
func (h *Handle) Emit(name string, args ...any) any {
	return h.events.Publish(name, args...)
}

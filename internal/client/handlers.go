package client

import (
	"context"

	"github.com/wagiedev/valu-sdk-go/internal/config"
	"github.com/wagiedev/valu-sdk-go/internal/errors"
	"github.com/wagiedev/valu-sdk-go/internal/intent"
	"github.com/wagiedev/valu-sdk-go/internal/metrics"
	"github.com/wagiedev/valu-sdk-go/internal/protocol"
)

// readLoop reads frames from the transport and routes them.
func (c *Client) readLoop(ctx context.Context, frames <-chan *config.Frame, errs <-chan error) error {
	defer c.log.Debug("Read loop stopped")

	for {
		select {
		case <-ctx.Done():
			return nil

		case err, ok := <-errs:
			if !ok {
				errs = nil

				continue
			}

			c.log.Error("Transport error", "error", err)
			c.setFatalError(err)

			return err

		case frame, ok := <-frames:
			if !ok {
				if c.isClosed() {
					return nil
				}

				c.log.Warn("Transport closed by host")
				c.setFatalError(errors.ErrTransportClosed)

				return errors.ErrTransportClosed
			}

			c.handleFrame(frame)
		}
	}
}

// handleFrame decodes one frame and routes it by kind. Replies are settled
// here; anything that runs application code goes through the dispatch queue.
func (c *Client) handleFrame(frame *config.Frame) {
	in, err := protocol.Decode(frame.Data, c.target)
	if err != nil {
		// Malformed frames are counted, never logged.
		c.metrics.DroppedTotal.WithLabelValues("malformed").Inc()

		return
	}

	if in == nil {
		c.metrics.DroppedTotal.WithLabelValues("foreign").Inc()

		return
	}

	c.log.Debug("Received message", "kind", in.Kind, "request_id", in.RequestID())

	switch in.Kind {
	case protocol.KindReady:
		c.handleReady(frame, in)
	case protocol.KindTrigger:
		c.handleTrigger(in)
	case protocol.KindNewIntent:
		c.handleNewIntent(in)
	case protocol.KindRunConsoleCompleted:
		c.settle(c.consoles, metrics.FamilyConsole, in)
	case protocol.KindPointerCreated:
		c.settlePointer(in)
	case protocol.KindRunIntentCompleted, protocol.KindServiceIntentCompleted:
		c.settle(c.intents, metrics.FamilyIntent, in)
	case protocol.KindRunCompleted:
		c.completeInvocation(in)
	case protocol.KindEvent:
		c.handleModuleEvent(in)
	default:
		c.log.Debug("Ignoring unknown message kind", "kind", in.Kind)
		c.metrics.DroppedTotal.WithLabelValues("unknown_kind").Inc()
	}
}

// handleReady completes the handshake. Only the first readiness frame
// captures the endpoint; later ones are logged and ignored.
func (c *Client) handleReady(frame *config.Frame, in *protocol.Inbound) {
	if frame.Source == nil {
		c.log.Warn("Readiness frame without source endpoint, ignoring")

		return
	}

	c.endpointMu.Lock()
	if c.endpoint != nil {
		c.endpointMu.Unlock()
		c.log.Debug("Ignoring repeated readiness", "origin", frame.Origin)

		return
	}

	appID := in.String("applicationId")

	c.endpoint = frame.Source
	c.origin = frame.Origin
	c.applicationID = appID
	c.endpointMu.Unlock()

	launch := intent.FromPayload(in.Payload)

	// Recording the launch intent and reading the bound application happen
	// together, so OnCreate runs here or in SetApplication but not both.
	c.appMu.Lock()
	c.lastIntent = launch
	app := c.app
	c.appMu.Unlock()

	close(c.ready)

	c.log.Info("Host ready", "origin", frame.Origin, "application_id", appID)

	c.queue.enqueue(func(ctx context.Context) {
		c.bus.Publish(EventReady, launch)

		if app == nil {
			return
		}

		if _, err := app.OnCreate(ctx, launch); err != nil {
			c.log.Warn("Application create failed", "error", err)
		}
	})
}

func (c *Client) handleTrigger(in *protocol.Inbound) {
	action := in.String("action")
	if action != protocol.TriggerOnRoute {
		c.log.Debug("Ignoring trigger", "action", action)

		return
	}

	data := in.Payload["data"]

	c.queue.enqueue(func(ctx context.Context) {
		c.bus.Publish(EventRoute, data)

		if rl, ok := c.application().(intent.RouteListener); ok {
			rl.OnRoute(ctx, data)
		}
	})
}

// handleNewIntent delivers a host intent to the application. When the host
// supplied a request id, the outcome is posted back.
func (c *Client) handleNewIntent(in *protocol.Inbound) {
	it := intent.FromPayload(in.Payload)
	requestID := in.RequestID()

	c.queue.enqueue(func(ctx context.Context) {
		c.bus.Publish(EventNewIntent, it)

		var (
			result any
			err    error
		)

		if app := c.application(); app != nil {
			result, err = app.OnNewIntent(ctx, it)
		} else {
			err = errors.ErrNoApplication
		}

		if err != nil {
			c.log.Warn("Application rejected intent", "intent", it.String(), "error", err)
		}

		if requestID == "" {
			return
		}

		done := &protocol.Completion{RequestID: requestID, Result: result}
		if err != nil {
			done.Result = nil
			done.Error = err.Error()
		}

		if postErr := c.post(ctx, protocol.KindNewIntentCompleted, done); postErr != nil {
			c.log.Warn("Failed to answer intent", "request_id", requestID, "error", postErr)
		}
	})
}

// settle resolves the waiter registered for the reply's request id.
func (c *Client) settle(table *protocol.Table[chan protocol.Reply], family string, in *protocol.Inbound) bool {
	requestID := in.RequestID()

	waiter, ok := table.Claim(requestID)
	if !ok {
		c.log.Warn("No pending request for reply", "kind", in.Kind, "request_id", requestID)
		c.metrics.UnroutableTotal.WithLabelValues(family).Inc()

		return false
	}

	reply := protocol.ReplyFrom(in.Payload)

	c.metrics.Pending.WithLabelValues(family).Dec()
	c.metrics.RepliesTotal.WithLabelValues(family, metrics.Outcome(reply.IsErr())).Inc()

	// Claimed exclusively and buffered, so this never blocks.
	waiter <- reply

	return true
}

// settlePointer is settle for pointer creation. A second reply for an id that
// was settled moments ago is a known host behaviour and only logged at debug.
func (c *Client) settlePointer(in *protocol.Inbound) {
	requestID := in.RequestID()

	if c.settledPointers.Seen(requestID) {
		c.log.Debug("Dropping duplicate pointer reply", "request_id", requestID)

		return
	}

	if c.settle(c.pointers, metrics.FamilyPointer, in) {
		c.settledPointers.Mark(requestID)
	}
}

// completeInvocation forwards a function-call reply to the handle that issued
// the call.
func (c *Client) completeInvocation(in *protocol.Inbound) {
	requestID := in.RequestID()

	h, ok := c.invocations.Claim(requestID)
	if !ok {
		c.log.Warn("No pending invocation for reply", "request_id", requestID)
		c.metrics.UnroutableTotal.WithLabelValues(metrics.FamilyInvocation).Inc()

		return
	}

	c.metrics.Pending.WithLabelValues(metrics.FamilyInvocation).Dec()

	reply := protocol.ReplyFrom(in.Payload)
	if h.CompleteInvocation(requestID, reply) {
		c.metrics.RepliesTotal.WithLabelValues(metrics.FamilyInvocation, metrics.Outcome(reply.IsErr())).Inc()
	}
}

// handleModuleEvent delivers an event to the handle it is scoped to.
func (c *Client) handleModuleEvent(in *protocol.Inbound) {
	pointerID := in.String("apiPointerId")
	name := in.String("event")

	h, ok := c.Handle(pointerID)
	if !ok {
		c.log.Warn("Event for unknown module handle", "pointer_id", pointerID, "event", name)
		c.metrics.UnroutableTotal.WithLabelValues(metrics.FamilyEvent).Inc()

		return
	}

	data := in.Payload["data"]

	c.queue.enqueue(func(context.Context) {
		h.Emit(name, data)
	})
}

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/wagiedev/valu-sdk-go/internal/errors"
	"github.com/wagiedev/valu-sdk-go/internal/intent"
	"github.com/wagiedev/valu-sdk-go/internal/metrics"
	"github.com/wagiedev/valu-sdk-go/internal/pointer"
	"github.com/wagiedev/valu-sdk-go/internal/protocol"
)

// Compile-time check that Client routes handle calls.
var _ pointer.Router = (*Client)(nil)

// post encodes and sends one message to the host endpoint.
func (c *Client) post(ctx context.Context, kind string, payload any) error {
	if c.isClosed() {
		return errors.ErrClientClosed
	}

	c.endpointMu.RLock()
	endpoint, origin := c.endpoint, c.origin
	c.endpointMu.RUnlock()

	if endpoint == nil {
		return errors.ErrNotConnected
	}

	data, err := protocol.Encode(c.target, kind, payload)
	if err != nil {
		return err
	}

	if err := endpoint.PostMessage(ctx, data, origin); err != nil {
		return fmt.Errorf("post %s: %w", kind, err)
	}

	c.metrics.SentTotal.WithLabelValues(kind).Inc()
	c.log.Debug("Sent message", "kind", kind)

	return nil
}

// request registers a waiter under requestID, posts the message and waits for
// the reply. The entry is removed on every exit path.
func (c *Client) request(
	ctx context.Context,
	table *protocol.Table[chan protocol.Reply],
	family string,
	requestID string,
	kind string,
	payload any,
) (protocol.Reply, error) {
	if !c.Connected() {
		return protocol.Reply{}, errors.ErrNotConnected
	}

	waiter := make(chan protocol.Reply, 1)
	if err := table.Put(requestID, waiter); err != nil {
		return protocol.Reply{}, fmt.Errorf("%s: %w", kind, err)
	}

	gauge := c.metrics.Pending.WithLabelValues(family)
	gauge.Inc()

	release := func() {
		if _, ok := table.Claim(requestID); ok {
			gauge.Dec()
		}
	}

	if err := c.post(ctx, kind, payload); err != nil {
		release()

		return protocol.Reply{}, err
	}

	select {
	case reply := <-waiter:
		return reply, nil
	case <-c.done:
		release()

		return protocol.Reply{}, c.terminalErr()
	case <-ctx.Done():
		release()
		c.log.Debug("Request abandoned", "kind", kind, "request_id", requestID)

		return protocol.Reply{}, ctx.Err()
	}
}

// GetModule binds module name on the host and returns its handle. Without a
// version the host picks the latest; the handle reports the version actually
// bound.
func (c *Client) GetModule(ctx context.Context, name string, version ...int) (*pointer.Handle, error) {
	guid := protocol.NewRequestID()
	requestID := protocol.NewRequestID()

	msg := &protocol.CreatePointer{GUID: guid, API: name, RequestID: requestID}
	if len(version) > 0 {
		v := version[0]
		msg.Version = &v
	}

	reply, err := c.request(ctx, c.pointers, metrics.FamilyPointer, requestID, protocol.KindCreatePointer, msg)
	if err != nil {
		return nil, fmt.Errorf("get module %s: %w", name, err)
	}

	if reply.IsErr() {
		return nil, &errors.RegistrationError{Module: name, Message: reply.Error()}
	}

	bound := boundVersion(reply, version)

	h := pointer.New(c.log, guid, name, bound, c, c.done)

	c.handlesMu.Lock()
	c.handles[guid] = h
	c.handlesMu.Unlock()

	c.log.Debug("Module bound", "module", name, "version", bound, "pointer_id", guid)

	return h, nil
}

// boundVersion reads the version the host bound. Hosts report it as a JSON
// number or a numeric string; when absent the requested version stands.
func boundVersion(reply protocol.Reply, requested []int) int {
	fallback := 0
	if len(requested) > 0 {
		fallback = requested[0]
	}

	raw, ok := reply.Field("version")
	if !ok {
		if m, isMap := reply.Value().(map[string]any); isMap {
			raw, ok = m["version"]
		}
	}

	if !ok {
		return fallback
	}

	switch v := raw.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}

	return fallback
}

// Route implements pointer.Router. The call's reply is forwarded to h.
func (c *Client) Route(ctx context.Context, h *pointer.Handle, call *protocol.Run) error {
	if err := c.invocations.Put(call.RequestID, h); err != nil {
		return err
	}

	c.metrics.Pending.WithLabelValues(metrics.FamilyInvocation).Inc()

	if err := c.post(ctx, protocol.KindRun, call); err != nil {
		c.Release(call.RequestID)

		return err
	}

	return nil
}

// Release implements pointer.Router.
func (c *Client) Release(requestID string) {
	if _, ok := c.invocations.Claim(requestID); ok {
		c.metrics.Pending.WithLabelValues(metrics.FamilyInvocation).Dec()
	}
}

// SendIntent asks the host to deliver in to its target application and
// returns that application's reply.
func (c *Client) SendIntent(ctx context.Context, in *intent.Intent) (any, error) {
	return c.runIntent(ctx, protocol.KindRunIntent, in)
}

// CallService asks the host to run in against a service and returns the
// service's reply.
func (c *Client) CallService(ctx context.Context, in *intent.Intent) (any, error) {
	return c.runIntent(ctx, protocol.KindServiceIntent, in)
}

func (c *Client) runIntent(ctx context.Context, kind string, in *intent.Intent) (any, error) {
	if !intent.IsValid(in) {
		return nil, errors.ErrInvalidIntent
	}

	requestID := protocol.NewRequestID()
	msg := &protocol.RunIntent{
		ApplicationID: in.ApplicationID(),
		Action:        in.Action(),
		Params:        in.Params(),
		RequestID:     requestID,
	}

	reply, err := c.request(ctx, c.intents, metrics.FamilyIntent, requestID, kind, msg)
	if err != nil {
		return nil, err
	}

	if reply.IsErr() {
		return nil, &errors.IntentError{
			ApplicationID: in.ApplicationID(),
			Action:        in.Action(),
			Message:       reply.Error(),
		}
	}

	return reply.Value(), nil
}

// RunConsoleCommand runs a textual debug command on the host. A command the
// host rejects resolves with the host's error text rather than an error.
func (c *Client) RunConsoleCommand(ctx context.Context, command string) (any, error) {
	requestID := protocol.NewRequestID()

	reply, err := c.request(ctx, c.consoles, metrics.FamilyConsole, requestID, protocol.KindRunConsole,
		&protocol.RunConsole{RequestID: requestID, Command: command})
	if err != nil {
		return nil, err
	}

	if reply.IsErr() {
		return reply.Error(), nil
	}

	return reply.Value(), nil
}

// PushRoute asks the host to navigate to path, adding a history entry.
func (c *Client) PushRoute(ctx context.Context, path string) error {
	return c.post(ctx, protocol.KindRunCommand, &protocol.RunCommand{Command: protocol.CommandPushRoute, Data: path})
}

// ReplaceRoute asks the host to navigate to path, replacing the current
// history entry.
func (c *Client) ReplaceRoute(ctx context.Context, path string) error {
	return c.post(ctx, protocol.KindRunCommand, &protocol.RunCommand{Command: protocol.CommandReplaceRoute, Data: path})
}

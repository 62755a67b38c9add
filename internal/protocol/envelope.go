package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/wagiedev/valu-sdk-go/internal/errors"
)

// Outbound message kinds.
const (
	KindCreatePointer      = "api:create-pointer"
	KindRun                = "api:run"
	KindRunIntent          = "api:run-intent"
	KindServiceIntent      = "api:service-intent"
	KindRunConsole         = "api:run-console"
	KindRunCommand         = "api:run-command"
	KindNewIntentCompleted = "api:new-intent-completed"
)

// Inbound message kinds.
const (
	KindReady                  = "api:ready"
	KindTrigger                = "api:trigger"
	KindNewIntent              = "api:new-intent"
	KindRunConsoleCompleted    = "api:run-console-completed"
	KindRunCompleted           = "api:run-completed"
	KindPointerCreated         = "api:pointer-created"
	KindRunIntentCompleted     = "api:run-intent-completed"
	KindServiceIntentCompleted = "api:service-intent-completed"
	KindEvent                  = "api:event"
)

// TriggerOnRoute is the only api:trigger action the client understands.
const TriggerOnRoute = "on_route"

// Commands carried by api:run-command.
const (
	CommandPushRoute    = "pushRoute"
	CommandReplaceRoute = "replaceRoute"
)

// Envelope is the outer structure of every message on the channel.
type Envelope struct {
	Target  string `json:"target"`
	Name    string `json:"name"`
	Message any    `json:"message"`
}

// inboundEnvelope defers payload parsing until the target has been checked.
type inboundEnvelope struct {
	Target  string          `json:"target"`
	Name    string          `json:"name"`
	Message json.RawMessage `json:"message"`
}

// Inbound is a decoded message addressed to this client.
type Inbound struct {
	Kind    string
	Payload map[string]any
}

// Encode wraps payload in an envelope for target and marshals it.
func Encode(target, kind string, payload any) ([]byte, error) {
	data, err := json.Marshal(&Envelope{
		Target:  target,
		Name:    kind,
		Message: payload,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", kind, err)
	}

	return data, nil
}

// Decode parses an inbound frame.
//
// It returns (nil, nil) when the frame is not addressed to target or lacks a
// kind; such frames belong to other consumers of the channel. Invalid JSON
// yields a FrameDecodeError.
func Decode(data []byte, target string) (*Inbound, error) {
	var env inboundEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &errors.FrameDecodeError{RawData: string(data), Err: err}
	}

	if env.Target != target || env.Name == "" {
		return nil, nil //nolint:nilnil // foreign traffic is not an error
	}

	in := &Inbound{Kind: env.Name}

	trimmed := bytes.TrimSpace(env.Message)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		in.Payload = map[string]any{}

		return in, nil
	}

	if err := json.Unmarshal(trimmed, &in.Payload); err != nil {
		return nil, &errors.FrameDecodeError{RawData: string(data), Err: fmt.Errorf("%s payload: %w", env.Name, err)}
	}

	return in, nil
}

// RequestID returns the requestId field of the payload, or "".
func (in *Inbound) RequestID() string {
	id, _ := in.Payload["requestId"].(string)

	return id
}

// String returns a string field of the payload, or "".
func (in *Inbound) String(key string) string {
	s, _ := in.Payload[key].(string)

	return s
}

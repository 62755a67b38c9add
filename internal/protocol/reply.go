package protocol

import (
	"encoding/json"
	"fmt"
	"maps"
)

// Reply is the settled outcome of a request: either a value or an error
// message supplied by the host. It is decided once, when the reply frame is
// decoded, and not re-inspected downstream.
type Reply struct {
	value  any
	errMsg string
	failed bool

	payload map[string]any
}

// Ok creates a successful reply.
func Ok(v any) Reply {
	return Reply{value: v}
}

// Err creates a failed reply carrying the host's message.
func Err(msg string) Reply {
	return Reply{errMsg: msg, failed: true}
}

// ReplyFrom classifies a reply payload. A non-nil error field makes the reply
// an Err. Otherwise the value is the result field when present, or the payload
// without its requestId.
func ReplyFrom(payload map[string]any) Reply {
	var r Reply

	if e, ok := payload["error"]; ok && e != nil {
		r = Err(errorText(e))
	} else if v, ok := payload["result"]; ok {
		r = Ok(v)
	} else {
		rest := maps.Clone(payload)
		delete(rest, "requestId")
		r = Ok(rest)
	}

	r.payload = payload

	return r
}

// IsErr reports whether the host replied with an error.
func (r Reply) IsErr() bool {
	return r.failed
}

// Value returns the successful value. It is nil for error replies.
func (r Reply) Value() any {
	return r.value
}

// Error returns the host's error message. It is "" for successful replies.
func (r Reply) Error() string {
	return r.errMsg
}

// Field returns a raw field of the reply payload.
func (r Reply) Field(key string) (any, bool) {
	v, ok := r.payload[key]

	return v, ok
}

// errorText renders an error field. Hosts send plain strings or objects with
// a message field; anything else is rendered as JSON.
func errorText(e any) string {
	switch v := e.(type) {
	case string:
		return v
	case map[string]any:
		if msg, ok := v["message"].(string); ok {
			return msg
		}
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Sprint(e)
	}

	return string(data)
}

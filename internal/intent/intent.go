package intent

import (
	"encoding/json"
	"fmt"
	"maps"
)

// Well-known actions.
const (
	ActionView = "view"
	ActionOpen = "open"
)

// Intent describes an invocation of an action on a target application.
// Intents are immutable once created.
type Intent struct {
	applicationID string
	action        string
	params        map[string]any
}

// New creates an Intent. An empty action defaults to ActionOpen and a nil
// params map becomes an empty one. The params map is copied.
func New(applicationID, action string, params map[string]any) *Intent {
	if action == "" {
		action = ActionOpen
	}

	p := make(map[string]any, len(params))
	maps.Copy(p, params)

	return &Intent{
		applicationID: applicationID,
		action:        action,
		params:        p,
	}
}

// FromPayload builds an Intent from an inbound message payload carrying
// applicationId, action and params fields.
func FromPayload(payload map[string]any) *Intent {
	appID, _ := payload["applicationId"].(string)
	action, _ := payload["action"].(string)
	params, _ := payload["params"].(map[string]any)

	return New(appID, action, params)
}

// ApplicationID returns the target application id.
func (i *Intent) ApplicationID() string {
	return i.applicationID
}

// Action returns the action name.
func (i *Intent) Action() string {
	return i.action
}

// Params returns a copy of the parameter map.
func (i *Intent) Params() map[string]any {
	return maps.Clone(i.params)
}

// Param returns a single parameter.
func (i *Intent) Param(key string) (any, bool) {
	v, ok := i.params[key]

	return v, ok
}

// Equal reports whether two intents carry the same target, action and params.
func (i *Intent) Equal(other *Intent) bool {
	if i == nil || other == nil {
		return i == other
	}

	return i.String() == other.String()
}

// String renders the intent for debug output. encoding/json sorts map keys, so
// the rendering is deterministic.
func (i *Intent) String() string {
	params, err := json.Marshal(i.params)
	if err != nil {
		params = []byte(fmt.Sprintf("%q", err.Error()))
	}

	return fmt.Sprintf("[Intent] applicationId=%q, action=%q, params=%s", i.applicationID, i.action, params)
}

// IsValid reports whether v is a non-nil *Intent. Maps and other values with
// the same fields are not intents.
func IsValid(v any) bool {
	i, ok := v.(*Intent)

	return ok && i != nil
}

package valusdk

import (
	"github.com/wagiedev/valu-sdk-go/internal/client"
	"github.com/wagiedev/valu-sdk-go/internal/eventbus"
	"github.com/wagiedev/valu-sdk-go/internal/intent"
	"github.com/wagiedev/valu-sdk-go/internal/pointer"
)

// Re-export types from internal packages

// ===== Intents =====

// Intent is an immutable request for an application to perform an action.
type Intent = intent.Intent

const (
	// ActionView asks the target to show something.
	ActionView = intent.ActionView
	// ActionOpen asks the target to open something. It is the default action.
	ActionOpen = intent.ActionOpen
)

// NewIntent creates an intent. An empty action becomes ActionOpen and params
// are copied.
func NewIntent(applicationID, action string, params map[string]any) *Intent {
	return intent.New(applicationID, action, params)
}

// IsValidIntent reports whether v is a non-nil *Intent.
func IsValidIntent(v any) bool {
	return intent.IsValid(v)
}

// ===== Application lifecycle =====

// Application is the lifecycle surface of the embedded application.
type Application = intent.Application

// BaseApplication provides no-op lifecycle methods for embedding.
type BaseApplication = intent.BaseApplication

// RouteListener is implemented by applications that want route changes.
type RouteListener = intent.RouteListener

// ===== Modules =====

// ModuleHandle is a module bound on the host.
type ModuleHandle = pointer.Handle

// ===== Events =====

// EventHandler receives event arguments. A non-nil return value becomes the
// result of the publish.
type EventHandler = eventbus.Handler

// Listener identifies one subscription for Unsubscribe.
type Listener = eventbus.Listener

const (
	// EventReady fires once with the launch *Intent.
	EventReady = client.EventReady
	// EventRoute fires with the route data on host navigation.
	EventRoute = client.EventRoute
	// EventNewIntent fires with each *Intent the host delivers.
	EventNewIntent = client.EventNewIntent
	// EventBefore fires before every event with (name, args...).
	EventBefore = eventbus.EventBefore
	// EventAfter fires after every event with (name, args...).
	EventAfter = eventbus.EventAfter
)

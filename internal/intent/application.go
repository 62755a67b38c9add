package intent

import "context"

// Application is the lifecycle surface implemented by the embedded
// application. The client calls these methods; an application never calls
// them itself.
type Application interface {
	// OnCreate receives the launch intent announced with host readiness.
	OnCreate(ctx context.Context, launch *Intent) (any, error)

	// OnNewIntent receives intents the host delivers while the application
	// runs. The returned value, or error, is the reply sent back to whoever
	// originated the intent.
	OnNewIntent(ctx context.Context, in *Intent) (any, error)

	// OnDestroy is called once when the client shuts down.
	OnDestroy(ctx context.Context)
}

// RouteListener is implemented by applications that want route-change
// notifications from the host.
type RouteListener interface {
	OnRoute(ctx context.Context, data any)
}

// BaseApplication provides no-op lifecycle methods. Embed it and override the
// methods you need.
type BaseApplication struct{}

// Compile-time check that BaseApplication implements Application.
var _ Application = BaseApplication{}

// OnCreate implements Application.
func (BaseApplication) OnCreate(context.Context, *Intent) (any, error) { return nil, nil }

// OnNewIntent implements Application.
func (BaseApplication) OnNewIntent(context.Context, *Intent) (any, error) { return nil, nil }

// OnDestroy implements Application.
func (BaseApplication) OnDestroy(context.Context) {}

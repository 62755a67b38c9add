// Package valusdk provides a Go SDK for code embedded in a Valu host.
//
// The embedded code runs as a child of the host and talks to it over one
// ordered, message-based channel. Through that channel the SDK binds host
// modules and invokes their functions, exchanges intents with other
// applications, calls services, runs console commands and follows route
// changes. Replies are matched to requests by locally generated ids, so any
// number of operations may be in flight at once.
//
// # Basic Usage
//
// Use WithClient for automatic lifecycle management. It starts the client,
// waits for the host to announce readiness and closes the client afterwards:
//
//	err := valusdk.WithClient(ctx, func(c valusdk.Client) error {
//	    users, err := c.GetModule(ctx, "users")
//	    if err != nil {
//	        return err
//	    }
//	    profile, err := users.Invoke(ctx, "getProfile", map[string]any{"id": "42"})
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(profile)
//	    return nil
//	})
//
// # Applications
//
// Bind an Application to receive the launch intent, later intents and the
// shutdown notification. Embed BaseApplication to implement only what you
// need:
//
//	type app struct{ valusdk.BaseApplication }
//
//	func (app) OnNewIntent(ctx context.Context, in *valusdk.Intent) (any, error) {
//	    return map[string]any{"handled": in.Action()}, nil
//	}
//
//	client := valusdk.NewClient()
//	_ = client.SetApplication(ctx, app{})
//
// Binding after readiness replays the launch intent to OnCreate, so the
// application never misses it.
//
// # Events
//
// Client events (EventReady, EventRoute, EventNewIntent) and module events
// are delivered through Subscribe. Module events belong to the handle that
// bound the module:
//
//	l := users.Subscribe("changed", func(args ...any) any {
//	    fmt.Println("users changed:", args[0])
//	    return nil
//	}, false)
//	defer users.Unsubscribe("changed", l)
//
// # Logging
//
// For detailed operation tracking, use WithLogger:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	client := valusdk.NewClient(valusdk.WithLogger(logger))
//
// Write logs to stderr when using the default stdio transport; stdout carries
// the channel.
//
// # Error Handling
//
// The SDK provides typed errors for host-side failures:
//
//	_, err := users.Invoke(ctx, "delete", params)
//	if invErr, ok := errors.AsType[*valusdk.InvocationError](err); ok {
//	    log.Printf("%s.%s failed: %s", invErr.Module, invErr.Function, invErr.Message)
//	}
//
// There are no built-in timeouts. Bound any operation with its context.
package valusdk

package valusdk

import (
	"context"
)

// Client is the embedded side of a Valu host channel.
//
// The host announces readiness with the channel endpoint; until then every
// outbound operation fails with ErrNotConnected. Replies are correlated by
// request id, so concurrent operations may complete in any order.
//
// Lifecycle: Clients are single-use. After Close(), create a new client with NewClient().
//
// Example usage:
//
//	client := valusdk.NewClient(valusdk.WithLogger(slog.Default()))
//	defer client.Close()
//
//	if err := client.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	<-client.Ready()
//
//	users, err := client.GetModule(ctx, "users", 1)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	profile, err := users.Invoke(ctx, "getProfile", map[string]any{"id": "42"})
type Client interface {
	// Start begins reading from the transport. Without WithTransport the
	// client talks to its parent process over stdin and stdout.
	Start(ctx context.Context) error

	// Ready is closed once the host announces readiness.
	Ready() <-chan struct{}

	// Connected reports whether the host endpoint has been captured.
	Connected() bool

	// ApplicationID returns the application id announced on readiness.
	ApplicationID() string

	// LastIntent returns the launch intent, or nil before readiness.
	LastIntent() *Intent

	// GetModule binds a module on the host. Without a version the host picks
	// the latest; the handle reports the version actually bound.
	// Returns *RegistrationError when the host refuses.
	GetModule(ctx context.Context, name string, version ...int) (*ModuleHandle, error)

	// SendIntent delivers an intent to another application and returns its
	// reply. Returns *IntentError when the host or target rejects it.
	SendIntent(ctx context.Context, intent *Intent) (any, error)

	// CallService runs an intent against a service and returns its reply.
	// Returns *IntentError when the host or service rejects it.
	CallService(ctx context.Context, intent *Intent) (any, error)

	// RunConsoleCommand runs a textual debug command. Host-side failures
	// resolve with the host's error text.
	RunConsoleCommand(ctx context.Context, command string) (any, error)

	// PushRoute navigates the host to path, adding a history entry.
	PushRoute(ctx context.Context, path string) error

	// ReplaceRoute navigates the host to path, replacing the current entry.
	ReplaceRoute(ctx context.Context, path string) error

	// SetApplication binds the lifecycle shell. Binding after readiness
	// replays the launch intent to OnCreate.
	SetApplication(ctx context.Context, app Application) error

	// Subscribe registers fn for a client event such as EventReady.
	Subscribe(name string, fn EventHandler, once bool) *Listener

	// Unsubscribe removes listeners. An empty name removes all of them; a
	// name alone removes every listener for that event.
	Unsubscribe(name string, listeners ...*Listener)

	// Done is closed when the client stops.
	Done() <-chan struct{}

	// Close runs the application's OnDestroy, fails outstanding requests with
	// ErrClientClosed and closes the transport. Safe to call multiple times.
	Close() error
}

// NewClient creates a new client.
//
// Subscriptions and SetApplication may be used before Start, so no readiness
// event is missed:
//
//	client := valusdk.NewClient(valusdk.WithTransport(transport))
//	client.Subscribe(valusdk.EventReady, onReady, true)
//	err := client.Start(ctx)
func NewClient(opts ...Option) Client {
	return newClientImpl(applyOptions(opts))
}

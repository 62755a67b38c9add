package valusdk

import (
	"context"

	"github.com/wagiedev/valu-sdk-go/internal/client"
	"github.com/wagiedev/valu-sdk-go/internal/config"
)

// clientWrapper wraps the internal client to adapt it to the public interface.
type clientWrapper struct {
	impl *client.Client
}

// Compile-time check that *clientWrapper implements the Client interface.
var _ Client = (*clientWrapper)(nil)

// newClientImpl creates the internal client implementation.
func newClientImpl(options *config.Options) Client {
	return &clientWrapper{impl: client.New(options)}
}

func (c *clientWrapper) Start(ctx context.Context) error {
	return c.impl.Start(ctx)
}

func (c *clientWrapper) Ready() <-chan struct{} {
	return c.impl.Ready()
}

func (c *clientWrapper) Connected() bool {
	return c.impl.Connected()
}

func (c *clientWrapper) ApplicationID() string {
	return c.impl.ApplicationID()
}

func (c *clientWrapper) LastIntent() *Intent {
	return c.impl.LastIntent()
}

func (c *clientWrapper) GetModule(ctx context.Context, name string, version ...int) (*ModuleHandle, error) {
	return c.impl.GetModule(ctx, name, version...)
}

func (c *clientWrapper) SendIntent(ctx context.Context, intent *Intent) (any, error) {
	return c.impl.SendIntent(ctx, intent)
}

func (c *clientWrapper) CallService(ctx context.Context, intent *Intent) (any, error) {
	return c.impl.CallService(ctx, intent)
}

func (c *clientWrapper) RunConsoleCommand(ctx context.Context, command string) (any, error) {
	return c.impl.RunConsoleCommand(ctx, command)
}

func (c *clientWrapper) PushRoute(ctx context.Context, path string) error {
	return c.impl.PushRoute(ctx, path)
}

func (c *clientWrapper) ReplaceRoute(ctx context.Context, path string) error {
	return c.impl.ReplaceRoute(ctx, path)
}

func (c *clientWrapper) SetApplication(ctx context.Context, app Application) error {
	return c.impl.SetApplication(ctx, app)
}

func (c *clientWrapper) Subscribe(name string, fn EventHandler, once bool) *Listener {
	return c.impl.Subscribe(name, fn, once)
}

func (c *clientWrapper) Unsubscribe(name string, listeners ...*Listener) {
	c.impl.Unsubscribe(name, listeners...)
}

func (c *clientWrapper) Done() <-chan struct{} {
	return c.impl.Done()
}

func (c *clientWrapper) Close() error {
	return c.impl.Close()
}

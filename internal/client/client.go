package client

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/valu-sdk-go/internal/config"
	"github.com/wagiedev/valu-sdk-go/internal/errors"
	"github.com/wagiedev/valu-sdk-go/internal/eventbus"
	"github.com/wagiedev/valu-sdk-go/internal/intent"
	"github.com/wagiedev/valu-sdk-go/internal/metrics"
	"github.com/wagiedev/valu-sdk-go/internal/pointer"
	"github.com/wagiedev/valu-sdk-go/internal/protocol"
	"github.com/wagiedev/valu-sdk-go/internal/transport"
)

// Events published on the client bus.
const (
	// EventReady is published once, when the host announces readiness.
	// Listeners receive the launch *intent.Intent.
	EventReady = "api:ready"

	// EventRoute is published when the host changes route. Listeners receive
	// the route data.
	EventRoute = "on_route"

	// EventNewIntent is published for every intent the host delivers.
	// Listeners receive the *intent.Intent.
	EventNewIntent = "api:new-intent"
)

// Client is the Valu API client.
type Client struct {
	log       *slog.Logger
	options   *config.Options
	transport config.Transport
	target    string
	metrics   *metrics.Metrics
	bus       *eventbus.Bus

	// One pending table per request family
	pointers        *protocol.Table[chan protocol.Reply]
	intents         *protocol.Table[chan protocol.Reply]
	consoles        *protocol.Table[chan protocol.Reply]
	invocations     *protocol.Table[*pointer.Handle]
	settledPointers *protocol.Tombstones

	// Module handles by pointer id
	handlesMu sync.RWMutex
	handles   map[string]*pointer.Handle

	// Channel endpoint, captured once on readiness
	endpointMu    sync.RWMutex
	endpoint      config.Endpoint
	origin        string
	applicationID string
	ready         chan struct{}

	// Bound application and the launch intent it is replayed
	appMu      sync.Mutex
	app        intent.Application
	lastIntent *intent.Intent

	queue  *dispatchQueue
	eg     *errgroup.Group
	cancel context.CancelFunc

	// Fatal error storage
	errMu    sync.RWMutex
	fatalErr error

	// Lifecycle management
	mu        sync.Mutex
	started   bool
	closed    bool
	done      chan struct{}
	closeOnce sync.Once
	doneOnce  sync.Once
}

// New creates a client. The client does not read from its transport until
// Start is called, but subscriptions and SetApplication may be used earlier.
func New(options *config.Options) *Client {
	if options == nil {
		options = &config.Options{}
	}

	log := options.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	log = log.With("component", "client")

	return &Client{
		log:             log,
		options:         options,
		target:          options.TargetOrDefault(),
		metrics:         metrics.New(options.MetricsRegisterer),
		bus:             eventbus.New(log),
		pointers:        protocol.NewTable[chan protocol.Reply](),
		intents:         protocol.NewTable[chan protocol.Reply](),
		consoles:        protocol.NewTable[chan protocol.Reply](),
		invocations:     protocol.NewTable[*pointer.Handle](),
		settledPointers: protocol.NewTombstones(options.TombstoneTTLOrDefault()),
		handles:         make(map[string]*pointer.Handle, 4),
		ready:           make(chan struct{}),
		queue:           newDispatchQueue(options.DispatchBufferOrDefault()),
		done:            make(chan struct{}),
	}
}

// Start begins reading from the transport.
//
// If no transport was configured, the client talks to its parent process over
// stdin and stdout. The ctx only bounds transport start-up; the client keeps
// running until Close.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errors.ErrClientClosed
	}

	if c.started {
		return errors.ErrClientAlreadyStarted
	}

	tr := c.options.Transport
	if tr == nil {
		tr = transport.NewStdio(c.log)

		c.log.Debug("Using stdio transport")
	}

	if err := tr.Start(ctx); err != nil {
		return fmt.Errorf("start transport: %w", err)
	}

	c.transport = tr

	// The loops run on a background context: the caller's ctx may carry a
	// start-up deadline, and the client must outlive it.
	runCtx, cancel := context.WithCancel(context.Background())

	var egCtx context.Context

	c.eg, egCtx = errgroup.WithContext(runCtx)
	c.cancel = cancel

	frames, errs := tr.ReadFrames(egCtx)

	c.eg.Go(func() error {
		return c.readLoop(egCtx, frames, errs)
	})

	// The dispatch goroutine stays outside the group: callbacks may call
	// Close, which waits on the group.
	go c.queue.run(egCtx)

	c.started = true
	c.log.Info("Client started", "target", c.target)

	return nil
}

// Close shuts the client down. The bound application's OnDestroy runs first;
// then every outstanding request fails with ErrClientClosed and the transport
// is closed. Safe to call multiple times, including from an application
// callback or event listener. A callback that is running when Close is called
// is not waited for; no further callbacks start.
func (c *Client) Close() error {
	var closeErr error

	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		wasStarted := c.started
		c.mu.Unlock()

		if app := c.application(); app != nil {
			app.OnDestroy(context.Background())
		}

		c.closeDone()

		if !wasStarted {
			return
		}

		c.log.Info("Closing client")

		c.cancel()

		if c.transport != nil {
			closeErr = c.transport.Close()
		}

		if err := c.eg.Wait(); err != nil && closeErr == nil && !stderrors.Is(err, errors.ErrTransportClosed) {
			closeErr = err
		}

		c.drainPending()
		c.queue.wait()
		c.log.Info("Client closed")
	})

	return closeErr
}

// Done is closed when the client stops, either through Close or because the
// transport ended.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// FatalError returns the transport error that stopped the client, if any.
func (c *Client) FatalError() error {
	c.errMu.RLock()
	defer c.errMu.RUnlock()

	return c.fatalErr
}

func (c *Client) setFatalError(err error) {
	c.errMu.Lock()

	if c.fatalErr == nil {
		c.fatalErr = err
	}

	c.errMu.Unlock()

	c.closeDone()
}

func (c *Client) closeDone() {
	c.doneOnce.Do(func() {
		close(c.done)
	})
}

// terminalErr is returned to waiters released by shutdown.
func (c *Client) terminalErr() error {
	if err := c.FatalError(); err != nil {
		return fmt.Errorf("transport error: %w", err)
	}

	return errors.ErrClientClosed
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

// drainPending drops every outstanding entry after shutdown.
func (c *Client) drainPending() {
	drained := map[string]int{
		metrics.FamilyPointer:    len(c.pointers.Drain()),
		metrics.FamilyIntent:     len(c.intents.Drain()),
		metrics.FamilyConsole:    len(c.consoles.Drain()),
		metrics.FamilyInvocation: len(c.invocations.Drain()),
	}

	for family, n := range drained {
		c.metrics.Pending.WithLabelValues(family).Sub(float64(n))
	}
}

// Connected reports whether the readiness handshake has captured the host
// endpoint.
func (c *Client) Connected() bool {
	c.endpointMu.RLock()
	defer c.endpointMu.RUnlock()

	return c.endpoint != nil
}

// Ready is closed once the host announces readiness.
func (c *Client) Ready() <-chan struct{} {
	return c.ready
}

// Origin returns the host origin captured on readiness.
func (c *Client) Origin() string {
	c.endpointMu.RLock()
	defer c.endpointMu.RUnlock()

	return c.origin
}

// ApplicationID returns the application id the host announced on readiness.
func (c *Client) ApplicationID() string {
	c.endpointMu.RLock()
	defer c.endpointMu.RUnlock()

	return c.applicationID
}

// LastIntent returns the launch intent, or nil before readiness.
func (c *Client) LastIntent() *intent.Intent {
	c.appMu.Lock()
	defer c.appMu.Unlock()

	return c.lastIntent
}

// SetApplication binds app, replacing any previous binding. If the host has
// already announced readiness, app.OnCreate runs immediately, on the calling
// goroutine, with the launch intent, and its error is returned.
func (c *Client) SetApplication(ctx context.Context, app intent.Application) error {
	c.appMu.Lock()
	c.app = app
	launch := c.lastIntent
	c.appMu.Unlock()

	if app == nil || launch == nil {
		return nil
	}

	c.log.Debug("Replaying launch intent to application", "intent", launch.String())

	if _, err := app.OnCreate(ctx, launch); err != nil {
		return fmt.Errorf("application create: %w", err)
	}

	return nil
}

func (c *Client) application() intent.Application {
	c.appMu.Lock()
	defer c.appMu.Unlock()

	return c.app
}

// Subscribe registers fn for a client event; see eventbus.Bus.Subscribe.
func (c *Client) Subscribe(name string, fn eventbus.Handler, once bool) *eventbus.Listener {
	return c.bus.Subscribe(name, fn, once)
}

// Unsubscribe removes client event listeners; see eventbus.Bus.Unsubscribe.
func (c *Client) Unsubscribe(name string, listeners ...*eventbus.Listener) {
	c.bus.Unsubscribe(name, listeners...)
}

// Handle returns the bound module handle with the given pointer id.
func (c *Client) Handle(pointerID string) (*pointer.Handle, bool) {
	c.handlesMu.RLock()
	defer c.handlesMu.RUnlock()

	h, ok := c.handles[pointerID]

	return h, ok
}

// Handles returns every module handle bound by this client.
func (c *Client) Handles() []*pointer.Handle {
	c.handlesMu.RLock()
	defer c.handlesMu.RUnlock()

	out := make([]*pointer.Handle, 0, len(c.handles))
	for _, h := range c.handles {
		out = append(out, h)
	}

	return out
}

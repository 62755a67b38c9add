package valusdk

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wagiedev/valu-sdk-go/internal/config"
)

// Option configures ClientOptions using the functional options pattern.
type Option func(*ClientOptions)

// applyOptions applies functional options to a ClientOptions struct.
func applyOptions(opts []Option) *ClientOptions {
	options := &ClientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *ClientOptions) {
		o.Logger = logger
	}
}

// WithTransport sets the host channel. Without it the client uses stdio.
func WithTransport(transport Transport) Option {
	return func(o *ClientOptions) {
		o.Transport = transport
	}
}

// WithTarget sets the envelope tag. Defaults to "valuApi".
func WithTarget(target string) Option {
	return func(o *ClientOptions) {
		o.Target = target
	}
}

// WithPointerTombstoneTTL sets how long a settled module binding request is
// remembered, so a duplicate reply is dropped quietly.
func WithPointerTombstoneTTL(ttl time.Duration) Option {
	return func(o *ClientOptions) {
		o.PointerTombstoneTTL = ttl
	}
}

// WithDispatchBuffer sets the initial capacity of the queue between the read
// loop and the goroutine running application callbacks. The queue never
// blocks the read loop and grows beyond n when needed.
func WithDispatchBuffer(n int) Option {
	return func(o *ClientOptions) {
		o.DispatchBuffer = n
	}
}

// WithMetricsRegisterer registers the client's Prometheus collectors with reg.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(o *ClientOptions) {
		o.MetricsRegisterer = reg
	}
}

// ClientOptions configures the behavior of the Valu client.
type ClientOptions = config.Options

package config

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// DefaultTarget is the envelope tag shared by the SDK and its host.
	DefaultTarget = "valuApi"

	// DefaultPointerTombstoneTTL is how long a settled pointer-creation id is
	// remembered so a duplicate reply can be recognised.
	DefaultPointerTombstoneTTL = 5 * time.Second

	// DefaultDispatchBuffer is the initial capacity of the callback queue
	// between the read loop and the dispatch goroutine. The queue is unbounded
	// and grows past it.
	DefaultDispatchBuffer = 64
)

// Options configures the behavior of the Valu client.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// Transport is the host channel. Required.
	Transport Transport

	// Target is the envelope tag. Messages carrying another tag are ignored.
	// Defaults to DefaultTarget.
	Target string

	// PointerTombstoneTTL overrides DefaultPointerTombstoneTTL.
	PointerTombstoneTTL time.Duration

	// DispatchBuffer overrides DefaultDispatchBuffer. It is a capacity hint,
	// not a limit.
	DispatchBuffer int

	// MetricsRegisterer receives the client's Prometheus collectors.
	// If nil, metrics are collected but not registered anywhere.
	MetricsRegisterer prometheus.Registerer
}

// TargetOrDefault returns the configured envelope tag.
func (o *Options) TargetOrDefault() string {
	if o == nil || o.Target == "" {
		return DefaultTarget
	}

	return o.Target
}

// TombstoneTTLOrDefault returns the configured pointer tombstone TTL.
func (o *Options) TombstoneTTLOrDefault() time.Duration {
	if o == nil || o.PointerTombstoneTTL <= 0 {
		return DefaultPointerTombstoneTTL
	}

	return o.PointerTombstoneTTL
}

// DispatchBufferOrDefault returns the initial dispatch queue capacity.
func (o *Options) DispatchBufferOrDefault() int {
	if o == nil || o.DispatchBuffer <= 0 {
		return DefaultDispatchBuffer
	}

	return o.DispatchBuffer
}

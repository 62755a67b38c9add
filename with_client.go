package valusdk

import (
	"context"
	"fmt"
)

// WithClient manages client lifecycle with automatic cleanup.
//
// This helper creates a client, starts it with the provided options, waits for
// the host to announce readiness, executes the callback function, and ensures
// proper cleanup via Close() when done.
//
// The callback receives a connected Client. If the callback returns an error,
// it is returned to the caller. If Close() fails, a warning is logged but does
// not override the callback's error.
//
// Example usage:
//
//	err := valusdk.WithClient(ctx, func(c valusdk.Client) error {
//	    out, err := c.RunConsoleCommand(ctx, "help")
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(out)
//	    return nil
//	},
//	    valusdk.WithLogger(log),
//	)
func WithClient(ctx context.Context, fn func(Client) error, opts ...Option) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	options := applyOptions(opts)

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	client := newClientImpl(options)
	if err := client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start client: %w", err)
	}

	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			log.Warn("failed to close client", "error", closeErr)
		}
	}()

	select {
	case <-client.Ready():
	case <-client.Done():
		return fmt.Errorf("waiting for host readiness: %w", ErrTransportClosed)
	case <-ctx.Done():
		return fmt.Errorf("waiting for host readiness: %w", ctx.Err())
	}

	return fn(client)
}

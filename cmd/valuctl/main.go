// Command valuctl runs as an embedded child of a Valu host and issues a single
// operation over the stdio channel.
//
// Stdout carries the channel, so results and logs are written to stderr.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	valusdk "github.com/wagiedev/valu-sdk-go"
)

var (
	configPath   string
	target       string
	readyTimeout time.Duration
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "valuctl",
	Short: "Issue Valu API operations from an embedded process",
	Long: `Valuctl is launched by a Valu host as an embedded child. It waits for the
host to announce readiness on stdin, performs one operation, writes the
result to stderr as JSON and exits.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default: "+defaultConfigName+" if present)")
	rootCmd.PersistentFlags().StringVar(&target, "target", "", "Envelope tag shared with the host (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&readyTimeout, "ready-timeout", 0, "How long to wait for host readiness (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig loads the config file and applies flag overrides.
func resolveConfig() (*Config, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if target != "" {
		cfg.Target = target
	}

	if readyTimeout > 0 {
		cfg.ReadyTimeout = readyTimeout
	}

	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}

// newLogger creates a structured logger on stderr at the configured level.
func newLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
}

// runWithClient connects to the host over stdio and runs fn once the host is
// ready.
func runWithClient(ctx context.Context, fn func(context.Context, valusdk.Client) error) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	log := newLogger(cfg)

	readyCtx, cancel := context.WithTimeout(ctx, cfg.ReadyTimeout)
	defer cancel()

	return valusdk.WithClient(readyCtx, func(c valusdk.Client) error {
		return fn(ctx, c)
	},
		valusdk.WithLogger(log),
		valusdk.WithTarget(cfg.Target),
		valusdk.WithTransport(valusdk.NewStdioTransport(log, os.Stdin, os.Stdout, cfg.Origin)),
	)
}

// printResult writes v to w as indented JSON.
func printResult(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	return nil
}

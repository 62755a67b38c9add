package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	valusdk "github.com/wagiedev/valu-sdk-go"
)

var (
	intentAction  string
	intentParams  string
	intentService bool
)

var intentCmd = &cobra.Command{
	Use:   "intent <application-id>",
	Short: "Send an intent to an application or service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := parseParams(intentParams)
		if err != nil {
			return err
		}

		in := valusdk.NewIntent(args[0], intentAction, params)

		return runWithClient(cmd.Context(), func(ctx context.Context, c valusdk.Client) error {
			send := c.SendIntent
			if intentService {
				send = c.CallService
			}

			out, err := send(ctx, in)
			if err != nil {
				return err
			}

			return printResult(os.Stderr, out)
		})
	},
}

var routeReplace bool

var routeCmd = &cobra.Command{
	Use:   "route <path>",
	Short: "Navigate the host",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithClient(cmd.Context(), func(ctx context.Context, c valusdk.Client) error {
			if routeReplace {
				return c.ReplaceRoute(ctx, args[0])
			}

			return c.PushRoute(ctx, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(intentCmd, routeCmd)
	intentCmd.Flags().StringVar(&intentAction, "action", valusdk.ActionOpen, "Intent action")
	intentCmd.Flags().StringVar(&intentParams, "params", "", "Intent parameters as a JSON object")
	intentCmd.Flags().BoolVar(&intentService, "service", false, "Call a service instead of an application")
	routeCmd.Flags().BoolVar(&routeReplace, "replace", false, "Replace the current history entry")
}

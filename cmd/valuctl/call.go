package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	valusdk "github.com/wagiedev/valu-sdk-go"
)

var (
	callVersion int
	callParams  string
)

var callCmd = &cobra.Command{
	Use:   "call <module> <function>",
	Short: "Invoke a function on a host module",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		module, function := args[0], args[1]

		params, err := parseParams(callParams)
		if err != nil {
			return err
		}

		var version []int
		if cmd.Flags().Changed("version") {
			version = append(version, callVersion)
		}

		return runWithClient(cmd.Context(), func(ctx context.Context, c valusdk.Client) error {
			handle, err := c.GetModule(ctx, module, version...)
			if err != nil {
				return err
			}

			out, err := handle.Invoke(ctx, function, params)
			if err != nil {
				return err
			}

			return printResult(os.Stderr, out)
		})
	},
}

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().IntVar(&callVersion, "version", 0, "Module version to bind (default: latest)")
	callCmd.Flags().StringVar(&callParams, "params", "", "Function parameters as a JSON object")
}

// parseParams decodes a JSON object flag. Empty input means no parameters.
func parseParams(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}

	var params map[string]any
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return nil, fmt.Errorf("parse --params: %w", err)
	}

	return params, nil
}

package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	valusdk "github.com/wagiedev/valu-sdk-go"
)

var consoleCmd = &cobra.Command{
	Use:   "console <command...>",
	Short: "Run a host console command",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		line := strings.Join(args, " ")

		return runWithClient(cmd.Context(), func(ctx context.Context, c valusdk.Client) error {
			out, err := c.RunConsoleCommand(ctx, line)
			if err != nil {
				return err
			}

			return printResult(os.Stderr, out)
		})
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

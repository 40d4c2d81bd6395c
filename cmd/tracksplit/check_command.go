package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tracksplit/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report codec, storage and configuration status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			sections := buildCheckReport(cfg, ctx.configPath)
			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderCheckReport(sections, shouldColorize(out)))

			if err := preflight.Err(preflight.RunAll(cfg, "")); err != nil {
				return fmt.Errorf("check failed: %w", err)
			}
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tracksplit/internal/splitter"
)

func runSplit(cmd *cobra.Command, ctx *commandContext, input, descriptor, outputDir string) error {
	s, err := ctx.newSplitter()
	if err != nil {
		return err
	}
	result, err := s.Run(cmd.Context(), splitter.Request{
		InputPath:      input,
		DescriptorPath: descriptor,
		OutputDir:      outputDir,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderSplitTable(result))
	if len(result.Anomalies) > 0 {
		fmt.Fprintf(out, "%d track range warning(s); see log output\n", len(result.Anomalies))
	}
	fmt.Fprintf(out, "Wrote %d track(s) and %s\n", len(result.Written), result.ManifestPath)
	return nil
}

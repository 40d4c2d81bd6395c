package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"tracksplit/internal/clock"
	"tracksplit/internal/splitter"
)

type planTrackJSON struct {
	Index    int    `json:"index"`
	File     string `json:"file"`
	Title    string `json:"title"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Duration string `json:"duration"`
}

type planAnomalyJSON struct {
	Index  int    `json:"index"`
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

type planJSON struct {
	Title        string            `json:"title"`
	DateRecorded string            `json:"dateRecorded"`
	Duration     string            `json:"duration"`
	Tracks       []planTrackJSON   `json:"tracks"`
	Warnings     []planAnomalyJSON `json:"warnings,omitempty"`
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "plan <input> <descriptor>",
		Short: "Show the resolved track layout without decoding or writing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.newSplitter()
			if err != nil {
				return err
			}
			plan, err := s.Plan(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if asJSON {
				return writePlanJSON(cmd, plan)
			}
			renderPlan(cmd, plan)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func planToJSON(plan splitter.Plan) planJSON {
	out := planJSON{
		Title:        plan.Title,
		DateRecorded: plan.DateRecorded,
		Duration:     clock.Format(plan.DurationMs),
		Tracks:       make([]planTrackJSON, 0, len(plan.Segments)),
	}
	for _, seg := range plan.Segments {
		out.Tracks = append(out.Tracks, planTrackJSON{
			Index:    seg.Index,
			File:     seg.FileName,
			Title:    seg.Title,
			Start:    clock.Format(seg.StartMs),
			End:      clock.Format(seg.EndMs),
			Duration: trackLength(seg.LengthMs()),
		})
	}
	for _, a := range plan.Anomalies {
		out.Warnings = append(out.Warnings, planAnomalyJSON{Index: a.Index, Kind: string(a.Kind), Detail: a.Detail})
	}
	return out
}

func renderPlan(cmd *cobra.Command, plan splitter.Plan) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s), %s\n", plan.Title, plan.DateRecorded, clock.Format(plan.DurationMs))
	fmt.Fprintln(out, renderPlanTable(plan))
	for _, a := range plan.Anomalies {
		fmt.Fprintf(out, "warning: track %d %s: %s\n", a.Index, a.Kind, a.Detail)
	}
}

// writePlanJSON encodes the plan as indented JSON with titles left unescaped.
func writePlanJSON(cmd *cobra.Command, plan splitter.Plan) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(planToJSON(plan))
}

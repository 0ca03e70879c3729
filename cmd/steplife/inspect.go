package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/planbiir/steplife/internal/batch"
	"github.com/planbiir/steplife/internal/track"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [files...]",
		Short: "Print point count, time span, distance and bounds of tracks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := readInputs(args)
			if err != nil {
				return err
			}

			results, err := a.runner(cmd, len(inputs)).Inspect(cmd.Context(), inputs)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, res := range results {
				printInspect(w, res)
			}
			if batch.Failed(results) > 0 {
				return errFilesFailed
			}
			return nil
		},
	}
}

func printInspect(w io.Writer, res batch.FileResult) {
	if res.Err != nil {
		fmt.Fprintf(w, "❌ %s: %v\n", res.Name, res.Err)
		return
	}

	fmt.Fprintf(w, "📍 %s (%s)\n", res.Name, res.Format)
	printTrackStats(w, res.Summary)
	if p := res.Profile; p.Type != "" && p.Type != "unknown" {
		fmt.Fprintf(w, "  activity: %s (P95 %.1f m/s, avg interval %.1f s)\n", p.Type, p.P95Speed, p.AvgInterval)
	}
}

func printTrackStats(w io.Writer, s track.Summary) {
	fmt.Fprintf(w, "  points: %d (%d with time)\n", s.Points, s.Timed)
	if s.Timed > 0 {
		fmt.Fprintf(w, "  time span: %s – %s (duration %v)\n", s.Start, s.End, s.Duration)
	} else {
		fmt.Fprintf(w, "  time span: none\n")
	}
	fmt.Fprintf(w, "  distance: %.3f km\n", s.Distance/1000)
	fmt.Fprintf(w, "  bounds: %.6f,%.6f – %.6f,%.6f\n", s.Bounds.Min.Lon(), s.Bounds.Min.Lat(), s.Bounds.Max.Lon(), s.Bounds.Max.Lat())
}

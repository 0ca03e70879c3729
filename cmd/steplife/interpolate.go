package main

import (
	"github.com/spf13/cobra"

	"github.com/planbiir/steplife/internal/convert"
)

func newInterpolateCmd(a *app) *cobra.Command {
	var (
		outDir         string
		insertDistance float64
		filterStart    float64
		filterEnd      float64
		altitude       float64
		speedMode      string
		speed          float64
		workers        int
	)

	cmd := &cobra.Command{
		Use:   "interpolate [csv files...]",
		Short: "Insert points into StepLife CSV files",
		Long: `Insert points into StepLife CSV files so that consecutive rows are at most
--insert-distance apart. The first --filter-start and last --filter-end percent
of the rows are copied unchanged.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			c := &a.cfg.Interpolate
			override(flags, "insert-distance", &c.InsertDistanceM, insertDistance)
			override(flags, "filter-start", &c.FilterStartPercent, filterStart)
			override(flags, "filter-end", &c.FilterEndPercent, filterEnd)
			override(flags, "altitude", &c.DefaultAltitudeM, altitude)
			override(flags, "speed-mode", &c.SpeedMode, speedMode)
			override(flags, "speed", &c.ManualSpeedMPS, speed)
			override(flags, "workers", &a.cfg.Batch.Workers, workers)
			override(flags, "out", &a.cfg.Batch.OutDir, outDir)
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			inputs, err := readInputs(args)
			if err != nil {
				return err
			}

			results, err := a.runner(cmd, len(inputs)).Interpolate(cmd.Context(), inputs, c.Options())
			if err != nil {
				return err
			}
			return writeResults(cmd.OutOrStdout(), a.cfg.Batch.OutDir, results)
		},
	}

	defaults := convert.DefaultInterpolationConfig()
	f := cmd.Flags()
	f.StringVarP(&outDir, "out", "o", "", "output directory (default: next to each input)")
	f.Float64Var(&insertDistance, "insert-distance", defaults.InsertDistance, "meters between inserted points")
	f.Float64Var(&filterStart, "filter-start", 0, "percent of leading rows copied unchanged")
	f.Float64Var(&filterEnd, "filter-end", 0, "percent of trailing rows copied unchanged")
	f.Float64Var(&altitude, "altitude", 0, "altitude for every row in meters (0 keeps the file's altitude)")
	f.StringVar(&speedMode, "speed-mode", string(defaults.SpeedMode), "speed mode (auto, manual)")
	f.Float64Var(&speed, "speed", defaults.ManualSpeed, "speed in m/s for manual mode")
	f.IntVarP(&workers, "workers", "w", 1, "files processed in parallel")
	return cmd
}

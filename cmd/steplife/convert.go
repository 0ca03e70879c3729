package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/planbiir/steplife/internal/convert"
)

// override copies v to dst when the flag was given on the command line.
func override[T any](flags *pflag.FlagSet, name string, dst *T, v T) {
	if flags.Changed(name) {
		*dst = v
	}
}

func newConvertCmd(a *app) *cobra.Command {
	var (
		outDir         string
		insert         bool
		insertDistance float64
		start, end     string
		interval       int64
		altitude       float64
		speedMode      string
		speed          float64
		timezone       string
		workers        int
	)

	cmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Convert GPX, KML, OVJSN, GeoJSON, NMEA or CSV tracks to StepLife CSV",
		Long: `Convert tracks to StepLife CSV, one output file per input.

Timestamps are spread evenly from --start to --end, or step by --interval from
--start. Without --start the current time is used.

Supported extensions: ` + extensions(false),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			c := &a.cfg.Convert
			override(flags, "insert", &c.InsertPoints, insert)
			override(flags, "insert-distance", &c.InsertDistanceM, insertDistance)
			override(flags, "start", &c.StartTime, start)
			override(flags, "end", &c.EndTime, end)
			override(flags, "interval", &c.IntervalS, interval)
			override(flags, "altitude", &c.DefaultAltitudeM, altitude)
			override(flags, "speed-mode", &c.SpeedMode, speedMode)
			override(flags, "speed", &c.ManualSpeedMPS, speed)
			override(flags, "timezone", &c.Timezone, timezone)
			override(flags, "workers", &a.cfg.Batch.Workers, workers)
			override(flags, "out", &a.cfg.Batch.OutDir, outDir)
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			inputs, err := readInputs(args)
			if err != nil {
				return err
			}

			results, err := a.runner(cmd, len(inputs)).Convert(cmd.Context(), inputs, c.Options())
			if err != nil {
				return err
			}
			return writeResults(cmd.OutOrStdout(), a.cfg.Batch.OutDir, results)
		},
	}

	defaults := convert.DefaultConfig()
	f := cmd.Flags()
	f.StringVarP(&outDir, "out", "o", "", "output directory (default: next to each input)")
	f.BoolVar(&insert, "insert", false, "insert points on long segments")
	f.Float64Var(&insertDistance, "insert-distance", defaults.InsertDistance, "meters between inserted points")
	f.StringVar(&start, "start", "", "start time, wall clock or epoch seconds (default: now)")
	f.StringVar(&end, "end", "", "end time, wall clock or epoch seconds")
	f.Int64Var(&interval, "interval", 0, "seconds between rows when no end time is given")
	f.Float64Var(&altitude, "altitude", 0, "altitude for every row in meters (0 keeps the track's altitude)")
	f.StringVar(&speedMode, "speed-mode", string(defaults.SpeedMode), "speed mode (auto, manual)")
	f.Float64Var(&speed, "speed", defaults.ManualSpeed, "speed in m/s for manual mode")
	f.StringVar(&timezone, "timezone", "", `IANA zone for wall clock times, "auto" to look it up from the track`)
	f.IntVarP(&workers, "workers", "w", 1, "files processed in parallel")
	return cmd
}

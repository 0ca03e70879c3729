// Command steplife converts GPS tracks into StepLife CSV files.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	_ "time/tzdata" // zone names resolve without system tz data

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/planbiir/steplife/internal/config"
	"github.com/planbiir/steplife/internal/logging"
)

const version = "1.0.0"

// errFilesFailed is returned after a batch in which some files failed. The
// outputs of the other files are already written.
var errFilesFailed = errors.New("some files failed")

// app carries state shared by all subcommands.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "steplife",
		Short: "Convert GPS tracks into StepLife CSV files",
		Long: `steplife converts GPX, KML, OVJSN, GeoJSON and NMEA tracks into the CSV
format imported by StepLife. It can also densify and merge StepLife CSV files
and reverse the direction of a track in place.

Examples:
  steplife convert walk.gpx --start "2024-05-01 08:00:00" --end "2024-05-01 09:30:00"
  steplife convert *.kml --insert --insert-distance 50 --out converted
  steplife interpolate walk_steplife.csv --filter-start 10 --filter-end 10
  steplife merge day1.csv day2.csv --out merged
  steplife reverse route.kml
  steplife inspect track.nmea`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "console", "log format (console, json)")

	root.AddCommand(
		newConvertCmd(a),
		newInterpolateCmd(a),
		newMergeCmd(a),
		newReverseCmd(a),
		newInspectCmd(a),
	)
	return root
}

// setup loads the config file and builds the logger. Flags given on the
// command line win over the file.
func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFilesFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

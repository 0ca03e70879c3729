// Package config loads steplife settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/planbiir/steplife/internal/convert"
)

// Config holds every setting of a steplife run, one section per concern.
type Config struct {
	Convert     ConvertConfig     `yaml:"convert"`
	Interpolate InterpolateConfig `yaml:"interpolate"`
	Batch       BatchConfig       `yaml:"batch"`
	Log         LogConfig         `yaml:"log"`
}

// ConvertConfig holds the track conversion parameters.
type ConvertConfig struct {
	InsertPoints     bool    `yaml:"insert_points"`
	InsertDistanceM  float64 `yaml:"insert_distance_m"`
	StartTime        string  `yaml:"start_time"`
	EndTime          string  `yaml:"end_time"`
	IntervalS        int64   `yaml:"interval_s"`
	DefaultAltitudeM float64 `yaml:"default_altitude_m"`
	SpeedMode        string  `yaml:"speed_mode"`
	ManualSpeedMPS   float64 `yaml:"manual_speed_mps"`
	Timezone         string  `yaml:"timezone"`
}

// InterpolateConfig holds the parameters for densifying StepLife CSV files.
type InterpolateConfig struct {
	InsertDistanceM    float64 `yaml:"insert_distance_m"`
	DefaultAltitudeM   float64 `yaml:"default_altitude_m"`
	SpeedMode          string  `yaml:"speed_mode"`
	ManualSpeedMPS     float64 `yaml:"manual_speed_mps"`
	FilterStartPercent float64 `yaml:"filter_start_percent"`
	FilterEndPercent   float64 `yaml:"filter_end_percent"`
}

// BatchConfig controls how many files run at once and where output goes.
// An empty OutDir writes next to each input.
type BatchConfig struct {
	Workers int    `yaml:"workers"`
	OutDir  string `yaml:"out_dir"`
}

// LogConfig selects the log level and encoder.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	conv := convert.DefaultConfig()
	interp := convert.DefaultInterpolationConfig()

	return Config{
		Convert: ConvertConfig{
			InsertDistanceM: conv.InsertDistance,
			SpeedMode:       string(conv.SpeedMode),
			ManualSpeedMPS:  conv.ManualSpeed,
		},
		Interpolate: InterpolateConfig{
			InsertDistanceM: interp.InsertDistance,
			SpeedMode:       string(interp.SpeedMode),
			ManualSpeedMPS:  interp.ManualSpeed,
		},
		Batch: BatchConfig{Workers: 1},
		Log:   LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default; unknown keys are an error.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate fills zero values that have a default and reports settings that
// cannot work.
func (cfg *Config) Validate() error {
	if cfg.Convert.SpeedMode == "" {
		cfg.Convert.SpeedMode = string(convert.SpeedAuto)
	}
	if !validSpeedMode(cfg.Convert.SpeedMode) {
		return fmt.Errorf("convert.speed_mode must be auto or manual")
	}
	if cfg.Convert.InsertPoints && cfg.Convert.InsertDistanceM <= 0 {
		return fmt.Errorf("convert.insert_distance_m must be > 0 when convert.insert_points is true")
	}
	if cfg.Convert.ManualSpeedMPS < 0 {
		return fmt.Errorf("convert.manual_speed_mps must be >= 0")
	}

	if cfg.Interpolate.SpeedMode == "" {
		cfg.Interpolate.SpeedMode = string(convert.SpeedAuto)
	}
	if !validSpeedMode(cfg.Interpolate.SpeedMode) {
		return fmt.Errorf("interpolate.speed_mode must be auto or manual")
	}
	if cfg.Interpolate.InsertDistanceM <= 0 {
		return fmt.Errorf("interpolate.insert_distance_m must be > 0")
	}
	if cfg.Interpolate.ManualSpeedMPS < 0 {
		return fmt.Errorf("interpolate.manual_speed_mps must be >= 0")
	}
	if p := cfg.Interpolate.FilterStartPercent; p < 0 || p > 100 {
		return fmt.Errorf("interpolate.filter_start_percent must be between 0 and 100")
	}
	if p := cfg.Interpolate.FilterEndPercent; p < 0 || p > 100 {
		return fmt.Errorf("interpolate.filter_end_percent must be between 0 and 100")
	}
	if cfg.Interpolate.FilterStartPercent+cfg.Interpolate.FilterEndPercent > 100 {
		return fmt.Errorf("interpolate.filter_start_percent + interpolate.filter_end_percent must be <= 100")
	}

	if cfg.Batch.Workers == 0 {
		cfg.Batch.Workers = 1
	}
	if cfg.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must be > 0")
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Format != "console" && cfg.Log.Format != "json" {
		return fmt.Errorf("log.format must be console or json")
	}

	return nil
}

func validSpeedMode(mode string) bool {
	return mode == string(convert.SpeedAuto) || mode == string(convert.SpeedManual)
}

// Options returns the track conversion settings.
func (c ConvertConfig) Options() convert.Config {
	return convert.Config{
		InsertPoints:    c.InsertPoints,
		InsertDistance:  c.InsertDistanceM,
		StartTime:       c.StartTime,
		EndTime:         c.EndTime,
		Interval:        c.IntervalS,
		Timezone:        c.Timezone,
		DefaultAltitude: c.DefaultAltitudeM,
		SpeedMode:       convert.SpeedMode(c.SpeedMode),
		ManualSpeed:     c.ManualSpeedMPS,
	}
}

// Options returns the CSV interpolation settings.
func (c InterpolateConfig) Options() convert.InterpolationConfig {
	return convert.InterpolationConfig{
		InsertDistance:     c.InsertDistanceM,
		DefaultAltitude:    c.DefaultAltitudeM,
		SpeedMode:          convert.SpeedMode(c.SpeedMode),
		ManualSpeed:        c.ManualSpeedMPS,
		FilterStartPercent: c.FilterStartPercent,
		FilterEndPercent:   c.FilterEndPercent,
	}
}

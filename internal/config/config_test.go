package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/planbiir/steplife/internal/convert"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "steplife.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func requireErrEq(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", want)
	}
	if err.Error() != want {
		t.Fatalf("error=%q want %q", err.Error(), want)
	}
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	path := writeTempConfig(t, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	def := Default()
	if cfg != def {
		t.Fatalf("cfg=%+v want defaults %+v", cfg, def)
	}
	if cfg.Convert.InsertDistanceM != 100 {
		t.Fatalf("convert.insert_distance_m=%v want 100", cfg.Convert.InsertDistanceM)
	}
	if cfg.Convert.SpeedMode != "auto" || cfg.Interpolate.SpeedMode != "auto" {
		t.Fatalf("speed modes=%q/%q want auto", cfg.Convert.SpeedMode, cfg.Interpolate.SpeedMode)
	}
	if cfg.Batch.Workers != 1 {
		t.Fatalf("batch.workers=%d want 1", cfg.Batch.Workers)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Fatalf("log=%+v want info/console", cfg.Log)
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := writeTempConfig(t, `convert:
  insert_points: true
  insert_distance_m: 25
  start_time: "2024-01-01 08:00:00"
  end_time: "2024-01-01 09:00:00"
  default_altitude_m: 12.5
  speed_mode: manual
  manual_speed_mps: 2.5
  timezone: UTC
interpolate:
  insert_distance_m: 40
  filter_start_percent: 10
  filter_end_percent: 15
batch:
  workers: 4
  out_dir: out
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	conv := cfg.Convert.Options()
	want := convert.Config{
		InsertPoints:    true,
		InsertDistance:  25,
		StartTime:       "2024-01-01 08:00:00",
		EndTime:         "2024-01-01 09:00:00",
		Timezone:        "UTC",
		DefaultAltitude: 12.5,
		SpeedMode:       convert.SpeedManual,
		ManualSpeed:     2.5,
	}
	if conv != want {
		t.Fatalf("convert options=%+v want %+v", conv, want)
	}
	if err := conv.Validate(); err != nil {
		t.Fatalf("convert options do not validate: %v", err)
	}

	interp := cfg.Interpolate.Options()
	if interp.InsertDistance != 40 || interp.FilterStartPercent != 10 || interp.FilterEndPercent != 15 {
		t.Fatalf("interpolate options=%+v", interp)
	}
	// untouched keys keep their defaults
	if interp.SpeedMode != convert.SpeedAuto || interp.ManualSpeed != 1.5 {
		t.Fatalf("interpolate speed=%q/%v want auto/1.5", interp.SpeedMode, interp.ManualSpeed)
	}
	if err := interp.Validate(); err != nil {
		t.Fatalf("interpolate options do not validate: %v", err)
	}

	if cfg.Batch.Workers != 4 || cfg.Batch.OutDir != "out" {
		t.Fatalf("batch=%+v", cfg.Batch)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("log=%+v", cfg.Log)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"convert speed mode", "convert:\n  speed_mode: fast\n", "convert.speed_mode must be auto or manual"},
		{"convert insert distance", "convert:\n  insert_points: true\n  insert_distance_m: 0\n", "convert.insert_distance_m must be > 0 when convert.insert_points is true"},
		{"convert manual speed", "convert:\n  manual_speed_mps: -1\n", "convert.manual_speed_mps must be >= 0"},
		{"interpolate speed mode", "interpolate:\n  speed_mode: fast\n", "interpolate.speed_mode must be auto or manual"},
		{"interpolate insert distance", "interpolate:\n  insert_distance_m: -5\n", "interpolate.insert_distance_m must be > 0"},
		{"interpolate manual speed", "interpolate:\n  manual_speed_mps: -0.1\n", "interpolate.manual_speed_mps must be >= 0"},
		{"filter start", "interpolate:\n  filter_start_percent: 120\n", "interpolate.filter_start_percent must be between 0 and 100"},
		{"filter end", "interpolate:\n  filter_end_percent: -1\n", "interpolate.filter_end_percent must be between 0 and 100"},
		{"filter sum", "interpolate:\n  filter_start_percent: 60\n  filter_end_percent: 50\n", "interpolate.filter_start_percent + interpolate.filter_end_percent must be <= 100"},
		{"workers", "batch:\n  workers: -2\n", "batch.workers must be > 0"},
		{"log level", "log:\n  level: trace\n", "log.level must be one of debug, info, warn, error"},
		{"log format", "log:\n  format: xml\n", "log.format must be console or json"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeTempConfig(t, tc.yaml))
			requireErrEq(t, err, tc.want)
		})
	}
}

func TestValidate_FillsZeroValues(t *testing.T) {
	var cfg Config
	cfg.Interpolate.InsertDistanceM = 100

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if cfg.Convert.SpeedMode != "auto" || cfg.Interpolate.SpeedMode != "auto" {
		t.Fatalf("speed modes=%q/%q want auto", cfg.Convert.SpeedMode, cfg.Interpolate.SpeedMode)
	}
	if cfg.Batch.Workers != 1 {
		t.Fatalf("batch.workers=%d want 1", cfg.Batch.Workers)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Fatalf("log=%+v want info/console", cfg.Log)
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeTempConfig(t, "convert:\n  insert_every_m: 10\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

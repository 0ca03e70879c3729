package convert

import (
	"fmt"
	"time"

	"github.com/planbiir/steplife/internal/track"
)

// SpeedMode selects how row speeds are produced.
type SpeedMode string

const (
	SpeedAuto   SpeedMode = "auto"   // estimated from the distance to the previous point
	SpeedManual SpeedMode = "manual" // constant ManualSpeed
)

// TimezoneAuto looks the zone up from the first point of the track.
const TimezoneAuto = "auto"

// Config holds track conversion parameters
type Config struct {
	// Densification
	InsertPoints   bool    // insert points on interior segments
	InsertDistance float64 // meters between inserted points

	// Time allocation
	StartTime string // wall clock or epoch seconds; empty means now
	EndTime   string // wall clock or epoch seconds; empty means unset
	Interval  int64  // seconds between rows when no end time is set
	Timezone  string // IANA zone for wall clock times, "" for local, "auto" for lookup

	// Row values
	DefaultAltitude float64   // meters, 0 keeps the source altitude
	SpeedMode       SpeedMode // auto or manual
	ManualSpeed     float64   // m/s for manual mode
}

// DefaultConfig returns the converter defaults
func DefaultConfig() Config {
	return Config{
		InsertPoints:   false,
		InsertDistance: 100, // one point every 100 m
		SpeedMode:      SpeedAuto,
		ManualSpeed:    1.5, // walking pace
	}
}

// Validate reports configuration errors. They wrap track.ErrConfig.
func (c Config) Validate() error {
	if c.InsertPoints && !(c.InsertDistance > 0) {
		return fmt.Errorf("insert distance must be positive, got %v: %w", c.InsertDistance, track.ErrConfig)
	}
	if err := validateSpeed(c.SpeedMode, c.ManualSpeed); err != nil {
		return err
	}
	if c.Timezone != "" && c.Timezone != TimezoneAuto {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("unknown timezone %q: %w", c.Timezone, track.ErrConfig)
		}
	}
	return nil
}

// InterpolationConfig holds the parameters for densifying an existing
// StepLife CSV. Only the points between the filtered head and tail are
// densified.
type InterpolationConfig struct {
	InsertDistance  float64   // meters between inserted points
	DefaultAltitude float64   // meters, 0 keeps the source altitude
	SpeedMode       SpeedMode // auto or manual
	ManualSpeed     float64   // m/s for manual mode

	FilterStartPercent float64 // share of leading points passed through unchanged
	FilterEndPercent   float64 // share of trailing points passed through unchanged
}

// DefaultInterpolationConfig returns the CSV interpolation defaults
func DefaultInterpolationConfig() InterpolationConfig {
	return InterpolationConfig{
		InsertDistance: 100,
		SpeedMode:      SpeedAuto,
		ManualSpeed:    1.5,
	}
}

// Validate reports configuration errors. They wrap track.ErrConfig.
func (c InterpolationConfig) Validate() error {
	if !(c.InsertDistance > 0) {
		return fmt.Errorf("insert distance must be positive, got %v: %w", c.InsertDistance, track.ErrConfig)
	}
	for _, p := range []float64{c.FilterStartPercent, c.FilterEndPercent} {
		if !(p >= 0 && p <= 100) {
			return fmt.Errorf("filter percent must be within 0-100, got %v: %w", p, track.ErrConfig)
		}
	}
	if c.FilterStartPercent+c.FilterEndPercent > 100 {
		return fmt.Errorf("filter percents add up to more than 100: %w", track.ErrConfig)
	}
	return validateSpeed(c.SpeedMode, c.ManualSpeed)
}

func validateSpeed(mode SpeedMode, manual float64) error {
	switch mode {
	case "", SpeedAuto:
		return nil
	case SpeedManual:
		if manual < 0 {
			return fmt.Errorf("manual speed must not be negative, got %v: %w", manual, track.ErrConfig)
		}
		return nil
	default:
		return fmt.Errorf("speed mode must be auto or manual, got %q: %w", mode, track.ErrConfig)
	}
}

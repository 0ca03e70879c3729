// Package convert turns parsed tracks into StepLife rows. It decides which
// segments get densified, spreads timestamps over the result and fills in
// speed and altitude.
package convert

import (
	"time"

	"github.com/planbiir/steplife/internal/interp"
	"github.com/planbiir/steplife/internal/track"
	"github.com/planbiir/steplife/internal/tz"
)

// Stats represents conversion results
type Stats struct {
	OriginalPoints int  `json:"original_points"`
	FinalPoints    int  `json:"final_points"`
	InsertedPoints int  `json:"inserted_points"`
	Reversed       bool `json:"reversed"` // start was after end
}

// Result contains the emitted rows and statistics
type Result struct {
	Rows  []track.Row
	Stats Stats
}

func newResult(original int, rows []track.Row) Result {
	return Result{
		Rows: rows,
		Stats: Stats{
			OriginalPoints: original,
			FinalPoints:    len(rows),
			InsertedPoints: len(rows) - original,
		},
	}
}

// Converter converts point sequences with a given Config. The zero value
// uses the wall clock and the built-in time zone data.
type Converter struct {
	Now   func() time.Time // clock for an empty start time
	Zones tz.Finder        // zone lookup for Timezone "auto"
}

func (c Converter) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Convert emits one row per planned point. The first two points and the last
// one are copied as they are; with InsertPoints set each remaining point is
// preceded by the points interpolated from its predecessor. When the start
// time is after the end time the track is reversed and the two swapped.
func (c Converter) Convert(points []track.Point, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if len(points) == 0 {
		return newResult(0, nil), nil
	}

	start, end, err := c.timeRange(points, cfg)
	if err != nil {
		return Result{}, err
	}

	processed := points
	reversed := false
	if end > 0 && start > end {
		processed = track.Reversed(points)
		start, end = end, start
		reversed = true
	}

	p := buildPlan(processed, cfg)
	alloc := NewAllocator(start, end, cfg.Interval, p.total)
	speeds := SpeedEstimator{Mode: cfg.SpeedMode, Manual: cfg.ManualSpeed}

	rows := make([]track.Row, 0, p.total)
	for _, e := range p.entries {
		speed := speeds.At(processed, e.source)
		for _, pt := range e.points {
			rows = append(rows, track.NewRow(alloc.At(len(rows)), pt, speed, altitude(cfg.DefaultAltitude, pt)))
		}
	}

	if alloc.UsesEndTime() {
		rows[len(rows)-1].DataTime = end
	}

	result := newResult(len(points), rows)
	result.Stats.Reversed = reversed
	return result, nil
}

// timeRange resolves the configured start and end. The zone is only looked
// up when a wall clock string needs it.
func (c Converter) timeRange(points []track.Point, cfg Config) (start, end int64, err error) {
	var loc *time.Location
	if cfg.StartTime != "" || cfg.EndTime != "" {
		loc, err = ResolveLocation(cfg.Timezone, points, c.Zones)
		if err != nil {
			return 0, 0, err
		}
	}

	if cfg.StartTime == "" {
		start = c.now().Unix()
	} else if start, err = ParseTime(cfg.StartTime, loc); err != nil {
		return 0, 0, err
	}

	if cfg.EndTime != "" {
		if end, err = ParseTime(cfg.EndTime, loc); err != nil {
			return 0, 0, err
		}
	}

	return start, end, nil
}

func altitude(defaultAltitude float64, p track.Point) float64 {
	if defaultAltitude != 0 {
		return defaultAltitude
	}
	return p.Altitude
}

// planEntry holds the points emitted for one processed point. Every row of
// an entry takes its speed from the source index.
type planEntry struct {
	source int
	points []track.Point
}

type plan struct {
	entries []planEntry
	total   int
}

// buildPlan lays out every row before any is emitted so the allocator knows
// the row count up front.
func buildPlan(points []track.Point, cfg Config) plan {
	var p plan
	p.entries = make([]planEntry, 0, len(points))

	last := len(points) - 1
	for i, pt := range points {
		e := planEntry{source: i}
		if !cfg.InsertPoints || i <= 1 || i == last {
			e.points = []track.Point{pt}
		} else {
			e.points = interp.Interpolate(points[i-1], pt, cfg.InsertDistance)
		}
		p.entries = append(p.entries, e)
		p.total += len(e.points)
	}

	return p
}

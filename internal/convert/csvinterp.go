package convert

import (
	"math"

	"github.com/planbiir/steplife/internal/interp"
	"github.com/planbiir/steplife/internal/track"
)

// InterpolateCSV densifies points read back from a StepLife CSV. Timestamps
// come from the points themselves. The leading FilterStartPercent and
// trailing FilterEndPercent of the points are passed through; every segment
// in between is interpolated.
func InterpolateCSV(points []track.Point, cfg InterpolationConfig) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	n := len(points)
	if n == 0 {
		return newResult(0, nil), nil
	}

	startIndex := int(math.Floor(float64(n) * cfg.FilterStartPercent / 100))
	endIndex := n - int(math.Floor(float64(n)*cfg.FilterEndPercent/100)) - 1

	// nothing left to densify: copy the rows with their recorded speeds
	if n == 1 || startIndex >= endIndex {
		rows := make([]track.Row, n)
		for i, p := range points {
			speed := p.Speed
			if cfg.SpeedMode == SpeedManual {
				speed = cfg.ManualSpeed
			}
			rows[i] = track.NewRow(p.Time, p, speed, altitude(cfg.DefaultAltitude, p))
		}
		return newResult(n, rows), nil
	}

	speeds := SpeedEstimator{Mode: cfg.SpeedMode, Manual: cfg.ManualSpeed, PreferRecorded: true}
	rows := make([]track.Row, 0, n)
	emit := func(p track.Point, source int) {
		rows = append(rows, track.NewRow(p.Time, p, speeds.At(points, source), altitude(cfg.DefaultAltitude, p)))
	}

	for i := 0; i <= startIndex; i++ {
		emit(points[i], i)
	}
	for i := startIndex + 1; i <= endIndex; i++ {
		for _, p := range interp.Interpolate(points[i-1], points[i], cfg.InsertDistance) {
			emit(p, i)
		}
	}
	for i := endIndex + 1; i < n; i++ {
		emit(points[i], i)
	}

	return newResult(n, rows), nil
}

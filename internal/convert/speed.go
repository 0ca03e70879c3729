package convert

import "github.com/planbiir/steplife/internal/track"

// nominalPace is the walking speed in m/s assumed when estimating how long a
// segment took.
const nominalPace = 1.5

// SpeedEstimator produces the speed column.
type SpeedEstimator struct {
	Mode   SpeedMode
	Manual float64

	// PreferRecorded returns points[0].Speed instead of 0 where no previous
	// point exists.
	PreferRecorded bool
}

// At returns the speed for points[i]. In auto mode it divides the distance
// from points[i-1] by an elapsed time estimated at nominalPace with a one
// second floor, so recorded timestamps never matter and the result is
// min(d, 1.5).
func (e SpeedEstimator) At(points []track.Point, i int) float64 {
	if e.Mode == SpeedManual {
		return e.Manual
	}

	if i <= 0 || i >= len(points) {
		if e.PreferRecorded && len(points) > 0 {
			return points[0].Speed
		}
		return 0
	}

	d := points[i-1].DistanceTo(points[i])
	elapsed := 1.0
	if d > 0 {
		elapsed = max(1, d/nominalPace)
	}
	return d / elapsed
}

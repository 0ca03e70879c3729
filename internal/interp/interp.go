// Package interp densifies sparse tracks by inserting evenly blended points
// between neighbours.
package interp

import (
	"math"

	"github.com/planbiir/steplife/internal/track"
)

// Interpolate returns the points that replace curr when the gap from prev is
// filled every spacing meters: floor(d/spacing) blended points followed by
// curr itself. Latitude, longitude, altitude and speed are blended linearly.
// Time is blended too when curr is later than prev; otherwise every inserted
// point gets prev.Time+1.
func Interpolate(prev, curr track.Point, spacing float64) []track.Point {
	d := prev.DistanceTo(curr)
	steps := math.Floor(d / spacing)
	// NaN, infinite and non-positive spacings fall through here
	if !(steps >= 1) || math.IsInf(steps, 0) {
		return []track.Point{curr}
	}
	n := int(steps)

	points := make([]track.Point, 0, n+1)
	for i := 1; i <= n; i++ {
		alpha := float64(i) / float64(n+1)

		ts := prev.Time + 1
		if curr.Time > prev.Time {
			ts = prev.Time + int64(math.Floor(alpha*float64(curr.Time-prev.Time)))
		}

		points = append(points, track.Point{
			Time:     ts,
			Lat:      lerp(prev.Lat, curr.Lat, alpha),
			Lon:      lerp(prev.Lon, curr.Lon, alpha),
			Altitude: lerp(prev.Altitude, curr.Altitude, alpha),
			Speed:    lerp(prev.Speed, curr.Speed, alpha),
		})
	}

	return append(points, curr)
}

func lerp(a, b, alpha float64) float64 {
	return a + alpha*(b-a)
}

// Package activity classifies a track by how fast it moves.
package activity

import (
	"math"
	"sort"

	"github.com/planbiir/steplife/internal/track"
)

// Profile describes the movement of a timed track.
type Profile struct {
	Type        string  `json:"activity_type"`
	P95Speed    float64 `json:"p95_speed_ms"`
	MaxSpeed    float64 `json:"max_reasonable_speed_ms"` // upper bound for the detected type
	AvgInterval float64 `json:"avg_interval_s"`
}

// Detect classifies points from the speeds between consecutive timed
// points. Tracks without usable timestamps are "unknown".
func Detect(points []track.Point) Profile {
	speeds := segmentSpeeds(points)
	if len(speeds) == 0 {
		return Profile{Type: "unknown", MaxSpeed: 12.0}
	}
	sort.Float64s(speeds)

	p95 := quantile(speeds, 0.95)
	p := Profile{P95Speed: p95, AvgInterval: averageInterval(points)}

	switch {
	case p95 <= 8.0: // 28.8 km/h
		p.Type = "running/hiking"
		p.MaxSpeed = 12.0
	case p95 <= 20.0: // 72 km/h
		p.Type = "cycling"
		p.MaxSpeed = 30.0
	default:
		p.Type = "high-speed"
		p.MaxSpeed = 50.0
	}

	return p
}

// segmentSpeeds returns the speeds between consecutive timed points within
// sane bounds, in a new slice.
func segmentSpeeds(points []track.Point) []float64 {
	var speeds []float64
	for i := 1; i < len(points); i++ {
		prev, curr := points[i-1], points[i]
		if prev.Time == 0 || curr.Time == 0 {
			continue
		}
		dt := float64(curr.Time - prev.Time)
		if dt <= 0 {
			continue
		}
		speed := prev.DistanceTo(curr) / dt
		if speed > 0 && speed < 100 {
			speeds = append(speeds, speed)
		}
	}
	return speeds
}

// averageInterval is the mean gap in seconds between timed points,
// ignoring gaps over an hour.
func averageInterval(points []track.Point) float64 {
	var total float64
	n := 0
	for i := 1; i < len(points); i++ {
		if points[i].Time == 0 || points[i-1].Time == 0 {
			continue
		}
		dt := float64(points[i].Time - points[i-1].Time)
		if dt > 0 && dt < 3600 {
			total += dt
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// quantile interpolates linearly between the two samples around q (0..1).
// sorted must be non-empty and ascending.
func quantile(sorted []float64, q float64) float64 {
	whole, frac := math.Modf(q * float64(len(sorted)-1))
	lo := int(whole)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

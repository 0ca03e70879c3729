package track

import (
	"time"

	"github.com/paulmach/orb"
)

// Summary describes a parsed track for display.
type Summary struct {
	Points   int
	Timed    int // points carrying a timestamp
	Start    time.Time
	End      time.Time
	Duration time.Duration
	Distance float64 // meters along the path
	Bounds   orb.Bound
}

// Summarize returns basic statistics about points.
func Summarize(points []Point) Summary {
	s := Summary{Points: len(points)}
	if len(points) == 0 {
		return s
	}

	mp := make(orb.MultiPoint, 0, len(points))
	var minTime, maxTime int64
	for i, p := range points {
		mp = append(mp, orb.Point{p.Lon, p.Lat})
		if i > 0 {
			s.Distance += points[i-1].DistanceTo(p)
		}
		if p.Time == 0 {
			continue
		}
		s.Timed++
		if minTime == 0 || p.Time < minTime {
			minTime = p.Time
		}
		if maxTime == 0 || p.Time > maxTime {
			maxTime = p.Time
		}
	}
	s.Bounds = mp.Bound()

	if s.Timed > 0 {
		s.Start = time.Unix(minTime, 0).UTC()
		s.End = time.Unix(maxTime, 0).UTC()
		s.Duration = s.End.Sub(s.Start)
	}

	return s
}

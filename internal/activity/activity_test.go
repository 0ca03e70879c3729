package activity

import (
	"math"
	"testing"

	"github.com/planbiir/steplife/internal/track"
)

// buildTrack returns n points moving east along the equator at speed m/s,
// one every interval seconds.
func buildTrack(n int, speed float64, interval int64) []track.Point {
	const metersPerDegree = 6371000 * math.Pi / 180
	points := make([]track.Point, n)
	for i := range points {
		points[i] = track.Point{
			Time: 1000 + int64(i)*interval,
			Lon:  float64(i) * speed * float64(interval) / metersPerDegree,
		}
	}
	return points
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		speed    float64
		wantType string
		wantMax  float64
	}{
		{"walk", 1.4, "running/hiking", 12},
		{"ride", 9, "cycling", 30},
		{"drive", 30, "high-speed", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Detect(buildTrack(20, tt.speed, 5))
			if p.Type != tt.wantType {
				t.Fatalf("type=%q want %q", p.Type, tt.wantType)
			}
			if p.MaxSpeed != tt.wantMax {
				t.Fatalf("max speed=%v want %v", p.MaxSpeed, tt.wantMax)
			}
			if math.Abs(p.P95Speed-tt.speed) > 1e-6 {
				t.Fatalf("p95=%v want %v", p.P95Speed, tt.speed)
			}
			if p.AvgInterval != 5 {
				t.Fatalf("avg interval=%v want 5", p.AvgInterval)
			}
		})
	}
}

func TestDetectUntimed(t *testing.T) {
	points := buildTrack(5, 2, 5)
	for i := range points {
		points[i].Time = 0
	}

	p := Detect(points)
	if p.Type != "unknown" {
		t.Fatalf("type=%q want unknown", p.Type)
	}
	if p.P95Speed != 0 || p.AvgInterval != 0 {
		t.Fatalf("unexpected profile %+v", p)
	}
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	if got := quantile(sorted, 0.5); got != 3 {
		t.Fatalf("q50=%v want 3", got)
	}
	if got := quantile(sorted, 0.95); math.Abs(got-4.8) > 1e-9 {
		t.Fatalf("q95=%v want 4.8", got)
	}
	if got := quantile(sorted, 1); got != 5 {
		t.Fatalf("q100=%v want 5", got)
	}
	if got := quantile([]float64{7}, 0.95); got != 7 {
		t.Fatalf("single sample q95=%v want 7", got)
	}
}

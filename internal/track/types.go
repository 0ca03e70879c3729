// Package track defines the point and row types that flow through the
// converter, along with the error values shared by every stage.
package track

import "github.com/planbiir/steplife/internal/geo"

// Point is one sample of a parsed track.
type Point struct {
	Time     int64 // epoch seconds, 0 when the source has no time
	Lat      float64
	Lon      float64
	Altitude float64 // meters
	Speed    float64 // m/s
}

// DistanceTo returns the haversine distance to o in meters.
func (p Point) DistanceTo(o Point) float64 {
	return geo.DistanceMeters(p.Lat, p.Lon, o.Lat, o.Lon)
}

// Row is one record of the StepLife CSV schema. Apart from time, position,
// speed and altitude every column is written as 0 by the converters.
type Row struct {
	DataTime         int64
	LocType          int
	Longitude        float64
	Latitude         float64
	Heading          float64
	Accuracy         float64
	Speed            float64
	Distance         float64
	IsBackForeground int
	StepType         int
	Altitude         float64
}

// NewRow builds a row at the given time for p.
func NewRow(dataTime int64, p Point, speed, altitude float64) Row {
	return Row{
		DataTime:  dataTime,
		Longitude: p.Lon,
		Latitude:  p.Lat,
		Speed:     speed,
		Altitude:  altitude,
	}
}

// Point converts the row back into a track point.
func (r Row) Point() Point {
	return Point{
		Time:     r.DataTime,
		Lat:      r.Latitude,
		Lon:      r.Longitude,
		Altitude: r.Altitude,
		Speed:    r.Speed,
	}
}

// Reversed returns a reversed copy of points.
func Reversed(points []Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}

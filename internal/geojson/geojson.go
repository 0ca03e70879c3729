// Package geojson reads tracks from GeoJSON documents. Point, MultiPoint,
// LineString and MultiLineString geometries contribute their positions in
// order; other geometry types are ignored.
package geojson

import (
	"bytes"
	"errors"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tidwall/gjson"

	"github.com/planbiir/steplife/internal/track"
)

const formatName = "geojson"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse accepts a FeatureCollection, a single Feature or a bare geometry.
// A feature whose "coordTimes" property has one timestamp per position
// gets those times.
func Parse(data []byte) ([]track.Point, error) {
	body := bytes.TrimPrefix(data, utf8BOM)
	if !gjson.ValidBytes(body) {
		return nil, &track.FormatError{Format: formatName, Err: errors.New("invalid JSON")}
	}

	switch gjson.GetBytes(body, "type").String() {
	case "FeatureCollection":
		var points []track.Point
		for _, f := range gjson.GetBytes(body, "features").Array() {
			pts, err := featurePoints([]byte(f.Raw))
			if err != nil {
				return nil, err
			}
			points = append(points, pts...)
		}
		return points, nil
	case "Feature":
		return featurePoints(body)
	case "":
		return nil, &track.FormatError{Format: formatName, Err: errors.New("missing type member")}
	default:
		g, err := geojson.UnmarshalGeometry(body)
		if err != nil {
			return nil, &track.FormatError{Format: formatName, Err: err}
		}
		return flatten(g.Geometry(), gjson.GetBytes(body, "coordinates")), nil
	}
}

func featurePoints(raw []byte) ([]track.Point, error) {
	f, err := geojson.UnmarshalFeature(raw)
	if err != nil {
		return nil, &track.FormatError{Format: formatName, Err: err}
	}
	if f.Geometry == nil {
		return nil, nil
	}

	points := flatten(f.Geometry, gjson.GetBytes(raw, "geometry.coordinates"))

	if times := coordTimes(gjson.GetBytes(raw, "properties.coordTimes"), nil); len(times) == len(points) {
		for i := range points {
			points[i].Time = times[i]
		}
	}
	return points, nil
}

// flatten returns the positions of g in order. orb keeps only two
// dimensions, so altitudes are read from the raw coordinates.
func flatten(g orb.Geometry, coords gjson.Result) []track.Point {
	var positions []orb.Point
	switch g := g.(type) {
	case orb.Point:
		positions = []orb.Point{g}
	case orb.MultiPoint:
		positions = []orb.Point(g)
	case orb.LineString:
		positions = []orb.Point(g)
	case orb.MultiLineString:
		for _, ls := range g {
			positions = append(positions, ls...)
		}
	case orb.Collection:
		var points []track.Point
		for _, child := range g {
			points = append(points, flatten(child, gjson.Result{})...)
		}
		return points
	default:
		return nil
	}

	alts := altitudes(coords, nil)
	points := make([]track.Point, len(positions))
	for i, p := range positions {
		points[i] = track.Point{Lat: p.Lat(), Lon: p.Lon()}
		if len(alts) == len(positions) {
			points[i].Altitude = alts[i]
		}
	}
	return points
}

// altitudes walks nested coordinate arrays and appends the third value of
// every position, or 0 when a position has two.
func altitudes(coords gjson.Result, out []float64) []float64 {
	if !coords.IsArray() {
		return out
	}
	values := coords.Array()
	if len(values) > 0 && values[0].Type == gjson.Number {
		if len(values) >= 3 {
			return append(out, values[2].Float())
		}
		return append(out, 0)
	}
	for _, v := range values {
		out = altitudes(v, out)
	}
	return out
}

// coordTimes flattens a coordTimes property. Unparsable entries read as 0.
func coordTimes(v gjson.Result, out []int64) []int64 {
	if !v.IsArray() {
		return out
	}
	for _, item := range v.Array() {
		if item.IsArray() {
			out = coordTimes(item, out)
			continue
		}
		var ts int64
		if t, err := time.Parse(time.RFC3339Nano, item.String()); err == nil {
			ts = t.Unix()
		}
		out = append(out, ts)
	}
	return out
}

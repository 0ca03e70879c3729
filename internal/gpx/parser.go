// Package gpx reads GPS Exchange Format tracks and reverses them in place.
package gpx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/planbiir/steplife/internal/track"
)

const formatName = "gpx"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse decodes a GPX document into track points, in file order across all
// tracks and segments.
func Parse(data []byte) ([]track.Point, error) {
	gpxData, err := ParseReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	if err != nil {
		return nil, err
	}
	return gpxData.Points(), nil
}

// ParseReader parses GPX from an io.Reader
func ParseReader(r io.Reader) (*GPX, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel

	var gpxData GPX
	if err := decoder.Decode(&gpxData); err != nil {
		return nil, &track.FormatError{Format: formatName, Err: fmt.Errorf("failed to parse GPX: %w", err)}
	}

	return &gpxData, nil
}

// Points returns all points from all tracks and segments in order
func (g *GPX) Points() []track.Point {
	var points []track.Point

	for _, trk := range g.Tracks {
		for _, segment := range trk.Segments {
			for _, pt := range segment.Points {
				points = append(points, pt.point())
			}
		}
	}

	return points
}

func (p Point) point() track.Point {
	out := track.Point{Lat: p.Lat, Lon: p.Lon}
	if p.Elevation != nil {
		out.Altitude = *p.Elevation
	}
	if ts := strings.TrimSpace(p.Time); ts != "" {
		if t := parseTimeSafe(ts); !t.IsZero() {
			out.Time = t.Unix()
		}
	}
	switch {
	case p.Speed != nil:
		out.Speed = *p.Speed
	case p.ExtSpeed != nil:
		out.Speed = *p.ExtSpeed
	case p.TPXSpeed != nil:
		out.Speed = *p.TPXSpeed
	}
	return out
}

// parseTimeSafe tries multiple timestamp formats for robust GPX parsing
func parseTimeSafe(s string) time.Time {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.000Z07:00",
		"2006-01-02T15:04:05.000Z",
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

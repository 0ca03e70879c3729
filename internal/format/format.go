// Package format picks the parser for a track file by its extension.
package format

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/planbiir/steplife/internal/geojson"
	"github.com/planbiir/steplife/internal/gpx"
	"github.com/planbiir/steplife/internal/kml"
	"github.com/planbiir/steplife/internal/nmea0183"
	"github.com/planbiir/steplife/internal/ovjsn"
	"github.com/planbiir/steplife/internal/stepcsv"
	"github.com/planbiir/steplife/internal/track"
)

// Format is one supported input format.
type Format struct {
	Name       string
	Extensions []string

	// Parse decodes a whole file into points.
	Parse func(data []byte) ([]track.Point, error)

	// Reverse rewrites a file with its points in reverse order, leaving
	// everything else untouched. Nil when the format cannot be reversed in
	// place.
	Reverse func(data []byte) ([]byte, error)
}

var formats = []Format{
	{Name: "gpx", Extensions: []string{".gpx"}, Parse: gpx.Parse, Reverse: gpx.Reverse},
	{Name: "kml", Extensions: []string{".kml"}, Parse: kml.Parse, Reverse: kml.Reverse},
	{Name: "ovjsn", Extensions: []string{".ovjsn", ".json"}, Parse: ovjsn.Parse, Reverse: ovjsn.Reverse},
	{Name: "csv", Extensions: []string{".csv"}, Parse: stepcsv.ParsePoints},
	{Name: "nmea", Extensions: []string{".nmea", ".nme"}, Parse: nmea0183.Parse},
	{Name: "geojson", Extensions: []string{".geojson"}, Parse: geojson.Parse},
}

// All returns the supported formats.
func All() []Format {
	return formats
}

// ForFile returns the format of filename, matched case-insensitively on its
// extension.
func ForFile(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range formats {
		for _, e := range f.Extensions {
			if e == ext {
				return f, nil
			}
		}
	}
	return Format{}, fmt.Errorf("%q: %w", ext, track.ErrUnsupportedExtension)
}

// Parse decodes data with the parser for filename. A file that yields no
// points is an error.
func Parse(filename string, data []byte) ([]track.Point, error) {
	f, err := ForFile(filename)
	if err != nil {
		return nil, err
	}

	points, err := f.Parse(data)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%s: no points found: %w", f.Name, track.ErrEmptyInput)
	}
	return points, nil
}

// Reverse reverses the track stored in data. Only GPX, KML and OVJSN files
// can be reversed.
func Reverse(filename string, data []byte) ([]byte, error) {
	f, err := ForFile(filename)
	if err != nil {
		return nil, err
	}
	if f.Reverse == nil {
		return nil, fmt.Errorf("reverse %s: %w", f.Name, track.ErrUnsupportedExtension)
	}
	return f.Reverse(data)
}

// Package nmea0183 reads GPS receiver logs made of NMEA 0183 sentences.
// Only RMC and GGA sentences carry data the converter uses; every other
// well-formed sentence is skipped.
package nmea0183

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adrianmo/go-nmea"

	"github.com/planbiir/steplife/internal/track"
)

const formatName = "nmea"

// 1 knot is this many m/s
const metersPerSecondPerKnot = 0.514444

// Parse reads data with the current year as the century reference.
func Parse(data []byte) ([]track.Point, error) {
	return Decoder{RefYear: time.Now().UTC().Year()}.Parse(data)
}

// Decoder turns NMEA logs into track points. NMEA dates have two-digit
// years; RefYear supplies the century.
type Decoder struct {
	RefYear int
}

// Parse returns one point per valid RMC fix. A GGA fix at the same instant
// adds its altitude to that point, and a GGA fix at a new instant becomes a
// point of its own once a date is known. GGA fixes seen before any date are
// dropped.
func (d Decoder) Parse(data []byte) ([]track.Point, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	// some receivers end lines with a bare carriage return
	scanner.Split(scanLines)

	var (
		points   []track.Point
		lastDate nmea.Date
	)

	for line := 1; scanner.Scan(); line++ {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		sentence, err := nmea.Parse(raw)
		if err != nil {
			var unsupported *nmea.NotSupportedError
			if errors.As(err, &unsupported) {
				continue
			}
			return nil, &track.FormatError{Format: formatName, Line: line, Err: err}
		}

		switch s := sentence.(type) {
		case nmea.RMC:
			if s.Date.Valid {
				lastDate = s.Date
			}
			if s.Validity != nmea.ValidRMC || !s.Date.Valid || !s.Time.Valid {
				continue
			}
			points = append(points, track.Point{
				Time:  nmea.DateTime(d.RefYear, s.Date, s.Time).Unix(),
				Lat:   s.Latitude,
				Lon:   s.Longitude,
				Speed: s.Speed * metersPerSecondPerKnot,
			})

		case nmea.GGA:
			if s.FixQuality == nmea.Invalid || !s.Time.Valid || !lastDate.Valid {
				continue
			}
			ts := nmea.DateTime(d.RefYear, lastDate, s.Time).Unix()
			if n := len(points); n > 0 && points[n-1].Time == ts {
				points[n-1].Altitude = s.Altitude
				continue
			}
			points = append(points, track.Point{
				Time:     ts,
				Lat:      s.Latitude,
				Lon:      s.Longitude,
				Altitude: s.Altitude,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read NMEA log: %w", err)
	}

	return points, nil
}

// scanLines is a bufio.SplitFunc that accepts LF, CRLF and bare CR line
// endings.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[0:i], nil
		}
		// a CR at the end of the buffer may be followed by LF
		if !atEOF && len(data) == i+1 {
			return 0, nil, nil
		}
		advance = i + 1
		if len(data) > i+1 && data[i+1] == '\n' {
			advance++
		}
		return advance, data[0:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Package kml reads coordinates out of KML documents and reverses them in
// place.
package kml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/planbiir/steplife/internal/track"
)

const formatName = "kml"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse returns one point per coordinate tuple of every <coordinates>
// element, in document order. KML carries neither time nor speed.
func Parse(data []byte) ([]track.Point, error) {
	blocks, err := coordinateBlocks(bytes.TrimPrefix(data, utf8BOM), charset.NewReaderLabel)
	if err != nil {
		return nil, err
	}

	var points []track.Point
	for _, b := range blocks {
		for _, tuple := range strings.Fields(b.text) {
			if p, ok := parseTuple(tuple); ok {
				points = append(points, p)
			}
		}
	}
	return points, nil
}

// parseTuple reads "lon,lat[,alt]". Tuples without two numbers are rejected.
func parseTuple(tuple string) (track.Point, bool) {
	parts := strings.Split(tuple, ",")
	if len(parts) < 2 {
		return track.Point{}, false
	}
	lon, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return track.Point{}, false
	}
	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return track.Point{}, false
	}
	p := track.Point{Lat: lat, Lon: lon}
	if len(parts) >= 3 {
		if alt, err := strconv.ParseFloat(parts[2], 64); err == nil {
			p.Altitude = alt
		}
	}
	return p, true
}

// Reverse reverses the tuple order inside every non-empty <coordinates>
// element. The whitespace before the first and after the last tuple is kept
// and tuples are re-joined with the block's first separator.
func Reverse(data []byte) ([]byte, error) {
	body := bytes.TrimPrefix(data, utf8BOM)
	bom := data[:len(data)-len(body)]

	blocks, err := coordinateBlocks(body, passthroughCharset)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(data))
	buf.Write(bom)

	found := false
	last := int64(0)
	for _, b := range blocks {
		raw := string(body[b.start:b.end])
		tuples := strings.Fields(raw)
		if len(tuples) == 0 {
			continue
		}
		found = true

		for i, j := 0, len(tuples)-1; i < j; i, j = i+1, j-1 {
			tuples[i], tuples[j] = tuples[j], tuples[i]
		}

		trimmed := strings.TrimLeft(raw, " \t\r\n")
		lead := raw[:len(raw)-len(trimmed)]
		trail := trimmed[len(strings.TrimRight(trimmed, " \t\r\n")):]

		buf.Write(body[last:b.start])
		buf.WriteString(lead)
		buf.WriteString(strings.Join(tuples, separator(raw)))
		buf.WriteString(trail)
		last = b.end
	}
	if !found {
		return nil, fmt.Errorf("kml: no coordinates: %w", track.ErrEmptyInput)
	}
	buf.Write(body[last:])

	return buf.Bytes(), nil
}

// separator returns the first whitespace run between two tuples of raw.
func separator(raw string) string {
	s := strings.TrimSpace(raw)
	start := strings.IndexAny(s, " \t\r\n")
	if start < 0 {
		return " "
	}
	end := start
	for end < len(s) && strings.IndexByte(" \t\r\n", s[end]) >= 0 {
		end++
	}
	return s[start:end]
}

type block struct {
	start, end int64 // raw byte range between the start and end tags
	text       string
}

func passthroughCharset(_ string, input io.Reader) (io.Reader, error) { return input, nil }

func coordinateBlocks(body []byte, charsetReader func(string, io.Reader) (io.Reader, error)) ([]block, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = charsetReader

	var (
		blocks   []block
		inCoords bool
		current  block
		text     strings.Builder
		seenRoot bool
	)

	for {
		offset := dec.InputOffset()
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &track.FormatError{Format: formatName, Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			seenRoot = true
			if t.Name.Local == "coordinates" && !inCoords {
				inCoords = true
				current = block{start: dec.InputOffset()}
				text.Reset()
			}
		case xml.CharData:
			if inCoords {
				text.Write(t)
			}
		case xml.EndElement:
			if inCoords && t.Name.Local == "coordinates" {
				current.end = offset
				current.text = text.String()
				blocks = append(blocks, current)
				inCoords = false
			}
		}
	}

	if !seenRoot {
		return nil, &track.FormatError{Format: formatName, Err: errors.New("no root element")}
	}

	return blocks, nil
}

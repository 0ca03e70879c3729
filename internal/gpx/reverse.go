package gpx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/planbiir/steplife/internal/track"
)

type span struct {
	start, end int64
}

// Reverse reverses the order of the trkpt elements inside every trkseg.
// Bytes outside the moved elements are left untouched.
func Reverse(data []byte) ([]byte, error) {
	body := bytes.TrimPrefix(data, utf8BOM)
	bom := data[:len(data)-len(body)]

	segments, err := trackPointSpans(body)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("gpx: no track points: %w", track.ErrEmptyInput)
	}

	var buf bytes.Buffer
	buf.Grow(len(data))
	buf.Write(bom)

	last := int64(0)
	for _, seg := range segments {
		for i, s := range seg {
			src := seg[len(seg)-1-i]
			buf.Write(body[last:s.start])
			buf.Write(body[src.start:src.end])
			last = s.end
		}
	}
	buf.Write(body[last:])

	return buf.Bytes(), nil
}

// trackPointSpans returns, per non-empty trkseg, the byte ranges of its
// direct trkpt children.
func trackPointSpans(body []byte) ([][]span, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	// Offsets must index the raw bytes, so the input is never transcoded.
	// Only ASCII element names are inspected.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) { return input, nil }

	var (
		segments [][]span
		current  []span
		depth    int
		segDepth = -1
		ptStart  = int64(-1)
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
			depth++
			seenRoot = true
			switch {
			case segDepth < 0 && t.Name.Local == "trkseg":
				segDepth = depth
				current = nil
			case segDepth >= 0 && depth == segDepth+1 && t.Name.Local == "trkpt":
				ptStart = offset
			}
		case xml.EndElement:
			switch {
			case ptStart >= 0 && depth == segDepth+1:
				current = append(current, span{start: ptStart, end: dec.InputOffset()})
				ptStart = -1
			case depth == segDepth:
				if len(current) > 0 {
					segments = append(segments, current)
				}
				current = nil
				segDepth = -1
			}
			depth--
		}
	}

	if !seenRoot {
		return nil, &track.FormatError{Format: formatName, Err: errors.New("no root element")}
	}

	return segments, nil
}

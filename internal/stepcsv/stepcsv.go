// Package stepcsv reads and writes the 11-column CSV imported by StepLife.
package stepcsv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jszwec/csvutil"

	"github.com/planbiir/steplife/internal/track"
)

const formatName = "csv"

// Columns is the exact header of a StepLife CSV file.
var Columns = []string{
	"dataTime",
	"locType",
	"longitude",
	"latitude",
	"heading",
	"accuracy",
	"speed",
	"distance",
	"isBackForeground",
	"stepType",
	"altitude",
}

// Header is Columns joined into the header line.
var Header = strings.Join(Columns, ",")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type record struct {
	DataTime         integer `csv:"dataTime"`
	LocType          integer `csv:"locType"`
	Longitude        fixed8  `csv:"longitude"`
	Latitude         fixed8  `csv:"latitude"`
	Heading          plain   `csv:"heading"`
	Accuracy         plain   `csv:"accuracy"`
	Speed            fixed2  `csv:"speed"`
	Distance         plain   `csv:"distance"`
	IsBackForeground integer `csv:"isBackForeground"`
	StepType         integer `csv:"stepType"`
	Altitude         fixed2  `csv:"altitude"`
}

func newRecord(r track.Row) record {
	return record{
		DataTime:         integer(r.DataTime),
		LocType:          integer(r.LocType),
		Longitude:        fixed8(r.Longitude),
		Latitude:         fixed8(r.Latitude),
		Heading:          plain(r.Heading),
		Accuracy:         plain(r.Accuracy),
		Speed:            fixed2(r.Speed),
		Distance:         plain(r.Distance),
		IsBackForeground: integer(r.IsBackForeground),
		StepType:         integer(r.StepType),
		Altitude:         fixed2(r.Altitude),
	}
}

func (r record) row() track.Row {
	return track.Row{
		DataTime:         int64(r.DataTime),
		LocType:          int(r.LocType),
		Longitude:        float64(r.Longitude),
		Latitude:         float64(r.Latitude),
		Heading:          float64(r.Heading),
		Accuracy:         float64(r.Accuracy),
		Speed:            float64(r.Speed),
		Distance:         float64(r.Distance),
		IsBackForeground: int(r.IsBackForeground),
		StepType:         int(r.StepType),
		Altitude:         float64(r.Altitude),
	}
}

// Write writes the header and one line per row to w. Every line, the last
// included, ends with LF.
func Write(w io.Writer, rows []track.Row) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	if err := enc.EncodeHeader(record{}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	enc.AutoHeader = false

	for i, r := range rows {
		if err := enc.Encode(newRecord(r)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// Generate renders rows as a StepLife CSV document: LF line endings and no
// newline after the last line.
func Generate(rows []track.Row) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, rows); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Parse validates data against the StepLife schema and returns its rows. The
// first problem found is returned as a *track.FormatError naming the data row
// (1-based) and column.
func Parse(data []byte) ([]track.Row, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1

	dec, err := csvutil.NewDecoder(r)
	if errors.Is(err, io.EOF) {
		return nil, &track.FormatError{Format: formatName, Err: errors.New("missing header")}
	}
	if err != nil {
		return nil, &track.FormatError{Format: formatName, Err: err}
	}

	if got := strings.Join(dec.Header(), ","); got != Header {
		return nil, &track.FormatError{Format: formatName, Err: fmt.Errorf("header %q does not match %q", got, Header)}
	}

	var rows []track.Row
	for line := 1; ; line++ {
		var rec record
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, rowError(line, dec.Record(), err)
		}
		if err := checkFields(line, dec.Record()); err != nil {
			return nil, err
		}
		rows = append(rows, rec.row())
	}

	return rows, nil
}

// rowError turns a decode failure into a located FormatError.
func rowError(line int, fields []string, err error) error {
	if len(fields) != len(Columns) {
		var perr *csv.ParseError
		if errors.As(err, &perr) && !errors.Is(err, csv.ErrFieldCount) {
			return &track.FormatError{Format: formatName, Line: line, Err: perr.Err}
		}
		return &track.FormatError{
			Format: formatName,
			Line:   line,
			Err:    fmt.Errorf("expected %d fields, got %d", len(Columns), len(fields)),
		}
	}

	if ferr := checkFields(line, fields); ferr != nil {
		return ferr
	}
	return &track.FormatError{Format: formatName, Line: line, Err: err}
}

// integerColumns are the fields decoded into integer.
var integerColumns = map[string]bool{
	"dataTime":         true,
	"locType":          true,
	"isBackForeground": true,
	"stepType":         true,
}

// checkFields reports the first field of a data row that is not a finite
// number, or not a whole int64 in an integer column.
func checkFields(line int, fields []string) error {
	for i, v := range fields {
		var err error
		if integerColumns[Columns[i]] {
			var n integer
			err = n.UnmarshalText([]byte(v))
		} else {
			_, err = parseNumber(v)
		}
		if err != nil {
			return &track.FormatError{Format: formatName, Line: line, Column: Columns[i], Err: err}
		}
	}
	return nil
}

// ParsePoints parses data and converts its rows back into points.
func ParsePoints(data []byte) ([]track.Point, error) {
	rows, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv: no data rows: %w", track.ErrEmptyInput)
	}

	points := make([]track.Point, len(rows))
	for i, r := range rows {
		points[i] = r.Point()
	}
	return points, nil
}

// Package ovjsn reads the JSON export of the Ovital map app. Coordinates live
// in leaf ObjectDetail.Latlng values, either as a flat [lat, lon, ...] array
// or as a string holding such an array.
package ovjsn

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/planbiir/steplife/internal/track"
)

const formatName = "ovjsn"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse returns the coordinate pairs of every leaf object in document order.
// A trailing unpaired value is dropped.
func Parse(data []byte) ([]track.Point, error) {
	body := bytes.TrimPrefix(data, utf8BOM)
	if !gjson.ValidBytes(body) {
		return nil, &track.FormatError{Format: formatName, Err: errors.New("invalid JSON")}
	}

	var points []track.Point
	walk(gjson.ParseBytes(body).Get("ObjItems"), "ObjItems", func(_ string, latlng gjson.Result) {
		values, _ := latlngValues(latlng)
		for i := 0; i+1 < len(values); i += 2 {
			points = append(points, track.Point{Lat: values[i].Float(), Lon: values[i+1].Float()})
		}
	})
	return points, nil
}

// Reverse reverses the pair order of every leaf Latlng holding at least two
// pairs. Everything else, including number spelling and the string or array
// form of Latlng, is kept.
func Reverse(data []byte) ([]byte, error) {
	body := bytes.TrimPrefix(data, utf8BOM)
	bom := data[:len(data)-len(body)]

	if !gjson.ValidBytes(body) {
		return nil, &track.FormatError{Format: formatName, Err: errors.New("invalid JSON")}
	}
	items := gjson.ParseBytes(body).Get("ObjItems")
	if !items.IsArray() {
		return nil, &track.FormatError{Format: formatName, Err: errors.New("missing ObjItems array")}
	}

	type edit struct {
		path     string
		value    string
		asString bool
	}
	var edits []edit
	walk(items, "ObjItems", func(path string, latlng gjson.Result) {
		values, ok := latlngValues(latlng)
		if !ok || len(values) < 4 {
			return
		}
		edits = append(edits, edit{
			path:     path,
			value:    reversedPairs(values),
			asString: latlng.Type == gjson.String,
		})
	})
	if len(edits) == 0 {
		return nil, fmt.Errorf("ovjsn: no coordinates: %w", track.ErrEmptyInput)
	}

	out := append([]byte(nil), body...)
	for _, e := range edits {
		var err error
		if e.asString {
			out, err = sjson.SetBytes(out, e.path, e.value)
		} else {
			out, err = sjson.SetRawBytes(out, e.path, []byte(e.value))
		}
		if err != nil {
			return nil, fmt.Errorf("failed to rewrite %s: %w", e.path, err)
		}
	}

	return append(append([]byte(nil), bom...), out...), nil
}

// walk calls visit with the path and value of every leaf Latlng below items.
// An object with an ObjChildren array is a folder and its Latlng is ignored.
func walk(items gjson.Result, path string, visit func(path string, latlng gjson.Result)) {
	if !items.IsArray() {
		return
	}
	for i, item := range items.Array() {
		detailPath := path + "." + strconv.Itoa(i) + ".Object.ObjectDetail"
		detail := item.Get("Object.ObjectDetail")
		if !detail.Exists() {
			continue
		}
		if children := detail.Get("ObjChildren"); children.IsArray() {
			walk(children, detailPath+".ObjChildren", visit)
			continue
		}
		if latlng := detail.Get("Latlng"); latlng.Exists() {
			visit(detailPath+".Latlng", latlng)
		}
	}
}

// latlngValues returns the flat coordinate array of a Latlng value. A string
// that does not hold a JSON array is reported as not ok.
func latlngValues(latlng gjson.Result) ([]gjson.Result, bool) {
	switch {
	case latlng.IsArray():
		return latlng.Array(), true
	case latlng.Type == gjson.String:
		if !gjson.Valid(latlng.Str) {
			return nil, false
		}
		inner := gjson.Parse(latlng.Str)
		if !inner.IsArray() {
			return nil, false
		}
		return inner.Array(), true
	}
	return nil, false
}

// reversedPairs renders values with the pair order reversed. Literals are
// copied verbatim and an odd trailing value stays last.
func reversedPairs(values []gjson.Result) string {
	pairs := len(values) / 2
	raws := make([]string, 0, len(values))
	for p := pairs - 1; p >= 0; p-- {
		raws = append(raws, values[2*p].Raw, values[2*p+1].Raw)
	}
	if len(values)%2 == 1 {
		raws = append(raws, values[len(values)-1].Raw)
	}
	return "[" + strings.Join(raws, ",") + "]"
}

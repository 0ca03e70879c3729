package ovjsn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planbiir/steplife/internal/track"
)

const testDoc = `{
  "Version": 3,
  "ObjItems": [
    {"Object": {"Name": "folder", "ObjectDetail": {"ObjChildren": [
      {"Object": {"Name": "a", "ObjectDetail": {"Latlng": [30.0, 120.0, 30.001, 120.001]}}},
      {"Object": {"Name": "b", "ObjectDetail": {"Latlng": "[31.5,121.5,31.6,121.6,31.7]"}}}
    ], "Latlng": [1, 1]}}},
    {"Object": {"Name": "c", "ObjectDetail": {"Latlng": "not json"}}},
    {"Object": {"Name": "d"}}
  ]
}`

func TestParse(t *testing.T) {
	points, err := Parse([]byte(testDoc))
	require.NoError(t, err)
	require.Len(t, points, 4)

	assert.Equal(t, track.Point{Lat: 30.0, Lon: 120.0}, points[0])
	assert.Equal(t, track.Point{Lat: 30.001, Lon: 120.001}, points[1])
	assert.Equal(t, track.Point{Lat: 31.5, Lon: 121.5}, points[2])
	assert.Equal(t, track.Point{Lat: 31.6, Lon: 121.6}, points[3])
}

func TestParseWithBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, `{"ObjItems":[{"Object":{"ObjectDetail":{"Latlng":[1,2]}}}]}`...)

	points, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 1.0, points[0].Lat)
	assert.Equal(t, 2.0, points[0].Lon)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte(`{"ObjItems": [`))
	assert.True(t, errors.Is(err, track.ErrFormat), "got %v", err)

	points, err := Parse([]byte(`{"Other": 1}`))
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestReverse(t *testing.T) {
	const doc = `{"ObjItems": [{"Object": {"ObjectDetail": {"Latlng": [30.10, 120, 30.2, 120.2, 30.3, 120.3]}}}]}`
	const want = `{"ObjItems": [{"Object": {"ObjectDetail": {"Latlng": [30.3,120.3,30.2,120.2,30.10,120]}}}]}`

	out, err := Reverse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, want, string(out))
}

func TestReverseStringLatlng(t *testing.T) {
	const doc = `{"ObjItems":[{"Object":{"ObjectDetail":{"Latlng":"[1,2,3,4,5]"}}}]}`
	const want = `{"ObjItems":[{"Object":{"ObjectDetail":{"Latlng":"[3,4,1,2,5]"}}}]}`

	out, err := Reverse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, want, string(out))
}

func TestReverseNested(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, testDoc...)

	out, err := Reverse(data)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, out[:3], "BOM must be kept")

	points, err := Parse(out)
	require.NoError(t, err)
	require.Len(t, points, 4)
	assert.Equal(t, 30.001, points[0].Lat)
	assert.Equal(t, 30.0, points[1].Lat)
	assert.Equal(t, 31.6, points[2].Lat)
	assert.Equal(t, 31.5, points[3].Lat)

	again, err := Reverse(out)
	require.NoError(t, err)
	back, err := Parse(again)
	require.NoError(t, err)
	original, err := Parse([]byte(testDoc))
	require.NoError(t, err)
	assert.Equal(t, original, back)
}

func TestReverseErrors(t *testing.T) {
	_, err := Reverse([]byte(`{"ObjItems": [{"Object": {"ObjectDetail": {"Latlng": [1, 2]}}}]}`))
	assert.True(t, errors.Is(err, track.ErrEmptyInput), "single pair: got %v", err)

	_, err = Reverse([]byte(`{"Name": "x"}`))
	assert.True(t, errors.Is(err, track.ErrFormat), "missing ObjItems: got %v", err)

	_, err = Reverse([]byte(`[`))
	assert.True(t, errors.Is(err, track.ErrFormat), "invalid JSON: got %v", err)
}

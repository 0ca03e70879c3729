package geojson

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planbiir/steplife/internal/track"
)

func TestParseFeatureCollection(t *testing.T) {
	const doc = `{
	  "type": "FeatureCollection",
	  "features": [
	    {
	      "type": "Feature",
	      "properties": {"coordTimes": ["2025-01-01T10:00:00Z", "2025-01-01T10:00:10Z"]},
	      "geometry": {"type": "LineString", "coordinates": [[7.0, 46.0, 1000], [7.001, 46.001, 1005]]}
	    },
	    {
	      "type": "Feature",
	      "properties": null,
	      "geometry": {"type": "Point", "coordinates": [8.5, 47.3]}
	    },
	    {
	      "type": "Feature",
	      "properties": {},
	      "geometry": null
	    }
	  ]
	}`

	points, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, track.Point{Time: 1735725600, Lat: 46.0, Lon: 7.0, Altitude: 1000}, points[0])
	assert.Equal(t, track.Point{Time: 1735725610, Lat: 46.001, Lon: 7.001, Altitude: 1005}, points[1])
	assert.Equal(t, track.Point{Lat: 47.3, Lon: 8.5}, points[2])
}

func TestParseCoordTimesLengthMismatch(t *testing.T) {
	const doc = `{"type": "Feature", "properties": {"coordTimes": ["2025-01-01T10:00:00Z"]},
	  "geometry": {"type": "LineString", "coordinates": [[1, 2], [3, 4]]}}`

	points, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Zero(t, points[0].Time)
	assert.Zero(t, points[1].Time)
}

func TestParseBareGeometry(t *testing.T) {
	const doc = `{"type": "MultiLineString", "coordinates": [[[1, 2, 3], [4, 5, 6]], [[7, 8, 9]]]}`

	points, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, track.Point{Lat: 8, Lon: 7, Altitude: 9}, points[2])
}

func TestParseIgnoresPolygons(t *testing.T) {
	points, err := Parse([]byte(`{"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 0]]]}`))
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestParseErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"invalid json": `{"type":`,
		"no type":      `{"coordinates": [1, 2]}`,
		"unknown type": `{"type": "Circle", "coordinates": [1, 2]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.True(t, errors.Is(err, track.ErrFormat), "got %v", err)
		})
	}
}

package batch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/planbiir/steplife/internal/convert"
	"github.com/planbiir/steplife/internal/stepcsv"
	"github.com/planbiir/steplife/internal/track"
)

const routeKML = `<kml><Document><Placemark><LineString><coordinates>120.1,30.1,5 120.2,30.2,6</coordinates></LineString></Placemark></Document></kml>`

func csvInput(t *testing.T, name string, times ...int64) Input {
	t.Helper()
	rows := make([]track.Row, len(times))
	for i, ts := range times {
		rows[i] = track.Row{DataTime: ts, Longitude: float64(i) * 0.001, Latitude: 0, Speed: 2}
	}
	data, err := stepcsv.Generate(rows)
	require.NoError(t, err)
	return Input{Name: name, Data: data}
}

func TestConvert(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []int
	)
	r := &Runner{
		Logger:  zaptest.NewLogger(t),
		Workers: 2,
		Progress: func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, 3, total)
			calls = append(calls, done)
		},
	}

	cfg := convert.DefaultConfig()
	cfg.StartTime = "1000"
	cfg.EndTime = "1010"

	results, err := r.Convert(context.Background(), []Input{
		{Name: "tracks/route.kml", Data: []byte(routeKML)},
		{Name: "broken.gpx", Data: []byte("not xml")},
		{Name: "notes.txt", Data: []byte("hello")},
	}, cfg)
	require.NoError(t, err)
	require.Len(t, results, 3)

	ok := results[0]
	require.NoError(t, ok.Err)
	assert.Equal(t, "tracks/route.kml", ok.Name)
	assert.Equal(t, "route_steplife.csv", ok.OutputName)
	assert.Equal(t, "kml", ok.Format)
	assert.Equal(t, convert.Stats{OriginalPoints: 2, FinalPoints: 2}, ok.Stats)

	rows, err := stepcsv.Parse(ok.Output)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1000), rows[0].DataTime)
	assert.Equal(t, int64(1010), rows[1].DataTime)
	assert.Equal(t, 120.2, rows[1].Longitude)

	assert.True(t, errors.Is(results[1].Err, track.ErrFormat), "got %v", results[1].Err)
	assert.Contains(t, results[1].Err.Error(), "broken.gpx")
	assert.True(t, errors.Is(results[2].Err, track.ErrUnsupportedExtension), "got %v", results[2].Err)
	assert.Equal(t, 2, Failed(results))

	assert.ElementsMatch(t, []int{1, 2, 3}, calls)
}

func TestConvertConfigError(t *testing.T) {
	r := &Runner{}
	cfg := convert.DefaultConfig()
	cfg.SpeedMode = "turbo"

	_, err := r.Convert(context.Background(), []Input{{Name: "a.kml", Data: []byte(routeKML)}}, cfg)
	assert.True(t, errors.Is(err, track.ErrConfig), "got %v", err)
}

func TestCancelledBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{Logger: zaptest.NewLogger(t)}
	results, err := r.Reverse(ctx, []Input{{Name: "a.kml", Data: []byte(routeKML)}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}

func TestInterpolate(t *testing.T) {
	r := &Runner{Logger: zaptest.NewLogger(t)}
	cfg := convert.DefaultInterpolationConfig()
	cfg.InsertDistance = 50

	results, err := r.Interpolate(context.Background(), []Input{
		csvInput(t, "walk.csv", 1000, 1010, 1020),
		{Name: "bad.csv", Data: []byte("dataTime\n1\n")},
	}, cfg)
	require.NoError(t, err)

	require.NoError(t, results[0].Err)
	assert.Equal(t, "walk_interpolated.csv", results[0].OutputName)
	assert.Equal(t, 7, results[0].Stats.FinalPoints)
	assert.Equal(t, 4, results[0].Stats.InsertedPoints)

	assert.True(t, errors.Is(results[1].Err, track.ErrFormat), "got %v", results[1].Err)
}

func TestReverse(t *testing.T) {
	r := &Runner{Logger: zaptest.NewLogger(t), Workers: 4}

	results, err := r.Reverse(context.Background(), []Input{
		{Name: "route.kml", Data: []byte(routeKML)},
		{Name: "route_reversed.kml", Data: []byte(routeKML)},
		{Name: "steps.csv", Data: []byte(stepcsv.Header)},
	})
	require.NoError(t, err)

	require.NoError(t, results[0].Err)
	assert.Equal(t, "route_reversed.kml", results[0].OutputName)
	assert.Contains(t, string(results[0].Output), "<coordinates>120.2,30.2,6 120.1,30.1,5</coordinates>")
	assert.Equal(t, "route_reversed.kml", results[1].OutputName)
	assert.True(t, errors.Is(results[2].Err, track.ErrUnsupportedExtension), "got %v", results[2].Err)
}

func TestInspect(t *testing.T) {
	r := &Runner{}

	results, err := r.Inspect(context.Background(), []Input{
		{Name: "route.kml", Data: []byte(routeKML)},
		{Name: "empty.kml", Data: []byte("<kml/>")},
	})
	require.NoError(t, err)

	require.NoError(t, results[0].Err)
	assert.Equal(t, "kml", results[0].Format)
	assert.Equal(t, 2, results[0].Summary.Points)
	assert.Greater(t, results[0].Summary.Distance, 10000.0)
	assert.Empty(t, results[0].Output)
	assert.Equal(t, "unknown", results[0].Profile.Type, "untimed tracks have no activity")

	assert.True(t, errors.Is(results[1].Err, track.ErrEmptyInput), "got %v", results[1].Err)
}

func TestMerge(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	r := &Runner{Logger: zaptest.NewLogger(t), Workers: 2, Now: func() time.Time { return now }}

	out, err := r.Merge(context.Background(), []Input{
		csvInput(t, "a.csv", 30, 10),
		csvInput(t, "b.csv", 20),
	})
	require.NoError(t, err)

	assert.Equal(t, "merged_2_csv_files_2024-01-02T03-04-05.csv", out.Name)
	rows, err := stepcsv.Parse(out.Data)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []int64{10, 20, 30}, []int64{rows[0].DataTime, rows[1].DataTime, rows[2].DataTime})

	require.Len(t, out.Result.Files, 2)
	assert.Equal(t, "a.csv", out.Result.Files[0].Name)
	assert.Equal(t, int64(10), out.Result.Files[0].MinTime)
}

func TestMergeAbortsOnInvalidInput(t *testing.T) {
	r := &Runner{Logger: zaptest.NewLogger(t)}

	_, err := r.Merge(context.Background(), []Input{
		csvInput(t, "a.csv", 10),
		{Name: "b.csv", Data: []byte("lat,lon\n1,2\n")},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, track.ErrFormat), "got %v", err)
	assert.True(t, strings.Contains(err.Error(), "b.csv"), "got %v", err)

	_, err = r.Merge(context.Background(), []Input{{Name: "empty.csv", Data: []byte(stepcsv.Header)}})
	assert.True(t, errors.Is(err, track.ErrEmptyInput), "got %v", err)
}

// Package merge combines StepLife row sets into one time-ordered sequence.
package merge

import (
	"fmt"
	"sort"

	"github.com/planbiir/steplife/internal/track"
)

// RowSet is the validated content of one input file.
type RowSet struct {
	Name string
	Rows []track.Row
}

// FileStats reports one input so callers can surface it to users.
type FileStats struct {
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	MinTime int64  `json:"min_time"` // 0 when the file has no rows
	MaxTime int64  `json:"max_time"`
}

// Result contains the merged rows and per-input statistics in input order.
type Result struct {
	Rows  []track.Row
	Files []FileStats
}

// Rows concatenates sets in input order and stable-sorts the result by
// DataTime, so rows sharing a timestamp keep their input order. A merge
// that yields no rows fails with track.ErrEmptyInput.
func Rows(sets []RowSet) (Result, error) {
	total := 0
	for _, s := range sets {
		total += len(s.Rows)
	}
	if total == 0 {
		return Result{}, fmt.Errorf("merge of %d files produced no rows: %w", len(sets), track.ErrEmptyInput)
	}

	merged := make([]track.Row, 0, total)
	files := make([]FileStats, 0, len(sets))
	for _, s := range sets {
		merged = append(merged, s.Rows...)

		minTime, maxTime := timeBounds(s.Rows)
		files = append(files, FileStats{
			Name:    s.Name,
			Rows:    len(s.Rows),
			MinTime: minTime,
			MaxTime: maxTime,
		})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].DataTime < merged[j].DataTime
	})

	return Result{Rows: merged, Files: files}, nil
}

func timeBounds(rows []track.Row) (int64, int64) {
	if len(rows) == 0 {
		return 0, 0
	}

	minTime, maxTime := rows[0].DataTime, rows[0].DataTime
	for _, r := range rows[1:] {
		minTime = min(minTime, r.DataTime)
		maxTime = max(maxTime, r.DataTime)
	}

	return minTime, maxTime
}

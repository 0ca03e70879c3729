package convert

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/planbiir/steplife/internal/track"
	"github.com/planbiir/steplife/internal/tz"
)

// wall clock layouts, read in the configured zone
var wallLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime converts a configured start or end time to epoch seconds.
// Digits are epoch seconds, RFC 3339 strings keep their own offset, and wall
// clock strings are read in loc.
func ParseTime(s string, loc *time.Location) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty time: %w", track.ErrConfig)
	}

	if isDigits(s) {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid epoch time %q: %w", s, track.ErrConfig)
		}
		return v, nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Unix(), nil
	}

	if loc == nil {
		loc = time.Local
	}
	for _, layout := range wallLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.Unix(), nil
		}
	}

	return 0, fmt.Errorf("unrecognized time %q: %w", s, track.ErrConfig)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// ResolveLocation returns the zone wall clock times are read in. An empty
// name is the local zone; "auto" looks up the zone of the first point with
// finder, or with the built-in tzf data when finder is nil.
func ResolveLocation(name string, points []track.Point, finder tz.Finder) (*time.Location, error) {
	switch name {
	case "":
		return time.Local, nil
	case TimezoneAuto:
		if len(points) == 0 {
			return time.Local, nil
		}
		if finder == nil {
			f, err := tz.Default()
			if err != nil {
				return nil, fmt.Errorf("%w: %w", track.ErrConfig, err)
			}
			finder = f
		}
		loc, err := tz.Locate(finder, points[0].Lat, points[0].Lon)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", track.ErrConfig, err)
		}
		return loc, nil
	default:
		loc, err := time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("unknown timezone %q: %w", name, track.ErrConfig)
		}
		return loc, nil
	}
}

// Allocator assigns timestamps to rows by position.
//
// With both ends set, rows are spread evenly from Start with a step of at
// least one second and the last row lands exactly on End. Otherwise a
// nonzero Interval steps from Start, and without either every row gets Start.
type Allocator struct {
	Start int64
	End   int64 // 0 when unset
	Total int   // rows to allocate

	step    int64
	useEnd  bool
	useStep bool
}

// NewAllocator prepares an allocator for total rows.
func NewAllocator(start, end, interval int64, total int) Allocator {
	a := Allocator{Start: start, End: end, Total: total}

	switch {
	case end > 0 && start > 0 && total > 1:
		a.useEnd = true
		a.step = max(1, (end-start)/int64(total-1))
	case interval != 0 && start > 0 && total > 1:
		a.useStep = true
		a.step = interval
	}

	return a
}

// UsesEndTime reports whether the last row is pinned to End.
func (a Allocator) UsesEndTime() bool {
	return a.useEnd
}

// At returns the timestamp of row k.
func (a Allocator) At(k int) int64 {
	if !a.useEnd && !a.useStep {
		return a.Start
	}
	if a.useEnd && k == a.Total-1 {
		return a.End
	}
	return a.Start + int64(k)*a.step
}

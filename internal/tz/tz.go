// Package tz finds the time zone of a coordinate.
package tz

import (
	"fmt"
	"sync"
	"time"

	"github.com/ringsaturn/tzf"
)

// Finder names the IANA time zone at a coordinate, or returns "" when it
// knows none. tzf finders satisfy it.
type Finder interface {
	GetTimezoneName(lng float64, lat float64) string
}

var (
	defaultOnce   sync.Once
	defaultFinder Finder
	defaultErr    error
)

// Default returns a finder backed by the tzf data compiled into the binary.
// The data is loaded on first use and shared afterwards.
func Default() (Finder, error) {
	defaultOnce.Do(func() {
		f, err := tzf.NewDefaultFinder()
		if err != nil {
			defaultErr = fmt.Errorf("failed to load time zone data: %w", err)
			return
		}
		defaultFinder = f
	})
	return defaultFinder, defaultErr
}

// Locate returns the location of the zone at (lat, lon).
func Locate(f Finder, lat, lon float64) (*time.Location, error) {
	name := f.GetTimezoneName(lon, lat)
	if name == "" {
		return nil, fmt.Errorf("no time zone found at %.5f,%.5f", lat, lon)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %s: %w", name, err)
	}
	return loc, nil
}

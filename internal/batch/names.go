package batch

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// baseName strips the directory and the last extension.
func baseName(name string) (string, string) {
	name = filepath.Base(name)
	ext := filepath.Ext(name)
	if ext == name {
		// dotfile without extension
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}

// ConvertedName is the output name of a converted track.
func ConvertedName(name string) string {
	base, _ := baseName(name)
	return base + "_steplife.csv"
}

// InterpolatedName is the output name of an interpolated CSV.
func InterpolatedName(name string) string {
	base, ext := baseName(name)
	if !strings.EqualFold(ext, ".csv") {
		base += ext
	}
	return base + "_interpolated.csv"
}

// ReversedName is the output name of a reversed track. Names already marked
// as reversed are kept.
func ReversedName(name string) string {
	if strings.Contains(filepath.Base(name), "_reversed") {
		return filepath.Base(name)
	}
	base, ext := baseName(name)
	return base + "_reversed" + ext
}

// MergedName is the output name of a merge of n files at t.
func MergedName(n int, t time.Time) string {
	return fmt.Sprintf("merged_%d_csv_files_%s.csv", n, t.UTC().Format("2006-01-02T15-04-05"))
}

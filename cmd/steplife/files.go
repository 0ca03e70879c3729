package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/planbiir/steplife/internal/batch"
	"github.com/planbiir/steplife/internal/format"
)

// extensions lists the extensions an operation accepts.
func extensions(reversible bool) string {
	var exts []string
	for _, f := range format.All() {
		if reversible && f.Reverse == nil {
			continue
		}
		exts = append(exts, f.Extensions...)
	}
	return strings.Join(exts, ", ")
}

func readInputs(paths []string) ([]batch.Input, error) {
	inputs := make([]batch.Input, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		inputs = append(inputs, batch.Input{Name: p, Data: data})
	}
	return inputs, nil
}

// runner returns a batch runner that reports progress on stderr when more
// than one file is processed.
func (a *app) runner(cmd *cobra.Command, files int) *batch.Runner {
	r := &batch.Runner{
		Logger:  a.log,
		Workers: a.cfg.Batch.Workers,
	}
	if files > 1 {
		bar := progressbar.NewOptions(files,
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription(cmd.Name()),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		r.Progress = func(done, total int) {
			_ = bar.Set(done)
		}
	}
	return r
}

// outputPath places name in outDir, or next to the input when outDir is
// empty.
func outputPath(outDir, input, name string) string {
	if outDir == "" {
		outDir = filepath.Dir(input)
	}
	return filepath.Join(outDir, name)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// writeResults writes every successful output and prints one line per file.
// It returns errFilesFailed when any file failed.
func writeResults(w io.Writer, outDir string, results []batch.FileResult) error {
	written := 0
	for i := range results {
		res := &results[i]
		if res.Err == nil {
			path := outputPath(outDir, res.Name, res.OutputName)
			if err := writeFile(path, res.Output); err != nil {
				res.Err = err
			} else {
				res.OutputName = path
				written++
			}
		}
		printResult(w, *res)
	}

	failed := batch.Failed(results)
	fmt.Fprintf(w, "\n💾 %d written, %d failed\n", written, failed)
	if failed > 0 {
		return errFilesFailed
	}
	return nil
}

func printResult(w io.Writer, res batch.FileResult) {
	if res.Err != nil {
		fmt.Fprintf(w, "❌ %s: %v\n", res.Name, res.Err)
		return
	}

	fmt.Fprintf(w, "✅ %s → %s\n", res.Name, res.OutputName)
	if s := res.Stats; s.FinalPoints > 0 {
		fmt.Fprintf(w, "   %d → %d points (%d inserted)", s.OriginalPoints, s.FinalPoints, s.InsertedPoints)
		if s.Reversed {
			fmt.Fprintf(w, ", reversed")
		}
		fmt.Fprintln(w)
	}
}

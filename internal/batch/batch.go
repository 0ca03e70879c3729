// Package batch runs one operation over many input files. Each file is
// processed independently: a failing file is recorded on its result and
// never stops the others.
package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/planbiir/steplife/internal/activity"
	"github.com/planbiir/steplife/internal/convert"
	"github.com/planbiir/steplife/internal/format"
	"github.com/planbiir/steplife/internal/merge"
	"github.com/planbiir/steplife/internal/stepcsv"
	"github.com/planbiir/steplife/internal/track"
)

// Input is the name and content of one file.
type Input struct {
	Name string
	Data []byte
}

// FileResult is the outcome for one input. Err is set when the file failed;
// the other fields are then zero.
type FileResult struct {
	Name       string
	OutputName string
	Output     []byte
	Format     string
	Stats      convert.Stats
	Summary    track.Summary
	Profile    activity.Profile
	Err        error
}

// Runner processes batches. The zero value runs sequentially and does not
// log.
type Runner struct {
	Logger    *zap.Logger
	Workers   int                   // files processed at once, values below 1 mean 1
	Progress  func(done, total int) // called after every file
	Converter convert.Converter
	Now       func() time.Time // clock for merge output names

	mu sync.Mutex
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// run calls fn for every input with at most Workers calls in flight.
// Results keep the input order. A cancelled ctx discards the whole batch.
func (r *Runner) run(ctx context.Context, op string, inputs []Input, fn func(i int, in Input) FileResult) ([]FileResult, error) {
	log := r.logger().With(zap.String("op", op), zap.String("batch", uuid.NewString()))
	log.Debug("batch started", zap.Int("files", len(inputs)), zap.Int("workers", max(r.Workers, 1)))

	results := make([]FileResult, len(inputs))
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Workers, 1))
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res := fn(i, in)
			res.Name = in.Name
			results[i] = res

			if res.Err != nil {
				log.Warn("file failed", zap.String("file", in.Name), zap.Error(res.Err))
			} else {
				log.Info("file processed",
					zap.String("file", in.Name),
					zap.String("output", res.OutputName),
					zap.Int("original", res.Stats.OriginalPoints),
					zap.Int("final", res.Stats.FinalPoints))
			}

			r.mu.Lock()
			done++
			if r.Progress != nil {
				r.Progress(done, len(inputs))
			}
			r.mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Debug("batch finished", zap.Int("failed", Failed(results)))
	return results, nil
}

// Failed counts the results carrying an error.
func Failed(results []FileResult) int {
	n := 0
	for _, res := range results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Convert turns track files of any supported format into StepLife CSV.
func (r *Runner) Convert(ctx context.Context, inputs []Input, cfg convert.Config) ([]FileResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return r.run(ctx, "convert", inputs, func(_ int, in Input) FileResult {
		points, err := format.Parse(in.Name, in.Data)
		if err != nil {
			return FileResult{Err: fmt.Errorf("failed to parse %s: %w", in.Name, err)}
		}

		res, err := r.Converter.Convert(points, cfg)
		if err != nil {
			return FileResult{Err: fmt.Errorf("failed to convert %s: %w", in.Name, err)}
		}

		out, err := stepcsv.Generate(res.Rows)
		if err != nil {
			return FileResult{Err: fmt.Errorf("failed to write %s: %w", in.Name, err)}
		}

		f, _ := format.ForFile(in.Name)
		return FileResult{
			OutputName: ConvertedName(in.Name),
			Output:     out,
			Format:     f.Name,
			Stats:      res.Stats,
		}
	})
}

// Interpolate densifies existing StepLife CSV files.
func (r *Runner) Interpolate(ctx context.Context, inputs []Input, cfg convert.InterpolationConfig) ([]FileResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return r.run(ctx, "interpolate", inputs, func(_ int, in Input) FileResult {
		points, err := stepcsv.ParsePoints(in.Data)
		if err != nil {
			return FileResult{Err: fmt.Errorf("failed to parse %s: %w", in.Name, err)}
		}

		res, err := convert.InterpolateCSV(points, cfg)
		if err != nil {
			return FileResult{Err: fmt.Errorf("failed to interpolate %s: %w", in.Name, err)}
		}

		out, err := stepcsv.Generate(res.Rows)
		if err != nil {
			return FileResult{Err: fmt.Errorf("failed to write %s: %w", in.Name, err)}
		}

		return FileResult{
			OutputName: InterpolatedName(in.Name),
			Output:     out,
			Format:     "csv",
			Stats:      res.Stats,
		}
	})
}

// Reverse rewrites track files with their coordinate order reversed.
func (r *Runner) Reverse(ctx context.Context, inputs []Input) ([]FileResult, error) {
	return r.run(ctx, "reverse", inputs, func(_ int, in Input) FileResult {
		out, err := format.Reverse(in.Name, in.Data)
		if err != nil {
			return FileResult{Err: fmt.Errorf("failed to reverse %s: %w", in.Name, err)}
		}

		f, _ := format.ForFile(in.Name)
		return FileResult{
			OutputName: ReversedName(in.Name),
			Output:     out,
			Format:     f.Name,
		}
	})
}

// Inspect parses track files and summarizes them without writing output.
func (r *Runner) Inspect(ctx context.Context, inputs []Input) ([]FileResult, error) {
	return r.run(ctx, "inspect", inputs, func(_ int, in Input) FileResult {
		f, err := format.ForFile(in.Name)
		if err != nil {
			return FileResult{Err: err}
		}

		points, err := format.Parse(in.Name, in.Data)
		if err != nil {
			return FileResult{Err: fmt.Errorf("failed to parse %s: %w", in.Name, err)}
		}

		return FileResult{
			Format:  f.Name,
			Summary: track.Summarize(points),
			Profile: activity.Detect(points),
		}
	})
}

// MergeOutput is the merged CSV and what went into it.
type MergeOutput struct {
	Name   string
	Data   []byte
	Result merge.Result
}

// Merge combines StepLife CSV files into one time-ordered file. Every input
// is parsed before merging; any invalid input aborts the merge.
func (r *Runner) Merge(ctx context.Context, inputs []Input) (MergeOutput, error) {
	sets := make([]merge.RowSet, len(inputs))
	results, err := r.run(ctx, "merge", inputs, func(i int, in Input) FileResult {
		rows, err := stepcsv.Parse(in.Data)
		if err != nil {
			return FileResult{Err: fmt.Errorf("failed to parse %s: %w", in.Name, err)}
		}
		sets[i] = merge.RowSet{Name: in.Name, Rows: rows}
		return FileResult{Format: "csv", Stats: convert.Stats{OriginalPoints: len(rows), FinalPoints: len(rows)}}
	})
	if err != nil {
		return MergeOutput{}, err
	}

	for _, res := range results {
		if res.Err != nil {
			return MergeOutput{}, res.Err
		}
	}

	merged, err := merge.Rows(sets)
	if err != nil {
		return MergeOutput{}, err
	}

	out, err := stepcsv.Generate(merged.Rows)
	if err != nil {
		return MergeOutput{}, fmt.Errorf("failed to write merged rows: %w", err)
	}

	r.logger().Info("files merged", zap.Int("files", len(inputs)), zap.Int("rows", len(merged.Rows)))
	return MergeOutput{
		Name:   MergedName(len(inputs), r.now()),
		Data:   out,
		Result: merged,
	}, nil
}

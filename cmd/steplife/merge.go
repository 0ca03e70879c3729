package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newMergeCmd(a *app) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "merge [csv files...]",
		Short: "Merge StepLife CSV files into one file ordered by time",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			override(cmd.Flags(), "out", &a.cfg.Batch.OutDir, outDir)

			inputs, err := readInputs(args)
			if err != nil {
				return err
			}

			out, err := a.runner(cmd, len(inputs)).Merge(cmd.Context(), inputs)
			if err != nil {
				return err
			}

			dir := a.cfg.Batch.OutDir
			if dir == "" {
				dir = "."
			}
			path := outputPath(dir, "", out.Name)
			if err := writeFile(path, out.Data); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, f := range out.Result.Files {
				if f.Rows == 0 {
					fmt.Fprintf(w, "📄 %s: 0 rows\n", f.Name)
					continue
				}
				fmt.Fprintf(w, "📄 %s: %d rows, %s – %s\n", f.Name, f.Rows, formatUnix(f.MinTime), formatUnix(f.MaxTime))
			}
			fmt.Fprintf(w, "✅ Merged %d files into %s (%d rows)\n", len(out.Result.Files), path, len(out.Result.Rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default: current directory)")
	return cmd
}

func formatUnix(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}

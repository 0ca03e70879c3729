package main

import "github.com/spf13/cobra"

func newReverseCmd(a *app) *cobra.Command {
	var (
		outDir  string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "reverse [files...]",
		Short: "Reverse the direction of GPX, KML or OVJSN tracks",
		Long: `Reverse the direction of GPX, KML or OVJSN tracks. Only the order of the
coordinates changes; the rest of each file is written back as it was.

Supported extensions: ` + extensions(true),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			override(cmd.Flags(), "workers", &a.cfg.Batch.Workers, workers)
			override(cmd.Flags(), "out", &a.cfg.Batch.OutDir, outDir)
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			inputs, err := readInputs(args)
			if err != nil {
				return err
			}

			results, err := a.runner(cmd, len(inputs)).Reverse(cmd.Context(), inputs)
			if err != nil {
				return err
			}
			return writeResults(cmd.OutOrStdout(), a.cfg.Batch.OutDir, results)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default: next to each input)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "files processed in parallel")
	return cmd
}

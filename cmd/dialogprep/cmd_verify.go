package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"dialogprep/internal/dataset"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [root...]",
	Short: "Report sampled statistics for one or more dataset roots",
	Long: `Verify enumerates dialogue files per split, samples the first file of
each split for conversation counts and service identifiers, and flags the
optional sidecar files. Multiple roots are verified concurrently.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		roots := args
		if len(roots) == 0 {
			settings, err := resolveSettings()
			if err != nil {
				return err
			}
			roots = []string{settings.DataDir}
		}

		reports := make([]*dataset.Report, len(roots))

		g := new(errgroup.Group)
		for i, root := range roots {
			g.Go(func() error {
				reports[i] = dataset.Verify(root)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for i, root := range roots {
			if i > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			printReport(cmd, root, reports[i])
		}
		return nil
	},
}

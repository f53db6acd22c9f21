package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dialogprep/internal/acquire"
	"dialogprep/internal/dataset"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Acquire the dataset into the canonical split layout",
	Long: `Acquire the dataset: reuse an already-valid copy, download and extract
the upstream archive, or fall back to the hosted dataset source when the
archive is unreachable. Finishes with a sampled statistics summary.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings, err := resolveSettings()
		if err != nil {
			return err
		}

		a := acquire.New(settings, logProgress())
		result, err := a.Acquire(cmd.Context())
		if err != nil {
			return fmt.Errorf("acquire dataset: %w", err)
		}

		report := dataset.Verify(result.Root)
		printReport(cmd, result.Root, report)
		fmt.Fprintf(cmd.OutOrStdout(), "\nOutcome: %s\n", result.Outcome)
		return nil
	},
}

func printReport(cmd *cobra.Command, root string, report *dataset.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Dataset: %s\n", root)
	for _, split := range dataset.Splits {
		stats, ok := report.Splits[split]
		if !ok {
			fmt.Fprintf(out, "  %-5s  MISSING\n", split)
			continue
		}
		fmt.Fprintf(out, "  %-5s  %d files, %d conversations sampled\n",
			split, stats.Files, stats.Conversations)
	}
	fmt.Fprintf(out, "Sidecars: dialog_acts=%v schema=%v\n", report.HasDialogActs, report.HasSchema)
	if len(report.Services) > 0 {
		fmt.Fprintf(out, "Services: %s\n", strings.Join(report.Services, ", "))
	}
}

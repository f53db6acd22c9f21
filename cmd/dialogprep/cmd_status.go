package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dialogprep/internal/dataset"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show split presence and file counts without sampling",
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings, err := resolveSettings()
		if err != nil {
			return err
		}
		root := settings.DataDir

		counts := dataset.FileCounts(root)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Split\tPresent\tFiles\n")
		fmt.Fprintf(w, "-----\t-------\t-----\n")
		for _, split := range dataset.Splits {
			n, ok := counts[split]
			if !ok {
				fmt.Fprintf(w, "%s\tno\t-\n", split)
				continue
			}
			fmt.Fprintf(w, "%s\tyes\t%d\n", split, n)
		}
		w.Flush()

		if dataset.IsValid(root) {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s: valid\n", root)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s: incomplete (run 'dialogprep fetch')\n", root)
		}
		return nil
	},
}

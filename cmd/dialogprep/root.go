package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dialogprep/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	dataDir      string
	settingsPath string
	logLevel     string
	logFormat    string
}

var rootCmd = &cobra.Command{
	Use:   "dialogprep",
	Short: "Acquire and validate the MultiWOZ 2.2 dialogue dataset",
	Long: "Dialogprep fetches the MultiWOZ 2.2 multi-domain dialogue dataset,\n" +
		"normalizes it into the canonical train/dev/test layout, and validates\n" +
		"the result before downstream training pipelines consume it.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, err := logging.ParseLevel(rootFlags.logLevel)
		if err != nil {
			return err
		}
		logging.Init(level, rootFlags.logFormat)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.dataDir, "data-dir", "data/raw", "Dataset root directory")
	rootCmd.PersistentFlags().StringVar(&rootFlags.settingsPath, "settings", "", "Settings file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&rootFlags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&rootFlags.logFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

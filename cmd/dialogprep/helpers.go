package main

import (
	"fmt"

	"dialogprep/internal/config"
	"dialogprep/internal/fetch"
	"dialogprep/internal/logging"
)

// resolveSettings builds the effective settings from the --settings file if
// given, otherwise from defaults plus environment overrides. --data-dir
// always wins over the file's data_dir.
func resolveSettings() (config.Settings, error) {
	if rootFlags.settingsPath != "" {
		s, err := config.LoadFromPath(rootFlags.settingsPath, rootFlags.dataDir)
		if err != nil {
			return config.Settings{}, err
		}
		if rootFlags.dataDir != "" {
			s.DataDir = rootFlags.dataDir
		}
		return s, nil
	}
	return config.FromEnv(rootFlags.dataDir)
}

// logProgress bridges download progress to log lines, emitting one line per
// completed decile (or per 8 MiB when the total is unknown) so the log
// stays readable.
func logProgress() fetch.Progress {
	logger := logging.New("fetch")
	lastMark := -1
	return func(done, total int64) {
		if total > 0 {
			decile := int(done * 10 / total)
			if decile > lastMark {
				lastMark = decile
				logger.Info("downloading", "bytes", done, "total", total,
					"percent", fmt.Sprintf("%d%%", decile*10))
			}
			return
		}
		mark := int(done / (8 << 20))
		if mark > lastMark {
			lastMark = mark
			logger.Info("downloading", "bytes", done)
		}
	}
}

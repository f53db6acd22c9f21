package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults reproduce the upstream MultiWOZ 2.2 acquisition constants.
const (
	DefaultArchiveURL  = "https://github.com/budzianowski/multiwoz/raw/master/data/MultiWOZ_2.2.zip"
	DefaultArchiveName = "MultiWOZ_2.2.zip"
	DefaultHubBaseURL  = "https://datasets-server.huggingface.co"
	DefaultHubDataset  = "multi_woz_v22"
	DefaultHubConfig   = "v2.2"
	DefaultTimeout     = 60 * time.Second
	DefaultChunkSize   = 8 * 1024
)

// Settings holds everything the acquisition pipeline needs to know about its
// sources and target. The zero value is not usable; start from Default().
type Settings struct {
	// DataDir is the dataset root the canonical split layout is written to.
	DataDir string `yaml:"data_dir" json:"data_dir"`

	// ArchiveURL is the primary zip archive source.
	ArchiveURL string `yaml:"archive_url" json:"archive_url"`

	// ArchiveName is the staging filename placed next to DataDir.
	ArchiveName string `yaml:"archive_name" json:"archive_name"`

	// HubBaseURL, HubDataset and HubConfig identify the fallback
	// hosted-dataset source.
	HubBaseURL string `yaml:"hub_base_url" json:"hub_base_url"`
	HubDataset string `yaml:"hub_dataset" json:"hub_dataset"`
	HubConfig  string `yaml:"hub_config" json:"hub_config"`

	// TimeoutSeconds bounds every remote call (connect + read).
	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`

	// ChunkSize is the streaming copy buffer size in bytes.
	ChunkSize int `yaml:"chunk_size" json:"chunk_size"`
}

// Default returns settings pointing at the upstream sources with the
// dataset rooted at dataDir.
func Default(dataDir string) Settings {
	return Settings{
		DataDir:        dataDir,
		ArchiveURL:     DefaultArchiveURL,
		ArchiveName:    DefaultArchiveName,
		HubBaseURL:     DefaultHubBaseURL,
		HubDataset:     DefaultHubDataset,
		HubConfig:      DefaultHubConfig,
		TimeoutSeconds: int(DefaultTimeout / time.Second),
		ChunkSize:      DefaultChunkSize,
	}
}

// Timeout returns the remote-call timeout as a duration.
func (s Settings) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Validate checks that the settings are internally usable.
func (s Settings) Validate() error {
	if s.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if s.ArchiveURL == "" {
		return fmt.Errorf("archive_url is required")
	}
	if s.ArchiveName == "" {
		return fmt.Errorf("archive_name is required")
	}
	if s.HubBaseURL == "" || s.HubDataset == "" {
		return fmt.Errorf("hub_base_url and hub_dataset are required")
	}
	return nil
}

// applyEnv overlays DIALOGPREP_* environment variables onto s. Unset or
// empty variables leave the existing value alone.
func (s *Settings) applyEnv() {
	setStr := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setStr(&s.DataDir, "DIALOGPREP_DATA_DIR")
	setStr(&s.ArchiveURL, "DIALOGPREP_ARCHIVE_URL")
	setStr(&s.ArchiveName, "DIALOGPREP_ARCHIVE_NAME")
	setStr(&s.HubBaseURL, "DIALOGPREP_HUB_BASE_URL")
	setStr(&s.HubDataset, "DIALOGPREP_HUB_DATASET")
	setStr(&s.HubConfig, "DIALOGPREP_HUB_CONFIG")

	if v := os.Getenv("DIALOGPREP_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("DIALOGPREP_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.ChunkSize = n
		}
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_YAML(t *testing.T) {
	data := []byte("archive_url: http://mirror.example/woz.zip\ntimeout_seconds: 5\n")

	s, err := Load(data, ".yaml", "/tmp/woz")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.ArchiveURL != "http://mirror.example/woz.zip" {
		t.Errorf("archive_url = %q", s.ArchiveURL)
	}
	if s.Timeout() != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", s.Timeout())
	}
	// Untouched fields keep their defaults.
	if s.HubDataset != DefaultHubDataset {
		t.Errorf("hub_dataset = %q, want default", s.HubDataset)
	}
}

func TestLoad_JSONDetectedByContent(t *testing.T) {
	data := []byte(`{"archive_name": "woz.zip"}`)

	s, err := Load(data, "", "/tmp/woz")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.ArchiveName != "woz.zip" {
		t.Errorf("archive_name = %q", s.ArchiveName)
	}
}

func TestLoadFromPath_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	content := "hub_dataset: other_woz\nhub_config: v2.3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFromPath(path, filepath.Join(dir, "data"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	want := Default(filepath.Join(dir, "data"))
	want.HubDataset = "other_woz"
	want.HubConfig = "v2.3"
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DIALOGPREP_ARCHIVE_URL", "http://env.example/a.zip")
	t.Setenv("DIALOGPREP_CHUNK_SIZE", "1024")

	s, err := FromEnv("/tmp/woz")
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if s.ArchiveURL != "http://env.example/a.zip" {
		t.Errorf("archive_url = %q", s.ArchiveURL)
	}
	if s.ChunkSize != 1024 {
		t.Errorf("chunk_size = %d", s.ChunkSize)
	}
}

func TestValidate_MissingDataDir(t *testing.T) {
	s := Default("")
	if err := s.Validate(); err == nil {
		t.Error("expected error for empty data_dir")
	}
}

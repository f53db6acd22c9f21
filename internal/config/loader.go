package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadFromPath reads a settings file (YAML or JSON), overlays environment
// variables, and returns the result. Format is detected by extension
// (.yaml/.yml → YAML, .json → JSON) or by content. A .env file next to the
// settings file is loaded first, if present; variables already set in the
// process environment win.
func LoadFromPath(path, dataDir string) (Settings, error) {
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	return Load(data, filepath.Ext(path), dataDir)
}

// Load parses settings from bytes on top of Default(dataDir). ext is the
// file extension for format hint; empty = detect from content.
func Load(data []byte, ext, dataDir string) (Settings, error) {
	s := Default(dataDir)

	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}

	switch {
	case ext == ".yaml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("parse settings yaml: %w", err)
		}
	case ext == ".json" || strings.HasPrefix(strings.TrimSpace(string(data)), "{"):
		if err := json.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("parse settings json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("parse settings yaml: %w", err)
		}
	}

	s.applyEnv()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// FromEnv returns Default(dataDir) with environment overrides applied, for
// invocations that carry no settings file. A .env in the working directory
// is honored.
func FromEnv(dataDir string) (Settings, error) {
	_ = godotenv.Load()

	s := Default(dataDir)
	s.applyEnv()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

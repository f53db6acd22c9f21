// Package dataset checks an acquired dialogue dataset against the
// canonical split layout and reports sampled statistics.
package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"dialogprep/internal/logging"
)

// Splits are the canonical partition names, in reporting order.
var Splits = []string{"train", "dev", "test"}

// DialogueFilePattern matches dialogue files inside a split directory.
const DialogueFilePattern = "dialogues_*.json"

// Sidecar filenames flagged by Verify. Neither is required for validity.
const (
	DialogActsFile = "dialog_acts.json"
	SchemaFile     = "schema.json"
)

// SplitStats summarizes one split directory.
type SplitStats struct {
	Files         int `json:"files"`
	Conversations int `json:"conversations"`
}

// Report is the ephemeral result of Verify. It is produced fresh on every
// call and never persisted.
type Report struct {
	Splits        map[string]SplitStats `json:"splits"`
	MissingSplits []string              `json:"missing_splits,omitempty"`
	DialogueFiles int                   `json:"dialogue_files"`
	Conversations int                   `json:"conversations"`
	HasDialogActs bool                  `json:"has_dialog_acts"`
	HasSchema     bool                  `json:"has_schema"`
	Services      []string              `json:"services,omitempty"`
}

// IsValid reports whether all three canonical split directories exist under
// root. It never reads file contents; this is the orchestrator's cheap
// cache check.
func IsValid(root string) bool {
	for _, split := range Splits {
		info, err := os.Stat(filepath.Join(root, split))
		if err != nil || !info.IsDir() {
			return false
		}
	}
	return true
}

// sampleRecord decodes only what Verify inspects; the rest of each dialogue
// record stays opaque.
type sampleRecord struct {
	Services []string `json:"services"`
}

// Verify enumerates dialogue files per split and samples the first file of
// each split for conversation counts and service identifiers. Parse
// failures are logged and reflected in the report, never returned as
// errors: this is a best-effort statistics pass.
func Verify(root string) *Report {
	logger := logging.New("validate")
	logger.Info("validation starting", "root", root)

	report := &Report{Splits: make(map[string]SplitStats)}
	services := make(map[string]struct{})

	for _, split := range Splits {
		dir := filepath.Join(root, split)
		files, err := dialogueFiles(dir)
		if err != nil {
			logger.Warn("split directory missing", "split", split)
			report.MissingSplits = append(report.MissingSplits, split)
			continue
		}

		stats := SplitStats{Files: len(files)}
		report.DialogueFiles += len(files)

		if len(files) > 0 {
			n, svcs, err := sampleFile(filepath.Join(dir, files[0]))
			if err != nil {
				logger.Warn("sampled dialogue file unparseable",
					"split", split, "file", files[0], "error", err)
			} else {
				stats.Conversations = n
				report.Conversations += n
				for _, s := range svcs {
					services[s] = struct{}{}
				}
			}
		}

		report.Splits[split] = stats
	}

	report.HasDialogActs = fileExists(filepath.Join(root, DialogActsFile))
	report.HasSchema = fileExists(filepath.Join(root, SchemaFile))

	for s := range services {
		report.Services = append(report.Services, s)
	}
	sort.Strings(report.Services)

	logger.Info("validation finished",
		"splits", len(report.Splits),
		"dialogue_files", report.DialogueFiles,
		"conversations", report.Conversations,
		"dialog_acts", report.HasDialogActs,
		"schema", report.HasSchema,
		"services", report.Services)
	return report
}

// FileCounts returns the dialogue-file count per present split without
// reading any file contents. Absent splits are omitted.
func FileCounts(root string) map[string]int {
	counts := make(map[string]int)
	for _, split := range Splits {
		files, err := dialogueFiles(filepath.Join(root, split))
		if err != nil {
			continue
		}
		counts[split] = len(files)
	}
	return counts
}

// dialogueFiles lists files in dir matching DialogueFilePattern, sorted
// lexically so sampling is deterministic.
func dialogueFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(DialogueFilePattern, e.Name()); ok {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// sampleFile parses one dialogue file as a JSON array and returns its
// length plus the services of its first record.
func sampleFile(path string) (int, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, nil, err
	}

	var records []sampleRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, nil, err
	}

	if len(records) == 0 {
		return 0, nil, nil
	}
	return len(records), records[0].Services, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

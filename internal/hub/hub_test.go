package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

// rowsServer serves a rows API with the given records per source split.
func rowsServer(t *testing.T, splits map[string][]map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rows" {
			http.NotFound(w, r)
			return
		}
		split := r.URL.Query().Get("split")
		records, ok := splits[split]
		if !ok {
			http.Error(w, "unknown split", http.StatusNotFound)
			return
		}
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		length, _ := strconv.Atoi(r.URL.Query().Get("length"))
		if offset > len(records) {
			offset = len(records)
		}
		end := offset + length
		if end > len(records) {
			end = len(records)
		}

		type row struct {
			Row map[string]any `json:"row"`
		}
		page := struct {
			Rows         []row `json:"rows"`
			NumRowsTotal int   `json:"num_rows_total"`
		}{NumRowsTotal: len(records)}
		for _, rec := range records[offset:end] {
			page.Rows = append(page.Rows, row{Row: rec})
		}
		_ = json.NewEncoder(w).Encode(page)
	}))
}

func record(id string) map[string]any {
	return map[string]any{"dialogue_id": id, "services": []string{"hotel"}}
}

func TestFetchDataset_RemapsValidationToDev(t *testing.T) {
	server := rowsServer(t, map[string][]map[string]any{
		"train":      {record("T1"), record("T2")},
		"validation": {record("V1")},
		"test":       {record("X1")},
	})
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Dataset: "multi_woz_v22", ConfigName: "v2.2"}, 10*time.Second)
	target := t.TempDir()
	if err := client.FetchDataset(context.Background(), target); err != nil {
		t.Fatalf("FetchDataset: %v", err)
	}

	for _, split := range []string{"train", "dev", "test"} {
		path := filepath.Join(target, split, FallbackFileName)
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("missing %s: %v", path, err)
		}
		var records []map[string]any
		if err := json.Unmarshal(data, &records); err != nil {
			t.Fatalf("parse %s: %v", path, err)
		}
	}

	// Nothing may be written under the source's own name.
	if _, err := os.Stat(filepath.Join(target, "validation")); !os.IsNotExist(err) {
		t.Error("a 'validation' directory was created; records must land under dev/")
	}

	// The validation partition's record landed under dev.
	data, _ := os.ReadFile(filepath.Join(target, "dev", FallbackFileName))
	var devRecords []map[string]any
	if err := json.Unmarshal(data, &devRecords); err != nil {
		t.Fatal(err)
	}
	if len(devRecords) != 1 || devRecords[0]["dialogue_id"] != "V1" {
		t.Errorf("dev records = %v, want the validation partition's V1", devRecords)
	}
}

func TestFetchDataset_Paginates(t *testing.T) {
	var records []map[string]any
	for i := 0; i < 250; i++ {
		records = append(records, record(fmt.Sprintf("T%03d", i)))
	}
	server := rowsServer(t, map[string][]map[string]any{
		"train":      records,
		"validation": {},
		"test":       {},
	})
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Dataset: "multi_woz_v22"}, 10*time.Second)
	target := t.TempDir()
	if err := client.FetchDataset(context.Background(), target); err != nil {
		t.Fatalf("FetchDataset: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(target, "train", FallbackFileName))
	if err != nil {
		t.Fatal(err)
	}
	var got []map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 250 {
		t.Errorf("train records = %d, want 250", len(got))
	}
	if got[0]["dialogue_id"] != "T000" || got[249]["dialogue_id"] != "T249" {
		t.Error("pagination broke record ordering")
	}
}

func TestFetchDataset_EmptySplitWritesArray(t *testing.T) {
	server := rowsServer(t, map[string][]map[string]any{
		"train":      {},
		"validation": {},
		"test":       {},
	})
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Dataset: "multi_woz_v22"}, 10*time.Second)
	target := t.TempDir()
	if err := client.FetchDataset(context.Background(), target); err != nil {
		t.Fatalf("FetchDataset: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(target, "train", FallbackFileName))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("empty split serialized as %q, want []", data)
	}
}

func TestFetchDataset_APIErrorIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "dataset is gated", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Dataset: "multi_woz_v22"}, 10*time.Second)
	err := client.FetchDataset(context.Background(), t.TempDir())

	var fbErr *FallbackError
	if !errors.As(err, &fbErr) {
		t.Fatalf("expected *FallbackError, got %v", err)
	}
	if fbErr.Split != "train" {
		t.Errorf("failed split = %q, want train (first in fetch order)", fbErr.Split)
	}
}

func TestSplitMap_IsTotalAndDeterministic(t *testing.T) {
	want := map[string]string{"train": "train", "validation": "dev", "test": "test"}
	for src, canonical := range want {
		if got := SplitMap[src]; got != canonical {
			t.Errorf("SplitMap[%q] = %q, want %q", src, got, canonical)
		}
	}
	if len(SplitMap) != len(want) {
		t.Errorf("SplitMap has %d entries, want %d", len(SplitMap), len(want))
	}
}

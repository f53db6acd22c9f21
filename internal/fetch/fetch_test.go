package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFetch_StreamsToFile(t *testing.T) {
	payload := strings.Repeat("woz", 10000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	var calls int
	var lastDone, lastTotal int64
	f := New(10*time.Second, func(done, total int64) {
		calls++
		lastDone, lastTotal = done, total
	})
	f.ChunkSize = 1024

	dest := filepath.Join(t.TempDir(), "archive.zip")
	if err := f.Fetch(context.Background(), server.URL, dest); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != payload {
		t.Errorf("payload mismatch: got %d bytes, want %d", len(data), len(payload))
	}
	if calls == 0 {
		t.Error("progress callback never fired")
	}
	if lastDone != int64(len(payload)) {
		t.Errorf("final done = %d, want %d", lastDone, len(payload))
	}
	if lastTotal != int64(len(payload)) {
		t.Errorf("total = %d, want %d", lastTotal, len(payload))
	}
}

func TestFetch_IndeterminateTotal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fl := w.(http.Flusher)
		// Chunked transfer: no Content-Length on the wire.
		_, _ = w.Write([]byte("part one "))
		fl.Flush()
		_, _ = w.Write([]byte("part two"))
	}))
	defer server.Close()

	var sawIndeterminate bool
	f := New(10*time.Second, func(done, total int64) {
		if total == -1 {
			sawIndeterminate = true
		}
	})

	dest := filepath.Join(t.TempDir(), "archive.zip")
	if err := f.Fetch(context.Background(), server.URL, dest); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !sawIndeterminate {
		t.Error("expected total == -1 for a chunked response")
	}
}

func TestFetch_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	f := New(10*time.Second, nil)
	dest := filepath.Join(t.TempDir(), "archive.zip")
	err := f.Fetch(context.Background(), server.URL, dest)

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *NetworkError, got %v", err)
	}
	if netErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", netErr.StatusCode)
	}
}

func TestFetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	f := New(50*time.Millisecond, nil)
	dest := filepath.Join(t.TempDir(), "archive.zip")
	err := f.Fetch(context.Background(), server.URL, dest)

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *NetworkError, got %v", err)
	}
}

func TestFetch_ConnectionRefused(t *testing.T) {
	f := New(time.Second, nil)
	dest := filepath.Join(t.TempDir(), "archive.zip")
	err := f.Fetch(context.Background(), "http://127.0.0.1:1/archive.zip", dest)

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *NetworkError, got %v", err)
	}
}

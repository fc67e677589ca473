package fetch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "trainctl/pkg/fetch"
)

func writeSource(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to seed source file: %v", err)
	}
}

func TestLocalFetcher_CopiesFile(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	writeSource(t, src, "vocab.txt", "WT_1\nWT_2\n")

	f := NewLocalFetcher(src, false)
	path, err := f.Fetch(context.Background(), "vocab.txt", dest)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fetched file: %v", err)
	}
	if string(data) != "WT_1\nWT_2\n" {
		t.Errorf("unexpected content: %q", data)
	}
}

func TestLocalFetcher_KeepsExistingFile(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	writeSource(t, src, "train.txt", "new corpus")
	writeSource(t, dest, "train.txt", "already here")

	f := NewLocalFetcher(src, false)
	path, err := f.Fetch(context.Background(), "train.txt", dest)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "already here" {
		t.Errorf("existing file must be kept without force, got %q", data)
	}
}

func TestLocalFetcher_ForceOverwrites(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	writeSource(t, src, "train.txt", "new corpus")
	writeSource(t, dest, "train.txt", "stale")

	f := NewLocalFetcher(src, true)
	path, err := f.Fetch(context.Background(), "train.txt", dest)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "new corpus" {
		t.Errorf("force fetch must overwrite, got %q", data)
	}
}

func TestLocalFetcher_MissingSourceFails(t *testing.T) {
	f := NewLocalFetcher(t.TempDir(), false)
	if _, err := f.Fetch(context.Background(), "vocab.txt", t.TempDir()); err == nil {
		t.Fatal("expected error for missing source file")
	}
}

func TestFetchAll_StopsOnFirstFailure(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	writeSource(t, src, "vocab.txt", "v")
	// train.txt deliberately absent.

	f := NewLocalFetcher(src, false)
	err := FetchAll(context.Background(), f, []string{"vocab.txt", "train.txt"}, dest)
	if err == nil {
		t.Fatal("expected FetchAll to fail on the missing file")
	}
	if _, statErr := os.Stat(filepath.Join(dest, "vocab.txt")); statErr != nil {
		t.Error("files fetched before the failure should remain")
	}
}

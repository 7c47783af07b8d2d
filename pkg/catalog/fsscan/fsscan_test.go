package fsscan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/atsu-uapmd/pluginhost/pkg/format"
)

func TestScanFindsBundleDirectoriesByExtension(t *testing.T) {
	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, "Gain.vst3"))
	mustMkdir(t, filepath.Join(root, "Reverb.vst3"))
	mustMkdir(t, filepath.Join(root, "not-a-bundle"))
	if err := os.WriteFile(filepath.Join(root, "readme.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := New(format.FamilyV3C, root)

	var ids []string
	for entry, err := range s.Scan(context.Background()) {
		if err != nil {
			t.Fatalf("unexpected scan error: %v", err)
		}
		ids = append(ids, entry.PluginID)
	}

	if len(ids) != 2 {
		t.Fatalf("expected 2 bundles found, got %d: %v", len(ids), ids)
	}
}

func TestScanYieldsErrorForUnreadableSearchPathAndContinues(t *testing.T) {
	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, "Gain.clap"))

	s := New(format.FamilyCFE, filepath.Join(root, "does-not-exist"), root)

	var errCount, entryCount int
	for _, err := range s.Scan(context.Background()) {
		if err != nil {
			errCount++
			continue
		}
		entryCount++
	}

	if errCount != 1 {
		t.Fatalf("expected 1 error for the missing path, got %d", errCount)
	}
	if entryCount != 1 {
		t.Fatalf("expected scanning to continue to the valid path, got %d entries", entryCount)
	}
}

func TestScanStopsEarlyWhenConsumerBreaks(t *testing.T) {
	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, "A.vst3"))
	mustMkdir(t, filepath.Join(root, "B.vst3"))

	s := New(format.FamilyV3C, root)

	count := 0
	for range s.Scan(context.Background()) {
		count++
		break
	}
	if count != 1 {
		t.Fatalf("expected exactly one entry before breaking, got %d", count)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
}

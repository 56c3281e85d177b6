package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 4)
	w, err := NewWatcher(100*time.Millisecond, []string{"*.tmp", ".git"}, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	corpusFile := filepath.Join(tmpDir, "people.metta")
	os.WriteFile(corpusFile, []byte("(likes Alice Bob)"), 0644)

	select {
	case paths := <-changedFiles:
		found := false
		for _, p := range paths {
			if p == corpusFile {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected to find %s in changed files %v", corpusFile, paths)
		}
	case <-time.After(2 * time.Second):
		t.Error("timed out waiting for file change event")
	}

	// Excluded patterns must not trigger a batch.
	excluded := filepath.Join(tmpDir, "scratch.tmp")
	os.WriteFile(excluded, []byte("ignored"), 0644)

	select {
	case paths := <-changedFiles:
		for _, p := range paths {
			if filepath.Base(p) == "scratch.tmp" {
				t.Error("excluded file triggered event")
			}
		}
	case <-time.After(500 * time.Millisecond):
		// expected
	}

	// A directory created under a watched root is picked up recursively.
	subdir := filepath.Join(tmpDir, "facts")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatal(err)
	}
	subFile := filepath.Join(subdir, "nested.metta")
	if err := os.WriteFile(subFile, []byte("(knows Carol Dave)"), 0644); err != nil {
		t.Fatal(err)
	}

	foundNested := false
	timeout := time.After(2 * time.Second)
	for !foundNested {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == subFile {
					foundNested = true
					break
				}
			}
		case <-timeout:
			t.Fatal("timed out waiting for nested file event in newly created directory")
		}
	}
}

func TestWatcher_SingleFileTarget(t *testing.T) {
	tmpDir := t.TempDir()
	corpusFile := filepath.Join(tmpDir, "graph.metta")
	if err := os.WriteFile(corpusFile, []byte("(related A B)"), 0644); err != nil {
		t.Fatal(err)
	}

	changedFiles := make(chan []string, 1)
	w, err := NewWatcher(50*time.Millisecond, nil, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{corpusFile}); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(corpusFile, []byte("(related A C)"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-changedFiles:
		if len(paths) != 1 || paths[0] != corpusFile {
			t.Errorf("expected [%s], got %v", corpusFile, paths)
		}
	case <-time.After(2 * time.Second):
		t.Error("timed out waiting for file change event")
	}
}

func TestWatcher_MissingTarget(t *testing.T) {
	w, err := NewWatcher(50*time.Millisecond, nil, nil, func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{"does/not/exist.metta"}); err == nil {
		t.Error("expected error for missing watch target")
	}
}

func TestWatcher_InvalidExcludePattern(t *testing.T) {
	_, err := NewWatcher(50*time.Millisecond, []string{"[unclosed"}, nil, func([]string) {})
	if err == nil {
		t.Error("expected error for invalid glob pattern")
	}
}

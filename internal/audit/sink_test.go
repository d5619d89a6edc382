package audit

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFileSink_WritesEntry(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir, discardLogger())
	sink.now = func() time.Time { return time.Unix(0, 1700000000000000000) }

	sink.Record(KindRephrase, "the prompt", "the response")

	path := filepath.Join(dir, KindRephrase, "1700000000000000000.txt")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected entry file: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "the prompt") || !strings.Contains(content, "the response") {
		t.Errorf("entry missing prompt or response: %q", content)
	}
}

func TestFileSink_PartitionsByKind(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir, discardLogger())

	sink.Record(KindRephrase, "p1", "r1")
	sink.Record(KindFactCheck, "p2", "r2")

	for _, kind := range []string{KindRephrase, KindFactCheck} {
		entries, err := os.ReadDir(filepath.Join(dir, kind))
		if err != nil || len(entries) != 1 {
			t.Errorf("expected 1 entry under %s, got %d (err: %v)", kind, len(entries), err)
		}
	}
}

func TestFileSink_WriteFailureIsSwallowed(t *testing.T) {
	// A file in place of the base directory makes every write fail
	dir := t.TempDir()
	blocked := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(blocked, []byte("x"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	sink := NewFileSink(blocked, discardLogger())

	// Must not panic or propagate
	sink.Record(KindFactCheck, "p", "r")
}

// Package audit persists completion-service prompt/response pairs for
// later inspection. Writes are strictly best effort: a failed write is
// logged and dropped, it never reaches the pipeline.
package audit

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Call types partition the log directory, one subdirectory each
const (
	KindRephrase  = "rephrase"
	KindFactCheck = "factcheck"
)

// Sink records one entry per completion-service call
type Sink interface {
	Record(kind, prompt, response string)
}

// FileSink appends timestamp-keyed entries under a base directory
type FileSink struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time // injectable for tests
}

// NewFileSink creates a sink writing under dir
func NewFileSink(dir string, logger *slog.Logger) *FileSink {
	return &FileSink{
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}
}

// Record writes the prompt and raw response to
// <dir>/<kind>/<unix-nanos>.txt. Failures are swallowed after a warning.
func (s *FileSink) Record(kind, prompt, response string) {
	dir := filepath.Join(s.dir, kind)
	if err := os.MkdirAll(dir, 0755); err != nil {
		s.logger.Warn("audit_write_failed", slog.String("kind", kind), slog.String("error", err.Error()))
		return
	}

	name := fmt.Sprintf("%d.txt", s.now().UnixNano())
	content := "PROMPT:\n\n" + prompt + "\n\n###############\n\nRESPONSE:\n\n" + response
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		s.logger.Warn("audit_write_failed", slog.String("kind", kind), slog.String("error", err.Error()))
	}
}

// NopSink discards all entries. Used when auditing is disabled.
type NopSink struct{}

func (NopSink) Record(kind, prompt, response string) {}

// Package output provides the file writers injected into the plugin
// runner. Writes are plain overwrites; there is no partial-write recovery.
package output

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/imports"
)

// DirWriter persists files under a root directory, creating parent
// directories as needed.
type DirWriter struct {
	Root string
}

// NewDirWriter returns a writer rooted at dir.
func NewDirWriter(dir string) *DirWriter { return &DirWriter{Root: dir} }

// WriteFile writes content to path relative to the root, overwriting any
// existing file.
func (w *DirWriter) WriteFile(path string, content []byte) error {
	target := filepath.Join(w.Root, path)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Formatting wraps another writer and pipes Go sources through the
// goimports formatter before persisting. Formatting failures are logged and
// the unformatted source written anyway, so a rendering bug stays
// inspectable on disk.
type Formatting struct {
	Next interface {
		WriteFile(path string, content []byte) error
	}
}

// NewFormatting returns a formatting writer delegating to next.
func NewFormatting(next *DirWriter) *Formatting { return &Formatting{Next: next} }

// WriteFile formats .go payloads and delegates everything else untouched.
func (w *Formatting) WriteFile(path string, content []byte) error {
	if strings.HasSuffix(path, ".go") {
		formatted, err := imports.Process(path, content, nil)
		if err != nil {
			slog.Warn("formatting generated source failed, writing as-is", "path", path, "error", err)
		} else {
			content = formatted
		}
	}
	return w.Next.WriteFile(path, content)
}

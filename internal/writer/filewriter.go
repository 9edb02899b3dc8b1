// Package writer exposes sinks for encoded codeplug images.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
)

// Sink receives a complete encoded image.
type Sink interface {
	WriteImage(buf []byte) error
}

// FileWriter writes image bytes to a filesystem path atomically.
type FileWriter struct {
	Path string
	Mode os.FileMode // Default: 0o644
}

// WriteImage writes buf to the configured path via temp file + rename, so a
// failed write never leaves a half-written image behind.
func (w *FileWriter) WriteImage(buf []byte) error {
	dir := filepath.Dir(w.Path)
	tmpFile, err := os.CreateTemp(dir, ".cpctl-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(buf); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := syncData(tmpFile); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	mode := w.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err := tmpFile.Chmod(mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	tmpFile = nil

	if err := os.Rename(tmpPath, w.Path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

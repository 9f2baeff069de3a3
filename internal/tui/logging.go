package tui

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// OpenLogger opens the file logger at path, creating its directory. When the
// file cannot be opened the returned logger discards output and the error is
// reported to the caller; the closer is always safe to call.
func OpenLogger(path string) (*log.Logger, io.Closer, error) {
	discard := log.New(io.Discard, "", 0)
	if path == "" {
		return discard, nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return discard, nopCloser{}, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return discard, nopCloser{}, err
	}
	return log.New(f, "[mailassist] ", log.LstdFlags|log.Lmicroseconds), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

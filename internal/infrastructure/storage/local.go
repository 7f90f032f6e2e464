package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// MarkdownContentType is the media type of exported documents
const MarkdownContentType = "text/markdown; charset=utf-8"

// LocalSink writes exported documents into a directory
type LocalSink struct {
	dir string
}

// NewLocalSink creates the directory if needed
func NewLocalSink(dir string) (*LocalSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export dir: %w", err)
	}
	return &LocalSink{dir: dir}, nil
}

// Publish writes the document atomically and returns its path.
// Re-publishing the same name replaces the previous file.
func (l *LocalSink) Publish(ctx context.Context, name string, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid export name %q", name)
	}

	tmp, err := os.CreateTemp(l.dir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}

	dst := filepath.Join(l.dir, name)
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("failed to move export into place: %w", err)
	}
	return dst, nil
}

// Ping checks the directory is still there
func (l *LocalSink) Ping(ctx context.Context) error {
	st, err := os.Stat(l.dir)
	if err != nil {
		return err
	}
	if !st.IsDir() {
		return fmt.Errorf("%s is not a directory", l.dir)
	}
	return nil
}

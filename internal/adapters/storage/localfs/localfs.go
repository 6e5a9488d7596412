// Package localfs stores submission attachments and generated documents on
// the local filesystem under a configured root directory.
package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	portstorage "github.com/ridgelinefuels/fuel_credit_app/internal/core/ports/storage"
)

// Store is a FileStore backed by a directory tree.
type Store struct {
	root string
}

// New creates the root directory if needed and returns a Store.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root cannot be empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root %s: %w", root, err)
	}
	return &Store{root: root}, nil
}

var _ portstorage.FileStore = (*Store)(nil)

// resolve maps a key or stored path to an absolute location inside root,
// rejecting traversal outside it.
func (s *Store) resolve(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	full := filepath.Join(s.root, filepath.FromSlash(key))
	if !strings.HasPrefix(full, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return full, nil
}

// Save implements FileStore.
func (s *Store) Save(ctx context.Context, key string, content io.Reader) (string, int64, error) {
	full, err := s.resolve(key)
	if err != nil {
		return "", 0, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create directory for %s: %w", key, err)
	}
	f, err := os.Create(full)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file %s: %w", key, err)
	}
	n, err := io.Copy(f, content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(full)
		return "", 0, fmt.Errorf("failed to write file %s: %w", key, err)
	}
	rel, err := filepath.Rel(s.root, full)
	if err != nil {
		return "", 0, err
	}
	return filepath.ToSlash(rel), n, nil
}

// Open implements FileStore.
func (s *Store) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("failed to open stored file %s: %w", path, err)
	}
	return f, nil
}

// Delete implements FileStore.
func (s *Store) Delete(ctx context.Context, path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete stored file %s: %w", path, err)
	}
	return nil
}

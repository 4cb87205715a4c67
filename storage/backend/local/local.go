package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/indieinfra/mediavault/config"
	"github.com/indieinfra/mediavault/storage/backend"
	storageutil "github.com/indieinfra/mediavault/storage/util"
)

// Store writes uploaded media to a local directory. Refs are relative file
// paths beneath the base directory, using forward slashes.
type Store struct {
	basePath  string
	publicURL string
	pattern   *storageutil.KeyPattern
}

// NewLocalStore creates a filesystem-backed store rooted at the configured path.
func NewLocalStore(cfg *config.LocalStorageStrategy, pattern *storageutil.KeyPattern) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("local storage config is nil")
	}

	if err := os.MkdirAll(cfg.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	if pattern == nil {
		pattern = storageutil.DefaultKeyPattern()
	}

	return &Store{
		basePath:  cfg.Path,
		publicURL: storageutil.NormalizeBaseURL(cfg.PublicUrl),
		pattern:   pattern,
	}, nil
}

// Put saves the upload beneath the base directory. A partially written file
// is removed before the error is returned, so a failed Put leaves no
// residual artifact.
func (s *Store) Put(ctx context.Context, up *backend.Upload) (*backend.Artifact, error) {
	if up == nil || up.Body == nil {
		return nil, fmt.Errorf("upload body is required")
	}

	key, err := s.pattern.Generate(up.Filename, up.ContentType, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	absPath := filepath.Join(s.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	outFile, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(outFile, up.Body); err != nil {
		outFile.Close()
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	if err := outFile.Close(); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("failed to finish writing file: %w", err)
	}

	if err := ctx.Err(); err != nil {
		_ = os.Remove(absPath)
		return nil, err
	}

	return &backend.Artifact{Ref: key, Location: s.publicURL + key}, nil
}

// Remove deletes the file the ref points at. A missing file is success.
func (s *Store) Remove(ctx context.Context, ref string) error {
	relPath := filepath.FromSlash(ref)
	if strings.Contains(relPath, "..") {
		return fmt.Errorf("ref %q escapes the media directory", ref)
	}

	absPath := filepath.Join(s.basePath, relPath)

	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat file: %w", err)
	}

	if err := os.Remove(absPath); err != nil {
		return fmt.Errorf("failed to remove file: %w", err)
	}

	return nil
}

func (s *Store) ResolveURL(location string) string {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return location
	}

	return s.publicURL + strings.TrimPrefix(location, "/")
}

func (s *Store) Kind() string {
	return "local"
}

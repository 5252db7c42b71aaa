// Package media stores uploaded files below a root directory and builds
// their public URLs.
package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/deppfellow/recipe-catalog/internal/lib/imagefield"
)

// PhotoDir is the directory, relative to the media root, recipe photos are
// written to.
const PhotoDir = "photos"

// ErrInvalidPath is returned for paths that escape the media root.
var ErrInvalidPath = errors.New("media: invalid path")

// Storage persists files and resolves their public URLs.
//
// Paths are always relative, slash separated, and never start with "/".
type Storage interface {
	Save(ctx context.Context, dir string, file *imagefield.File) (string, error)
	Delete(ctx context.Context, name string) error
	URL(name string) string
}

// FileSystem is a Storage backed by a local directory.
type FileSystem struct {
	root    string
	baseURL string
}

// NewFileSystem creates the root directory if needed.
func NewFileSystem(root, baseURL string) (*FileSystem, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media root %q: %w", root, err)
	}
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &FileSystem{root: root, baseURL: baseURL}, nil
}

// Root returns the directory files are stored under.
func (s *FileSystem) Root() string {
	return s.root
}

// Save writes file to dir and returns its relative path. An existing file
// with the same name is never overwritten; a random suffix is added instead.
func (s *FileSystem) Save(ctx context.Context, dir string, file *imagefield.File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if file == nil || file.Name == "" {
		return "", imagefield.ErrInvalidImage
	}

	rel := path.Join(dir, path.Base(file.Name))
	target, err := s.resolve(rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	for {
		f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			rel = withSuffix(rel)
			if target, err = s.resolve(rel); err != nil {
				return "", err
			}
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create media file: %w", err)
		}

		_, writeErr := f.Write(file.Content)
		closeErr := f.Close()
		if writeErr != nil || closeErr != nil {
			_ = os.Remove(target)
			return "", fmt.Errorf("failed to write media file: %w", errors.Join(writeErr, closeErr))
		}
		return rel, nil
	}
}

// Delete removes a stored file. Missing files are not an error.
func (s *FileSystem) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" {
		return nil
	}

	target, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete media file: %w", err)
	}
	return nil
}

// URL returns the public URL of a stored file, or "" for an empty path.
// Each path segment is escaped.
func (s *FileSystem) URL(name string) string {
	if name == "" {
		return ""
	}
	segments := strings.Split(strings.TrimPrefix(name, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return s.baseURL + strings.Join(segments, "/")
}

func (s *FileSystem) resolve(name string) (string, error) {
	clean := path.Clean("/" + filepath.ToSlash(name))
	if clean == "/" {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// withSuffix turns "photos/abc.jpg" into "photos/abc_1f2e3d4.jpg".
func withSuffix(name string) string {
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return base + "_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:7] + ext
}

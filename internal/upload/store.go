package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Store receives the bytes of accepted pictures. Pictures are staged under a
// temporary name and only take their destination name on Commit, so a
// submission that fails never touches pictures already in place.
type Store interface {
	// Create opens a staged picture for an accepted part.
	Create(ctx context.Context, d Descriptor) (Staged, error)
}

// Staged is a picture written under a temporary name. Close finishes the write.
type Staged interface {
	io.WriteCloser
	// Commit moves the picture to its destination name.
	Commit(ctx context.Context) error
	// Discard deletes the temporary copy. It is a no-op after Commit.
	Discard(ctx context.Context) error
	Descriptor() Descriptor
}

// FSStore writes pictures into the validator's directory.
type FSStore struct {
	baseDir string
}

func NewFSStore(baseDir string) (*FSStore, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("upload directory is required")
	}

	info, err := os.Stat(baseDir)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat upload directory: %w", err)
		}
		if err := os.MkdirAll(baseDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create upload directory: %w", err)
		}
	} else if !info.IsDir() {
		return nil, fmt.Errorf("upload path %s is not a directory", baseDir)
	}

	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}
	return &FSStore{baseDir: abs}, nil
}

func (s *FSStore) target(d Descriptor) (string, error) {
	if d.Path == "" {
		return "", fmt.Errorf("no destination for %q", d.Filename)
	}

	cleanBase := filepath.Clean(s.baseDir)
	cleanPath := filepath.Clean(d.Path)
	if !strings.HasPrefix(cleanPath, cleanBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected")
	}
	return cleanPath, nil
}

func (s *FSStore) Create(_ context.Context, d Descriptor) (Staged, error) {
	path, err := s.target(d)
	if err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(s.baseDir, ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to stage %s: %w", d.Filename, err)
	}
	return &fsStaged{File: f, d: d, final: path}, nil
}

type fsStaged struct {
	*os.File
	d         Descriptor
	final     string
	committed bool
}

func (f *fsStaged) Descriptor() Descriptor {
	return f.d
}

func (f *fsStaged) Commit(_ context.Context) error {
	if err := os.Chmod(f.Name(), 0o640); err != nil {
		return err
	}
	if err := os.Rename(f.Name(), f.final); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", f.d.Filename, err)
	}
	f.committed = true
	uploadLogger.Debug().Str("path", f.final).Msg("Picture stored")
	return nil
}

func (f *fsStaged) Discard(_ context.Context) error {
	if f.committed {
		return nil
	}
	if err := os.Remove(f.Name()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

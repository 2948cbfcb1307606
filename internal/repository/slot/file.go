package slot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"capibara-storefront/internal/domain"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

type fileRepo struct {
	dir string
}

// NewFile stores each key as <dir>/<key>.json.
func NewFile(dir string) (Repository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create slot dir: %w", err)
	}
	return &fileRepo{dir: dir}, nil
}

func (r *fileRepo) Get(_ context.Context, key string) ([]byte, error) {
	path, err := r.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (r *fileRepo) Put(_ context.Context, key string, value []byte) error {
	path, err := r.path(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(r.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (r *fileRepo) Delete(_ context.Context, key string) error {
	path, err := r.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (r *fileRepo) Ping(_ context.Context) error {
	info, err := os.Stat(r.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("slot dir %s is not a directory", r.dir)
	}
	return nil
}

func (r *fileRepo) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("%w: slot key %q", domain.ErrInvalidInput, key)
	}
	return filepath.Join(r.dir, key+".json"), nil
}

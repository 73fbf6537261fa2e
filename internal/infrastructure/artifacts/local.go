package artifacts

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mofml/ffpgen/pkg/errors"
)

// localStore serves artifacts from a directory tree.  Object names map to
// file paths under the root.
type localStore struct {
	root string
}

// NewLocalStore returns a Store rooted at dir.  The directory must exist.
func NewLocalStore(dir string) (Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "artifact directory unavailable")
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrCodeStorageError, "artifact path %q is not a directory", dir)
	}
	return &localStore{root: dir}, nil
}

// resolve maps an object name to a path under the root, rejecting names
// that would escape it.
func (s *localStore) resolve(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", errors.Newf(errors.ErrCodeValidation, "invalid artifact name %q", name)
	}
	return filepath.Join(s.root, clean), nil
}

func (s *localStore) Fetch(_ context.Context, name string) (io.ReadCloser, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrCodeArtifactNotFound, "artifact %q not found", name)
		}
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to open artifact "+name)
	}
	return f, nil
}

func (s *localStore) Exists(_ context.Context, name string) (bool, error) {
	path, err := s.resolve(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrap(err, errors.ErrCodeStorageError, "failed to stat artifact "+name)
}

func (s *localStore) Close() error { return nil }

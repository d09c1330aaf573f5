package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

var ErrOutsideRoot = errors.New("upload path escapes root")

// DiskStore writes uploads under root, partitioned as <category>/<kind>/<name>.
type DiskStore struct {
	fs   afero.Fs
	root string
}

func NewDiskStore(fs afero.Fs, root string) *DiskStore {
	return &DiskStore{fs: fs, root: root}
}

// Save streams r into the partitioned path and returns that path and the
// number of bytes written. A partial file is removed on failure.
func (s *DiskStore) Save(ctx context.Context, category, kind, name string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	dir := filepath.Join(s.root, category, kind)
	if !within(s.root, dir) {
		return "", 0, fmt.Errorf("%w: %s/%s", ErrOutsideRoot, category, kind)
	}
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, filepath.Base(name))
	f, err := s.fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("open %s: %w", path, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = s.fs.Remove(path)
		return "", 0, fmt.Errorf("write %s: %w", path, err)
	}
	return path, n, nil
}

func within(root, dir string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), dir)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

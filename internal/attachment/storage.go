package attachment

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DiskStorage writes attachment payloads under a flat directory. Stored
// names are caller-supplied random identifiers, so the original filename
// never touches the filesystem.
type DiskStorage struct {
	dir string
}

func NewDiskStorage(dir string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStorage{dir: dir}, nil
}

func (s *DiskStorage) path(storedName string) string {
	return filepath.Join(s.dir, filepath.Base(storedName))
}

func (s *DiskStorage) Save(storedName string, r io.Reader) (int64, error) {
	f, err := os.Create(s.path(storedName))
	if err != nil {
		return 0, fmt.Errorf("create attachment file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		os.Remove(f.Name())
		return 0, fmt.Errorf("write attachment file: %w", err)
	}
	return n, nil
}

func (s *DiskStorage) Open(storedName string) (io.ReadCloser, error) {
	return os.Open(s.path(storedName))
}

func (s *DiskStorage) Remove(storedName string) error {
	return os.Remove(s.path(storedName))
}

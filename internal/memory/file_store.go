package memory

import (
	"context"
	"fmt"

	"github.com/easeaico/kb-chatbot/internal/knowledge"
	"github.com/spf13/afero"
)

// FileStore implements the Store interface on a single INI file.
type FileStore struct {
	fs   afero.Fs
	path string
}

// NewFileStore creates a FileStore for path on fs.
func NewFileStore(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

// Load reads the file into kb. A malformed header stops the read; pairs read
// before it stay in kb and their count is returned with the error.
func (s *FileStore) Load(ctx context.Context, kb *knowledge.Base) (int, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer f.Close()

	n, err := knowledge.Read(f, kb)
	if err != nil {
		return n, fmt.Errorf("failed to load %s: %w", s.path, err)
	}
	return n, nil
}

// Save writes kb to a temporary file next to the target and renames it into
// place, so a failed write never truncates an existing snapshot.
func (s *FileStore) Save(ctx context.Context, kb *knowledge.Base) error {
	tmp := s.path + ".tmp"
	f, err := s.fs.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}

	if err := knowledge.Write(f, kb); err != nil {
		f.Close()
		s.fs.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		s.fs.Remove(tmp)
		return fmt.Errorf("failed to close %s: %w", tmp, err)
	}

	if err := s.fs.Rename(tmp, s.path); err != nil {
		s.fs.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op; the file is only held open during Load and Save.
func (s *FileStore) Close() error {
	return nil
}

var _ Store = (*FileStore)(nil)

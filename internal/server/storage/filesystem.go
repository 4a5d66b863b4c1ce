package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var (
	ErrBlobNotFound = errors.New("blob not found")
)

// Store defines the interface for blob storage backends.
// Blobs are keyed by the stored filename derived at upload time.
type Store interface {
	Save(storedName string, data io.Reader) (int64, error)
	Read(storedName string) ([]byte, error)
	Delete(storedName string) error
	EnsureDir() error
}

// FileSystemStore keeps blobs as plain files on the local filesystem.
type FileSystemStore struct {
	basePath string
}

// NewFileSystemStore creates a new filesystem blob store.
func NewFileSystemStore(basePath string) *FileSystemStore {
	return &FileSystemStore{basePath: basePath}
}

// EnsureDir creates the blob directory if it doesn't exist.
func (fs *FileSystemStore) EnsureDir() error {
	if err := os.MkdirAll(fs.basePath, 0755); err != nil {
		return fmt.Errorf("failed to create blob directory %s: %w", fs.basePath, err)
	}
	return nil
}

// Save writes data from a reader to a file under the stored name.
// Returns the number of bytes written.
func (fs *FileSystemStore) Save(storedName string, data io.Reader) (int64, error) {
	blobPath := fs.blobPath(storedName)

	file, err := os.Create(blobPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create blob %s: %w", blobPath, err)
	}
	defer file.Close()

	n, err := io.Copy(file, data)
	if err != nil {
		// Clean up partial file on error
		os.Remove(blobPath)
		return 0, fmt.Errorf("failed to write blob: %w", err)
	}

	return n, nil
}

// Read returns the full byte content of a stored blob.
func (fs *FileSystemStore) Read(storedName string) ([]byte, error) {
	data, err := os.ReadFile(fs.blobPath(storedName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", storedName, err)
	}
	return data, nil
}

// Delete removes a stored blob. No error if it is already gone.
func (fs *FileSystemStore) Delete(storedName string) error {
	blobPath := fs.blobPath(storedName)
	if err := os.Remove(blobPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob %s: %w", blobPath, err)
	}
	return nil
}

func (fs *FileSystemStore) blobPath(storedName string) string {
	// Stored names are derived server-side from the file ID plus a
	// sanitized original name; Base is a backstop against traversal.
	return filepath.Join(fs.basePath, filepath.Base(storedName))
}

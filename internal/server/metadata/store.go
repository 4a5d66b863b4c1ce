package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("file record not found")
)

// Store is the metadata persistence interface. Absence is a normal outcome
// and is reported as ErrNotFound, never as a wrapped I/O error.
type Store interface {
	// Put persists a record, overwriting any existing record with the same ID.
	Put(ctx context.Context, rec *FileRecord) error
	// GetByID returns the record with the given internal ID.
	GetByID(ctx context.Context, id string) (*FileRecord, error)
	// GetByShareID scans all records for one with a matching share ID.
	// O(n) in record count; acceptable at the expected scale.
	GetByShareID(ctx context.Context, shareID string) (*FileRecord, error)
	// ListAll returns every live record, lazily deleting expired ones.
	// Side-effecting read: expired records are purged here, not by any
	// background process.
	ListAll(ctx context.Context) ([]*FileRecord, error)
	// Delete removes a record. Reports whether anything was removed.
	Delete(ctx context.Context, id string) (bool, error)
}

// FileStore persists records as one JSON file per record ({id}.json)
// under a single directory. There is no index; share-ID lookup is a
// full directory scan.
type FileStore struct {
	dir string
	now func() time.Time
}

// NewFileStore creates a flat-file metadata store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, now: time.Now}
}

// EnsureDir creates the metadata directory if it doesn't exist.
func (s *FileStore) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create metadata directory %s: %w", s.dir, err)
	}
	return nil
}

// Put writes the record as indented JSON to {id}.json.
func (s *FileStore) Put(ctx context.Context, rec *FileRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record %s: %w", rec.ID, err)
	}
	if err := os.WriteFile(s.recordPath(rec.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write record %s: %w", rec.ID, err)
	}
	return nil
}

// GetByID reads and decodes {id}.json.
func (s *FileStore) GetByID(ctx context.Context, id string) (*FileRecord, error) {
	data, err := os.ReadFile(s.recordPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read record %s: %w", id, err)
	}

	rec := &FileRecord{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("failed to decode record %s: %w", id, err)
	}
	return rec, nil
}

// GetByShareID scans every record file for a matching share ID.
func (s *FileStore) GetByShareID(ctx context.Context, shareID string) (*FileRecord, error) {
	ids, err := s.recordIDs()
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		rec, err := s.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// Deleted between listing and read
				continue
			}
			return nil, err
		}
		if rec.ShareID == shareID {
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

// ListAll scans every record, deleting expired ones as it goes and
// returning the rest.
func (s *FileStore) ListAll(ctx context.Context) ([]*FileRecord, error) {
	ids, err := s.recordIDs()
	if err != nil {
		return nil, err
	}

	now := s.now()
	records := make([]*FileRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := s.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		if now.After(rec.ExpiresAt) {
			if _, err := s.Delete(ctx, rec.ID); err != nil {
				return nil, err
			}
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Delete removes {id}.json. Reports false without error when the record
// was already gone.
func (s *FileStore) Delete(ctx context.Context, id string) (bool, error) {
	err := os.Remove(s.recordPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete record %s: %w", id, err)
	}
	return true, nil
}

func (s *FileStore) recordPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) recordIDs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan metadata directory: %w", err)
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"filedrop/internal/server/config"
	"filedrop/internal/server/filetype"
	"filedrop/internal/server/lifecycle"
	"filedrop/internal/server/metadata"
	"filedrop/internal/server/storage"
)

// Sentinel errors for the service layer.
var (
	ErrNotFound         = errors.New("file not found")
	ErrGone             = errors.New("file expired or download limit exceeded")
	ErrPasswordRequired = errors.New("password required")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrFileTooLarge     = errors.New("file exceeds maximum allowed size")
	ErrUnsupportedType  = errors.New("file type not supported")
)

// ShareLink describes the public link returned after an upload.
type ShareLink struct {
	URL                 string    `json:"url"`
	ShareID             string    `json:"shareId"`
	ExpiresAt           time.Time `json:"expiresAt"`
	IsPasswordProtected bool      `json:"isPasswordProtected"`
}

// UploadInput carries one incoming file.
type UploadInput struct {
	Filename      string
	MimeType      string
	Data          io.Reader
	Size          int64
	RetentionDays int    // 0 means the configured default
	Password      string // empty means no protection
	MaxDownloads  int    // 0 means unlimited
}

// UploadResult is returned after a successful upload.
type UploadResult struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Type      string    `json:"type"`
	ShareLink ShareLink `json:"shareLink"`
}

// DownloadResult carries the resolved file for the caller to stream.
type DownloadResult struct {
	Data     []byte
	Filename string
	MimeType string
	Size     int64
}

// Stats holds aggregate numbers over the live records.
type Stats struct {
	ActiveFiles    int   `json:"active_files"`
	TotalDownloads int64 `json:"total_downloads"`
	StorageUsed    int64 `json:"storage_used_bytes"`
}

// FileService contains the business logic for the file lifecycle.
type FileService struct {
	store metadata.Store
	blobs storage.Store
	cfg   *config.Config
	now   func() time.Time
}

// NewFileService creates a new file service.
func NewFileService(store metadata.Store, blobs storage.Store, cfg *config.Config) *FileService {
	return &FileService{
		store: store,
		blobs: blobs,
		cfg:   cfg,
		now:   time.Now,
	}
}

// Upload validates the incoming file, persists blob and metadata, and
// returns the share descriptor.
func (s *FileService) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	// 1. Size limit, checked against the declared size up front and the
	//    actual byte count after reading.
	if in.Size > s.cfg.MaxFileSize {
		return nil, ErrFileTooLarge
	}

	// 2. MIME allow-list
	if !filetype.IsAllowed(in.MimeType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, in.MimeType)
	}

	// 3. Independent random identifiers. No uniqueness check against
	//    existing records; collision probability is negligible at
	//    128/160 bits.
	fileID, err := newFileID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate file ID: %w", err)
	}
	shareID, err := newShareID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate share ID: %w", err)
	}

	var buf bytes.Buffer
	size, err := io.Copy(&buf, io.LimitReader(in.Data, s.cfg.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload data: %w", err)
	}
	if size > s.cfg.MaxFileSize {
		return nil, ErrFileTooLarge
	}

	// 4. Blob under a name derived from the ID plus the original name:
	//    collision-safe but still recognizable on disk.
	storedName := fileID + "_" + sanitizeFilename(in.Filename)
	if _, err := s.blobs.Save(storedName, &buf); err != nil {
		return nil, fmt.Errorf("failed to store blob: %w", err)
	}

	// 5. Metadata record
	retention := in.RetentionDays
	if retention <= 0 {
		retention = s.cfg.DefaultRetentionDays
	}

	now := s.now().UTC()
	rec := &metadata.FileRecord{
		ID:            fileID,
		ShareID:       shareID,
		OriginalName:  sanitizeFilename(in.Filename),
		StoredName:    storedName,
		Size:          size,
		MimeType:      in.MimeType,
		UploadedAt:    now,
		ExpiresAt:     lifecycle.ExpiresAfter(now, retention),
		DownloadCount: 0,
	}
	if in.Password != "" {
		hash := lifecycle.HashPassword(in.Password)
		rec.PasswordHash = &hash
	}
	if in.MaxDownloads > 0 {
		limit := in.MaxDownloads
		rec.MaxDownloads = &limit
	}

	if err := s.store.Put(ctx, rec); err != nil {
		// No rollback: the blob stays orphaned and surfaces as NotFound
		// on its next access.
		slog.Error("metadata write failed after blob write", "id", fileID, "error", err)
		return nil, fmt.Errorf("failed to persist file record: %w", err)
	}

	slog.Info("upload processed",
		"id", fileID,
		"share_id", shareID,
		"filename", rec.OriginalName,
		"size", size,
		"mime_type", rec.MimeType,
		"expires_at", rec.ExpiresAt,
		"protected", rec.PasswordHash != nil,
	)

	return &UploadResult{
		ID:   fileID,
		Name: rec.OriginalName,
		Size: size,
		Type: rec.MimeType,
		ShareLink: ShareLink{
			URL:                 lifecycle.ShareURL(s.cfg.BaseURL, shareID),
			ShareID:             shareID,
			ExpiresAt:           rec.ExpiresAt,
			IsPasswordProtected: rec.PasswordHash != nil,
		},
	}, nil
}

// Download resolves a file by share ID or file ID, enforces the lifecycle
// policy and password, reads the blob, and increments the counter.
func (s *FileService) Download(ctx context.Context, identifier, password string) (*DownloadResult, error) {
	rec, err := s.resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if !lifecycle.IsDownloadable(rec, s.now()) {
		return nil, ErrGone
	}

	if rec.PasswordHash != nil {
		if password == "" {
			return nil, ErrPasswordRequired
		}
		if !lifecycle.VerifyPassword(password, *rec.PasswordHash) {
			return nil, ErrInvalidPassword
		}
	}

	data, err := s.blobs.Read(rec.StoredName)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			slog.Error("blob missing for live record", "id", rec.ID, "stored_name", rec.StoredName)
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Check-then-increment is not atomic; concurrent downloads may
	// overrun a cap by a small margin. Accepted.
	rec.DownloadCount++
	if err := s.store.Put(ctx, rec); err != nil {
		slog.Error("failed to persist download count", "id", rec.ID, "error", err)
	}

	return &DownloadResult{
		Data:     data,
		Filename: rec.OriginalName,
		MimeType: rec.MimeType,
		Size:     rec.Size,
	}, nil
}

// Info returns the display-safe metadata for one file without reading
// the blob. Same dual-key lookup and lifecycle gate as Download.
func (s *FileService) Info(ctx context.Context, identifier string) (*metadata.FileMetadata, error) {
	rec, err := s.resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if !lifecycle.IsDownloadable(rec, s.now()) {
		return nil, ErrGone
	}
	return rec.Metadata(), nil
}

// ShareURLFor resolves a share ID to its public URL.
func (s *FileService) ShareURLFor(ctx context.Context, shareID string) (string, error) {
	rec, err := s.store.GetByShareID(ctx, shareID)
	if err != nil {
		if errors.Is(err, metadata.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return lifecycle.ShareURL(s.cfg.BaseURL, rec.ShareID), nil
}

// Delete removes a file's blob and metadata, in that order. A crash in
// between leaves orphaned metadata that surfaces as NotFound later.
func (s *FileService) Delete(ctx context.Context, id string) error {
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, metadata.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.blobs.Delete(rec.StoredName); err != nil {
		slog.Error("failed to delete blob", "id", id, "error", err)
		// Continue with the metadata deletion regardless.
	}

	if _, err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	slog.Info("file deleted", "id", id, "filename", rec.OriginalName)
	return nil
}

// List returns the display-safe view of every live record, newest first.
// Expired records found during the scan are purged by the store.
func (s *FileService) List(ctx context.Context) ([]*metadata.FileMetadata, error) {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].UploadedAt.After(records[j].UploadedAt)
	})

	out := make([]*metadata.FileMetadata, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Metadata())
	}
	return out, nil
}

// GetStats aggregates over the live records.
func (s *FileService) GetStats(ctx context.Context) (*Stats, error) {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{ActiveFiles: len(records)}
	for _, rec := range records {
		stats.TotalDownloads += int64(rec.DownloadCount)
		stats.StorageUsed += rec.Size
	}
	return stats, nil
}

// resolve tries the identifier as a share ID first, then as a file ID.
// Public links carry share IDs; the management surface reuses the same
// endpoints with internal IDs.
func (s *FileService) resolve(ctx context.Context, identifier string) (*metadata.FileRecord, error) {
	rec, err := s.store.GetByShareID(ctx, identifier)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, metadata.ErrNotFound) {
		return nil, err
	}

	rec, err = s.store.GetByID(ctx, identifier)
	if err != nil {
		if errors.Is(err, metadata.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// --- Helpers ---

// newFileID returns 16 random bytes, hex-encoded.
func newFileID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("crypto/rand failure: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// newShareID returns 20 random bytes, URL-safe base64 without padding.
// A separate namespace from file IDs so share links never leak them.
func newShareID() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("crypto/rand failure: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// sanitizeFilename strips directory components and limits length.
func sanitizeFilename(name string) string {
	// Normalize Windows-style backslashes before calling filepath.Base,
	// which is platform-specific.
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)

	if len(name) > 255 {
		ext := filepath.Ext(name)
		name = name[:255-len(ext)] + ext
	}

	if name == "" || name == "." || name == "/" {
		name = "upload.bin"
	}

	return name
}

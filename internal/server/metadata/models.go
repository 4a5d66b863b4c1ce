package metadata

import (
	"strings"
	"time"
)

// FileRecord is the durable metadata for one uploaded file.
// It is persisted as a single JSON document keyed by ID.
type FileRecord struct {
	ID            string    `json:"id"`
	ShareID       string    `json:"shareId"`
	OriginalName  string    `json:"originalName"`
	StoredName    string    `json:"storedName"`
	Size          int64     `json:"size"`
	MimeType      string    `json:"mimeType"`
	UploadedAt    time.Time `json:"uploadedAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
	PasswordHash  *string   `json:"passwordHash,omitempty"` // nil when no password set
	DownloadCount int       `json:"downloadCount"`
	MaxDownloads  *int      `json:"maxDownloads,omitempty"` // nil means unlimited
}

// FileMetadata is the display-safe view of a record: no password hash,
// no internal stored filename.
type FileMetadata struct {
	ID                  string    `json:"id"`
	OriginalName        string    `json:"originalName"`
	Size                int64     `json:"size"`
	MimeType            string    `json:"mimeType"`
	UploadedAt          time.Time `json:"uploadedAt"`
	ExpiresAt           time.Time `json:"expiresAt"`
	IsPasswordProtected bool      `json:"isPasswordProtected"`
	DownloadCount       int       `json:"downloadCount"`
	IsImage             bool      `json:"isImage"`
}

// Metadata returns the display-safe view of the record.
func (r *FileRecord) Metadata() *FileMetadata {
	return &FileMetadata{
		ID:                  r.ID,
		OriginalName:        r.OriginalName,
		Size:                r.Size,
		MimeType:            r.MimeType,
		UploadedAt:          r.UploadedAt,
		ExpiresAt:           r.ExpiresAt,
		IsPasswordProtected: r.PasswordHash != nil,
		DownloadCount:       r.DownloadCount,
		IsImage:             strings.HasPrefix(r.MimeType, "image/"),
	}
}

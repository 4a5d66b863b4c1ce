// Package lifecycle holds the pure policy functions governing when an
// uploaded file may still be downloaded, and how share passwords are
// hashed and verified. No I/O happens here.
package lifecycle

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"filedrop/internal/server/metadata"
)

// IsExpired reports whether the record's retention window has passed.
func IsExpired(rec *metadata.FileRecord, now time.Time) bool {
	return now.After(rec.ExpiresAt)
}

// IsDownloadable reports whether the record is eligible for download:
// not expired and, when a download cap is set, still under it.
func IsDownloadable(rec *metadata.FileRecord, now time.Time) bool {
	if IsExpired(rec, now) {
		return false
	}
	if rec.MaxDownloads != nil && rec.DownloadCount >= *rec.MaxDownloads {
		return false
	}
	return true
}

// ExpiresAfter computes the expiration timestamp for an upload happening
// at now with the given retention in days.
func ExpiresAfter(now time.Time, retentionDays int) time.Time {
	return now.AddDate(0, 0, retentionDays)
}

// HashPassword returns the hex-encoded SHA-256 digest of the plaintext.
// Deterministic so verification is a direct digest comparison.
func HashPassword(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword reports whether the plaintext hashes to the stored digest.
func VerifyPassword(plaintext, storedHash string) bool {
	return HashPassword(plaintext) == storedHash
}

// ShareURL builds the public share link for a share ID.
func ShareURL(baseURL, shareID string) string {
	return fmt.Sprintf("%s/shared/%s", baseURL, shareID)
}

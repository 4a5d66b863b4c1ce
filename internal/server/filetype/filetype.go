// Package filetype defines the MIME type allow-list for uploads.
package filetype

import "strings"

// allowedTypes maps each accepted MIME type to its usual file extensions.
var allowedTypes = map[string][]string{
	// Images
	"image/jpeg":    {".jpg", ".jpeg"},
	"image/png":     {".png"},
	"image/gif":     {".gif"},
	"image/webp":    {".webp"},
	"image/svg+xml": {".svg"},

	// Documents
	"application/pdf":    {".pdf"},
	"application/msword": {".doc"},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {".docx"},
	"application/vnd.ms-excel": {".xls"},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {".xlsx"},
	"application/vnd.ms-powerpoint":                                     {".ppt"},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {".pptx"},

	// Text
	"text/plain":       {".txt"},
	"text/csv":         {".csv"},
	"application/json": {".json"},
	"text/markdown":    {".md"},

	// Archives
	"application/zip":              {".zip"},
	"application/x-rar-compressed": {".rar"},
	"application/x-7z-compressed":  {".7z"},

	// Audio
	"audio/mpeg": {".mp3"},
	"audio/wav":  {".wav"},
	"audio/ogg":  {".ogg"},

	// Video
	"video/mp4":       {".mp4"},
	"video/mpeg":      {".mpeg"},
	"video/quicktime": {".mov"},
	"video/x-msvideo": {".avi"},
}

// IsAllowed reports whether the MIME type is on the upload allow-list.
func IsAllowed(mimeType string) bool {
	_, ok := allowedTypes[mimeType]
	return ok
}

// IsImage reports whether the MIME type is an image type.
func IsImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

// Extensions returns the known extensions for an allowed MIME type.
func Extensions(mimeType string) []string {
	return allowedTypes[mimeType]
}

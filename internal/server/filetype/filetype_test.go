package filetype

import "testing"

func TestIsAllowed(t *testing.T) {
	allowed := []string{
		"image/png",
		"image/svg+xml",
		"application/pdf",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"text/plain",
		"text/markdown",
		"application/zip",
		"application/x-7z-compressed",
		"audio/mpeg",
		"video/mp4",
	}
	for _, mt := range allowed {
		if !IsAllowed(mt) {
			t.Errorf("expected %s to be allowed", mt)
		}
	}

	blocked := []string{
		"application/x-executable",
		"application/octet-stream",
		"text/html",
		"application/x-sh",
		"",
	}
	for _, mt := range blocked {
		if IsAllowed(mt) {
			t.Errorf("expected %s to be blocked", mt)
		}
	}
}

func TestIsImage(t *testing.T) {
	if !IsImage("image/jpeg") {
		t.Error("expected image/jpeg to be an image")
	}
	if IsImage("video/mp4") {
		t.Error("expected video/mp4 not to be an image")
	}
}

func TestExtensions(t *testing.T) {
	exts := Extensions("image/jpeg")
	if len(exts) != 2 || exts[0] != ".jpg" || exts[1] != ".jpeg" {
		t.Errorf("unexpected extensions for image/jpeg: %v", exts)
	}

	if Extensions("application/x-executable") != nil {
		t.Error("expected nil extensions for a blocked type")
	}
}

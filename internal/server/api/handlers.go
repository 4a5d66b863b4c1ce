package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"filedrop/internal/server/service"

	"github.com/labstack/echo/v4"
	"github.com/skip2/go-qrcode"
)

// Handler contains the HTTP handlers for the filedrop API.
type Handler struct {
	svc *service.FileService
}

// NewHandler creates a new handler with the given service dependency.
func NewHandler(svc *service.FileService) *Handler {
	return &Handler{svc: svc}
}

// HandleUpload handles POST /api/upload.
// Accepts a multipart form with a "file" field and optional
// "expirationDays", "password", and "maxDownloads" fields.
func (h *Handler) HandleUpload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "file is required (use form field 'file')",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to read uploaded file",
		})
	}
	defer src.Close()

	retentionDays, _ := strconv.Atoi(c.FormValue("expirationDays"))
	maxDownloads, _ := strconv.Atoi(c.FormValue("maxDownloads"))

	result, err := h.svc.Upload(c.Request().Context(), service.UploadInput{
		Filename:      fileHeader.Filename,
		MimeType:      fileHeader.Header.Get("Content-Type"),
		Data:          src,
		Size:          fileHeader.Size,
		RetentionDays: retentionDays,
		Password:      c.FormValue("password"),
		MaxDownloads:  maxDownloads,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, result)
}

// HandleDownload handles GET /api/files/:id.
// The identifier is tried as a share ID first, then as a file ID.
// Accepts an optional "password" query param.
func (h *Handler) HandleDownload(c echo.Context) error {
	return h.serveFile(c, c.Param("id"))
}

// HandleShared handles GET /shared/:shareId, the share-link form of the
// download endpoint.
func (h *Handler) HandleShared(c echo.Context) error {
	return h.serveFile(c, c.Param("shareId"))
}

func (h *Handler) serveFile(c echo.Context, identifier string) error {
	password := c.QueryParam("password")

	result, err := h.svc.Download(c.Request().Context(), identifier, password)
	if err != nil {
		return mapServiceError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, result.Filename))
	c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(result.Size, 10))
	return c.Blob(http.StatusOK, result.MimeType, result.Data)
}

// HandleInfo handles GET /api/info/:id.
// Returns display-safe metadata without serving the file.
func (h *Handler) HandleInfo(c echo.Context) error {
	info, err := h.svc.Info(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, info)
}

// HandleList handles GET /api/files.
// Returns every non-expired record as display-safe metadata, newest first.
func (h *Handler) HandleList(c echo.Context) error {
	files, err := h.svc.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to list files",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"files": files})
}

// HandleDelete handles DELETE /api/files/:id.
func (h *Handler) HandleDelete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// HandleShareQR handles GET /shared/:shareId/qr.
// Returns a PNG QR code encoding the public share URL.
func (h *Handler) HandleShareQR(c echo.Context) error {
	url, err := h.svc.ShareURLFor(c.Request().Context(), c.Param("shareId"))
	if err != nil {
		return mapServiceError(c, err)
	}

	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to generate QR code",
		})
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

// HandleStats handles GET /api/stats.
func (h *Handler) HandleStats(c echo.Context) error {
	stats, err := h.svc.GetStats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to retrieve stats",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"active_files":       stats.ActiveFiles,
		"total_downloads":    stats.TotalDownloads,
		"storage_used_bytes": stats.StorageUsed,
		"storage_used_human": humanizeBytes(stats.StorageUsed),
	})
}

// HandleHealth handles GET /health.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "healthy"})
}

// mapServiceError translates service-layer errors into HTTP responses
// without leaking internal paths or details.
func mapServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "file not found"})
	case errors.Is(err, service.ErrGone):
		return c.JSON(http.StatusGone, echo.Map{"error": "file expired or download limit exceeded"})
	case errors.Is(err, service.ErrPasswordRequired):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "password required"})
	case errors.Is(err, service.ErrInvalidPassword):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid password"})
	case errors.Is(err, service.ErrFileTooLarge):
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{
			"error": "file exceeds maximum allowed size",
		})
	case errors.Is(err, service.ErrUnsupportedType):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file type not supported"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}

// humanizeBytes formats a byte count into a human-readable string.
func humanizeBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

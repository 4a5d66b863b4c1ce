// Package client is a small REST client for the filedrop API, used by
// the filedropctl admin tool.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"filedrop/internal/server/metadata"
)

// Client talks to a running filedrop server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given server base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Stats mirrors the /api/stats response.
type Stats struct {
	ActiveFiles      int    `json:"active_files"`
	TotalDownloads   int64  `json:"total_downloads"`
	StorageUsed      int64  `json:"storage_used_bytes"`
	StorageUsedHuman string `json:"storage_used_human"`
}

// List returns the display-safe metadata of every live file.
func (c *Client) List(ctx context.Context) ([]*metadata.FileMetadata, error) {
	var body struct {
		Files []*metadata.FileMetadata `json:"files"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/files", &body); err != nil {
		return nil, err
	}
	return body.Files, nil
}

// Info returns the metadata for one file by share ID or file ID.
func (c *Client) Info(ctx context.Context, identifier string) (*metadata.FileMetadata, error) {
	var info metadata.FileMetadata
	path := "/api/info/" + url.PathEscape(identifier)
	if err := c.doJSON(ctx, http.MethodGet, path, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Stats returns aggregate server statistics.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := c.doJSON(ctx, http.MethodGet, "/api/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Delete removes a file by its internal ID.
func (c *Client) Delete(ctx context.Context, id string) error {
	var body struct {
		Success bool `json:"success"`
	}
	path := "/api/files/" + url.PathEscape(id)
	return c.doJSON(ctx, http.MethodDelete, path, &body)
}

func (c *Client) doJSON(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Package drive resolves externally hosted photo files referenced from
// spreadsheet rows, via the Drive v3 files API.
package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Resolver implements photo.DriveResolver against the files endpoint of a
// Drive-compatible API.
type Resolver struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func New(baseURL, apiKey string) *Resolver {
	return &Resolver{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// ContentType fetches the file's metadata and returns its MIME type.
func (r *Resolver) ContentType(ctx context.Context, fileID string) (string, error) {
	var meta struct {
		MimeType string `json:"mimeType"`
	}
	if err := r.get(ctx, r.fileURL(fileID, "fields=mimeType"), func(body io.Reader) error {
		return json.NewDecoder(body).Decode(&meta)
	}); err != nil {
		return "", err
	}
	if meta.MimeType == "" {
		return "", fmt.Errorf("file %s has no mime type", fileID)
	}
	return meta.MimeType, nil
}

// Fetch downloads the file contents.
func (r *Resolver) Fetch(ctx context.Context, fileID string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.fileURL(fileID, "alt=media"), nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch file %s: %w", fileID, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch file %s: unexpected status %d", fileID, resp.StatusCode)
	}
	return resp.Body, nil
}

func (r *Resolver) get(ctx context.Context, rawURL string, decode func(io.Reader) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("drive request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("drive request: unexpected status %d", resp.StatusCode)
	}
	return decode(resp.Body)
}

func (r *Resolver) fileURL(fileID, query string) string {
	u := fmt.Sprintf("%s/files/%s?%s", r.baseURL, url.PathEscape(fileID), query)
	if r.apiKey != "" {
		u += "&key=" + url.QueryEscape(r.apiKey)
	}
	return u
}

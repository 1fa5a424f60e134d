package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/boutikpaw/storefront/internal/platform/id"
)

// HTTPConfig configures the bucket endpoint and HTTP behavior.
type HTTPConfig struct {
	// BaseURL is the storage API root, e.g. https://example.net/storage/v1.
	BaseURL string
	// Bucket is the public bucket name images live in.
	Bucket string
	// APIKey authorizes writes. Reads go through public URLs and need none.
	APIKey     string
	HTTPClient *http.Client
}

type httpStore struct {
	cfg HTTPConfig
}

// NewHTTPStore builds a Store backed by a bucket's REST endpoint.
func NewHTTPStore(cfg HTTPConfig) (Store, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &httpStore{cfg: cfg}, nil
}

func (s *httpStore) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if err := ValidateImage(contentType, len(data)); err != nil {
		return "", err
	}

	objectPath, err := s.objectPath(filename)
	if err != nil {
		return "", err
	}
	endpoint := fmt.Sprintf("%s/object/%s/%s", s.cfg.BaseURL, s.cfg.Bucket, objectPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	s.authorize(req)

	res, err := s.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, err := io.ReadAll(io.LimitReader(res.Body, 4096))
		if err != nil {
			return "", fmt.Errorf("read upload error body: %w", err)
		}
		return "", fmt.Errorf("upload request status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return s.publicURL(objectPath), nil
}

func (s *httpStore) Delete(ctx context.Context, publicURL string) error {
	objectPath, ok := s.objectFromPublicURL(publicURL)
	if !ok {
		return fmt.Errorf("%w: %s", ErrForeignURL, publicURL)
	}

	endpoint := fmt.Sprintf("%s/object/%s/%s", s.cfg.BaseURL, s.cfg.Bucket, objectPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}
	s.authorize(req)

	res, err := s.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	defer res.Body.Close()
	// A missing object is already in the desired state.
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, err := io.ReadAll(io.LimitReader(res.Body, 4096))
		if err != nil {
			return fmt.Errorf("read delete error body: %w", err)
		}
		return fmt.Errorf("delete request status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func (s *httpStore) authorize(req *http.Request) {
	if key := strings.TrimSpace(s.cfg.APIKey); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
}

// objectPath builds a unique object name, keeping the original extension so
// the bucket serves the right content type.
func (s *httpStore) objectPath(filename string) (string, error) {
	token, err := id.NewID()
	if err != nil {
		return "", fmt.Errorf("object name: %w", err)
	}
	ext := ""
	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext = strings.ToLower(filename[i:])
	}
	return token + ext, nil
}

func (s *httpStore) publicURL(objectPath string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", s.cfg.BaseURL, s.cfg.Bucket, objectPath)
}

// objectFromPublicURL extracts the object name from a public URL, refusing
// URLs that do not point into this store's bucket.
func (s *httpStore) objectFromPublicURL(publicURL string) (string, bool) {
	prefix := fmt.Sprintf("%s/object/public/%s/", s.cfg.BaseURL, s.cfg.Bucket)
	if !strings.HasPrefix(publicURL, prefix) {
		return "", false
	}
	objectPath := strings.TrimPrefix(publicURL, prefix)
	if objectPath == "" || strings.Contains(objectPath, "/") {
		return "", false
	}
	if _, err := url.Parse(publicURL); err != nil {
		return "", false
	}
	return objectPath, true
}

package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultDownloadBaseURL = "https://drive.google.com/uc"
	DefaultTimeout         = 10 * time.Second
	DefaultMaxRedirects    = 5
	DefaultMaxBytes        = 25 << 20
)

var ErrTooLarge = errors.New("file exceeds the configured size limit")

// Blob is a fully read file together with the content type reported upstream.
type Blob struct {
	ContentType string
	Data        []byte
}

// BlobStore retrieves Drive files by identifier.
type BlobStore interface {
	Fetch(ctx context.Context, fileID string) (*Blob, error)
}

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	FileID     string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching file %s: unexpected status %d", e.FileID, e.StatusCode)
}

// DownloadStore fetches files through the public direct-download endpoint.
type DownloadStore struct {
	client   *http.Client
	baseURL  string
	maxBytes int64
}

func NewDownloadStore(baseURL string, timeout time.Duration, maxRedirects int, maxBytes int64) *DownloadStore {
	if baseURL == "" {
		baseURL = DefaultDownloadBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxRedirects < 0 {
		maxRedirects = DefaultMaxRedirects
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &DownloadStore{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		baseURL:  baseURL,
		maxBytes: maxBytes,
	}
}

// DownloadURL builds the direct download URL for fileID.
func (s *DownloadStore) DownloadURL(fileID string) (string, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid download base url %q: %w", s.baseURL, err)
	}
	query := u.Query()
	query.Set("export", "download")
	query.Set("id", fileID)
	u.RawQuery = query.Encode()
	return u.String(), nil
}

func (s *DownloadStore) Fetch(ctx context.Context, fileID string) (*Blob, error) {
	target, err := s.DownloadURL(fileID)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for file %s: %w", fileID, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{FileID: fileID, StatusCode: resp.StatusCode}
	}

	data, err := readLimited(resp.Body, s.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	return &Blob{ContentType: resp.Header.Get("Content-Type"), Data: data}, nil
}

// readLimited reads r completely, failing with ErrTooLarge past maxBytes.
func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

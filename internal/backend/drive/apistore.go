package drive

import (
	"context"
	"fmt"
	"time"

	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// APIStore fetches files through the authenticated Drive v3 API.
type APIStore struct {
	service  *drivev3.Service
	timeout  time.Duration
	maxBytes int64
}

// NewAPIStore builds a Drive client from service-account credentials JSON.
// Additional client options (endpoint, http client) are appended as given.
func NewAPIStore(ctx context.Context, credentialsJSON []byte, timeout time.Duration, maxBytes int64, opts ...option.ClientOption) (*APIStore, error) {
	clientOptions := []option.ClientOption{}
	if len(credentialsJSON) > 0 {
		clientOptions = append(clientOptions,
			option.WithCredentialsJSON(credentialsJSON),
			option.WithScopes(drivev3.DriveReadonlyScope))
	}
	clientOptions = append(clientOptions, opts...)

	service, err := drivev3.NewService(ctx, clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &APIStore{service: service, timeout: timeout, maxBytes: maxBytes}, nil
}

func (s *APIStore) Fetch(ctx context.Context, fileID string) (*Blob, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.service.Files.Get(fileID).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s from drive api: %w", fileID, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := readLimited(resp.Body, s.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	return &Blob{ContentType: resp.Header.Get("Content-Type"), Data: data}, nil
}

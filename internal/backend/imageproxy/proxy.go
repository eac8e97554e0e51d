package imageproxy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jo-hoe/sheetgallery/internal/backend/drive"
	"github.com/jo-hoe/sheetgallery/internal/backend/metrics"
)

var ErrNotImage = errors.New("upstream returned an html page instead of a file")

// Image is a fetched file ready to be written to the client.
type Image struct {
	FileID      string
	ContentType string
	Data        []byte
	// Fallback is set when Data belongs to the default image rather than the requested file.
	Fallback bool
}

type Proxy struct {
	store drive.BlobStore
}

func NewProxy(store drive.BlobStore) *Proxy {
	return &Proxy{store: store}
}

// ResolveURL maps a requested URL to a Drive file id. Empty and non-Drive
// URLs resolve to the default image inside ExtractFileID.
func ResolveURL(rawURL string) string {
	return drive.ExtractFileID(rawURL)
}

// ResolveID validates a raw identifier, substituting the default image for anything malformed.
func ResolveID(fileID string) string {
	if !drive.IsValidFileID(fileID) {
		return drive.DefaultFileID
	}
	return fileID
}

// FetchURL resolves rawURL and fetches the file it points to.
func (p *Proxy) FetchURL(ctx context.Context, rawURL string) (*Image, error) {
	return p.Fetch(ctx, ResolveURL(rawURL))
}

// Fetch retrieves fileID, falling back once to the default image on failure.
// The returned image is always complete; on error nothing has been read for the caller.
func (p *Proxy) Fetch(ctx context.Context, fileID string) (*Image, error) {
	img, err := p.fetchOnce(ctx, fileID)
	if err == nil {
		metrics.RecordImageFetch(metrics.ResultOK, len(img.Data))
		return img, nil
	}
	slog.Warn("Proxy: failed to fetch image", "file_id", fileID, "error", err)

	if fileID == drive.DefaultFileID {
		metrics.RecordImageFetch(metrics.ResultFailed, 0)
		return nil, err
	}

	fallback, fallbackErr := p.fetchOnce(ctx, drive.DefaultFileID)
	if fallbackErr != nil {
		slog.Error("Proxy: failed to fetch default image",
			"file_id", drive.DefaultFileID, "requested_file_id", fileID, "error", fallbackErr)
		metrics.RecordImageFetch(metrics.ResultFailed, 0)
		return nil, fmt.Errorf("fetching %s: %w; default image: %w", fileID, err, fallbackErr)
	}
	fallback.Fallback = true
	metrics.RecordImageFetch(metrics.ResultFallback, len(fallback.Data))
	return fallback, nil
}

func (p *Proxy) fetchOnce(ctx context.Context, fileID string) (*Image, error) {
	blob, err := p.store.Fetch(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if isHTML(blob.ContentType) {
		return nil, fmt.Errorf("file %s: %w", fileID, ErrNotImage)
	}
	return &Image{
		FileID:      fileID,
		ContentType: ResolveContentType(blob.ContentType, blob.Data),
		Data:        blob.Data,
	}, nil
}

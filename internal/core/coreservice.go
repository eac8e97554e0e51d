package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jo-hoe/sheetgallery/internal/backend/drive"
	"github.com/jo-hoe/sheetgallery/internal/backend/imageproxy"
	"github.com/jo-hoe/sheetgallery/internal/backend/listings"
	"github.com/jo-hoe/sheetgallery/internal/backend/sheets"
)

// CoreService owns the long-lived upstream clients. It is built once at
// startup and shared read-only by all request handlers.
type CoreService struct {
	Listings *listings.Service
	Proxy    *imageproxy.Proxy
}

func NewCoreService(ctx context.Context, config *ServiceConfig) (*CoreService, error) {
	source, err := sheets.NewGoogleSource(ctx, config.SpreadsheetID, config.Credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize spreadsheet source: %w", err)
	}

	store, err := getBlobStore(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image store: %w", err)
	}
	slog.Info("core service initialized",
		"spreadsheet_id", config.SpreadsheetID,
		"listings_sheet", config.ListingsSheet,
		"photos_sheet", config.PhotosSheet,
		"image_source", config.ImageSource)

	return NewCoreServiceWith(config, sheets.NewAccessor(source), store), nil
}

// NewCoreServiceWith assembles the services from already constructed upstreams.
func NewCoreServiceWith(config *ServiceConfig, reader listings.RecordReader, store drive.BlobStore) *CoreService {
	return &CoreService{
		Listings: listings.NewService(reader, config.ListingsSheet, config.PhotosSheet),
		Proxy:    imageproxy.NewProxy(store),
	}
}

func getBlobStore(ctx context.Context, config *ServiceConfig) (drive.BlobStore, error) {
	switch config.ImageSource {
	case ImageSourceAPI:
		return drive.NewAPIStore(ctx, config.Credentials, config.ImageTimeout, config.MaxImageBytes)
	case ImageSourceDownload, "":
		return drive.NewDownloadStore(config.DownloadBaseURL, config.ImageTimeout, config.MaxRedirects, config.MaxImageBytes), nil
	default:
		return nil, fmt.Errorf("unsupported image source: %s", config.ImageSource)
	}
}

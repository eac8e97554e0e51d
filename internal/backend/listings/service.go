package listings

import (
	"context"
	"fmt"

	"github.com/jo-hoe/sheetgallery/internal/backend/sheets"
)

const (
	DefaultListingsSheet = "Home"
	DefaultPhotosSheet   = "Fotos"

	// ListingIDField links a photo record to its listing.
	ListingIDField = "id_home"
)

// RecordReader is the part of the tabular accessor the query service needs.
type RecordReader interface {
	Records(ctx context.Context, sheetName string) ([]sheets.Record, error)
}

type Service struct {
	reader        RecordReader
	listingsSheet string
	photosSheet   string
}

func NewService(reader RecordReader, listingsSheet, photosSheet string) *Service {
	if listingsSheet == "" {
		listingsSheet = DefaultListingsSheet
	}
	if photosSheet == "" {
		photosSheet = DefaultPhotosSheet
	}
	return &Service{
		reader:        reader,
		listingsSheet: listingsSheet,
		photosSheet:   photosSheet,
	}
}

// All returns every listing in sheet order.
func (s *Service) All(ctx context.Context) ([]sheets.Record, error) {
	records, err := s.reader.Records(ctx, s.listingsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to load listings: %w", err)
	}
	return records, nil
}

// PhotosFor returns the photo records whose id_home equals idHome, in sheet order.
func (s *Service) PhotosFor(ctx context.Context, idHome string) ([]sheets.Record, error) {
	records, err := s.reader.Records(ctx, s.photosSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to load photos: %w", err)
	}

	photos := make([]sheets.Record, 0)
	for _, record := range records {
		if record[ListingIDField] == idHome {
			photos = append(photos, record)
		}
	}
	return photos, nil
}

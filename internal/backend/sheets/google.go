package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"
)

// GoogleSource reads a single spreadsheet through the Sheets v4 API.
type GoogleSource struct {
	service       *sheetsv4.Service
	spreadsheetID string
}

// NewGoogleSource builds a read-only Sheets client from service-account credentials JSON.
// Extra options are appended after the credentials, which lets tests point the client elsewhere.
func NewGoogleSource(ctx context.Context, spreadsheetID string, credentialsJSON []byte, opts ...option.ClientOption) (*GoogleSource, error) {
	clientOptions := []option.ClientOption{}
	if len(credentialsJSON) > 0 {
		clientOptions = append(clientOptions,
			option.WithCredentialsJSON(credentialsJSON),
			option.WithScopes(sheetsv4.SpreadsheetsReadonlyScope))
	}
	clientOptions = append(clientOptions, opts...)

	service, err := sheetsv4.NewService(ctx, clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &GoogleSource{service: service, spreadsheetID: spreadsheetID}, nil
}

func (s *GoogleSource) Sheets(ctx context.Context) ([]SheetInfo, error) {
	spreadsheet, err := s.service.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets(properties(title,gridProperties(columnCount)))").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	infos := make([]SheetInfo, 0, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties == nil {
			continue
		}
		info := SheetInfo{Title: sheet.Properties.Title}
		if sheet.Properties.GridProperties != nil {
			info.ColumnCount = int(sheet.Properties.GridProperties.ColumnCount)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (s *GoogleSource) Values(ctx context.Context, a1Range string) ([][]string, error) {
	valueRange, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, a1Range).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	rows := make([][]string, len(valueRange.Values))
	for i, row := range valueRange.Values {
		cells := make([]string, len(row))
		for j, cell := range row {
			if cell != nil {
				cells[j] = fmt.Sprint(cell)
			}
		}
		rows[i] = cells
	}
	return rows, nil
}

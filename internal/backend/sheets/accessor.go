package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/jo-hoe/sheetgallery/internal/backend/metrics"
)

var (
	ErrSheetNotFound = errors.New("sheet not found")
	ErrNoData        = errors.New("sheet has no data rows")
)

// Record is one data row keyed by normalized header names.
// Every header is present; missing cells are empty strings.
type Record map[string]string

// SheetInfo describes one tab of a spreadsheet.
type SheetInfo struct {
	Title       string
	ColumnCount int
}

// Source is the remote spreadsheet backing the accessor.
type Source interface {
	Sheets(ctx context.Context) ([]SheetInfo, error)
	Values(ctx context.Context, a1Range string) ([][]string, error)
}

// Accessor turns spreadsheet tabs into records. It does not cache.
type Accessor struct {
	source Source
}

func NewAccessor(source Source) *Accessor {
	return &Accessor{source: source}
}

// Records fetches the named sheet and converts rows 2..n into records keyed by row 1.
func (a *Accessor) Records(ctx context.Context, sheetName string) (records []Record, err error) {
	defer func() {
		metrics.RecordSheetRead(sheetName, err)
	}()

	infos, err := a.source.Sheets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet metadata: %w", err)
	}

	var sheet *SheetInfo
	for i := range infos {
		if infos[i].Title == sheetName {
			sheet = &infos[i]
			break
		}
	}
	if sheet == nil {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheetName)
	}

	a1Range, err := FullRange(sheet.Title, sheet.ColumnCount)
	if err != nil {
		return nil, err
	}

	rows, err := a.source.Values(ctx, a1Range)
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", a1Range, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, sheetName)
	}

	records = RowsToRecords(rows)
	slog.Debug("Accessor: sheet converted", "sheet", sheetName, "range", a1Range, "records", len(records))
	return records, nil
}

// RowsToRecords uses rows[0] as header and converts the remaining rows.
func RowsToRecords(rows [][]string) []Record {
	if len(rows) == 0 {
		return []Record{}
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = NormalizeHeader(h)
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(Record, len(headers))
		for i, header := range headers {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			record[header] = value
		}
		records = append(records, record)
	}
	return records
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeHeader lower-cases a header cell and joins its words with underscores.
func NormalizeHeader(header string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(header)), "_")
}

// FullRange returns the A1 range covering every row of the first columnCount columns.
func FullRange(sheetName string, columnCount int) (string, error) {
	lastColumn, err := ColumnLetter(columnCount)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s!A1:%s", quoteSheetName(sheetName), lastColumn), nil
}

// ColumnLetter converts a 1-based column number to its A1 letters (1 -> A, 27 -> AA).
func ColumnLetter(column int) (string, error) {
	if column < 1 {
		return "", fmt.Errorf("invalid column count %d", column)
	}
	var letters []byte
	for column > 0 {
		column--
		letters = append([]byte{byte('A' + column%26)}, letters...)
		column /= 26
	}
	return string(letters), nil
}

func quoteSheetName(name string) string {
	if name != "" && !strings.ContainsAny(name, " '!:") {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"google.golang.org/api/option"
)

func newFakeSheetsAPI(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()

	var valuePaths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(r.URL.Path, "/values/"):
			valuePaths = append(valuePaths, r.URL.Path)
			_, _ = w.Write([]byte(`{"range":"Home!A1:C3","values":[["ID_Home","Descripción","Precio"],["A1","Depto Centro",300]]}`))
		case strings.HasSuffix(r.URL.Path, "/v4/spreadsheets/sheet-id"):
			_, _ = w.Write([]byte(`{"sheets":[{"properties":{"title":"Home","gridProperties":{"columnCount":3}}},{"properties":{"title":"Fotos"}}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server, &valuePaths
}

func TestGoogleSource_ThroughAccessor(t *testing.T) {
	server, valuePaths := newFakeSheetsAPI(t)

	source, err := NewGoogleSource(context.Background(), "sheet-id", nil,
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewGoogleSource error: %v", err)
	}

	infos, err := source.Sheets(context.Background())
	if err != nil {
		t.Fatalf("Sheets error: %v", err)
	}
	wantInfos := []SheetInfo{{Title: "Home", ColumnCount: 3}, {Title: "Fotos", ColumnCount: 0}}
	if !reflect.DeepEqual(infos, wantInfos) {
		t.Errorf("expected %v, got %v", wantInfos, infos)
	}

	records, err := NewAccessor(source).Records(context.Background(), "Home")
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	want := []Record{{"id_home": "A1", "descripción": "Depto Centro", "precio": "300"}}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("expected %v, got %v", want, records)
	}
	if len(*valuePaths) != 1 || !strings.HasSuffix((*valuePaths)[0], "/values/Home!A1:C") {
		t.Errorf("expected one values read for Home!A1:C, got %v", *valuePaths)
	}
}

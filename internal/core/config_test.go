package core

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testCredentials = `{"type":"service_account","client_email":"gallery@example.iam.gserviceaccount.com"}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}
	return configPath
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv(CredentialsEnv, testCredentials)
	t.Setenv(PortEnv, "")
	t.Setenv(SpreadsheetIDEnv, "")

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Port != DefaultPort {
		t.Errorf("Expected port %d, got %d", DefaultPort, config.Port)
	}
	if config.SpreadsheetID != DefaultSpreadsheetID {
		t.Errorf("Expected default spreadsheet id, got %q", config.SpreadsheetID)
	}
	if config.ListingsSheet != "Home" || config.PhotosSheet != "Fotos" {
		t.Errorf("Expected Home/Fotos sheets, got %q/%q", config.ListingsSheet, config.PhotosSheet)
	}
	if config.ImageSource != ImageSourceDownload {
		t.Errorf("Expected image source %q, got %q", ImageSourceDownload, config.ImageSource)
	}
	if config.ImageTimeout != 10*time.Second || config.MaxRedirects != 5 {
		t.Errorf("Expected 10s timeout and 5 redirects, got %v and %d", config.ImageTimeout, config.MaxRedirects)
	}
	if string(config.Credentials) != testCredentials {
		t.Errorf("Expected credentials to be kept verbatim, got %q", string(config.Credentials))
	}
}

func TestLoadConfig_FileAndEnvOverrides(t *testing.T) {
	t.Setenv(CredentialsEnv, testCredentials)
	t.Setenv(PortEnv, "8080")
	t.Setenv(SpreadsheetIDEnv, "env-sheet")

	configPath := writeConfig(t, `port: 9000
spreadsheetId: "file-sheet"
listingsSheet: "Departamentos"
photosSheet: "Imagenes"
imageSource: "api"
imageTimeout: 3s
maxRedirects: 2
logLevel: debug
`)

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Port != 8080 {
		t.Errorf("Expected PORT env to win, got %d", config.Port)
	}
	if config.SpreadsheetID != "env-sheet" {
		t.Errorf("Expected SPREADSHEET_ID env to win, got %q", config.SpreadsheetID)
	}
	if config.ListingsSheet != "Departamentos" || config.PhotosSheet != "Imagenes" {
		t.Errorf("Expected sheet names from file, got %q/%q", config.ListingsSheet, config.PhotosSheet)
	}
	if config.ImageSource != ImageSourceAPI {
		t.Errorf("Expected image source api, got %q", config.ImageSource)
	}
	if config.ImageTimeout != 3*time.Second || config.MaxRedirects != 2 {
		t.Errorf("Expected 3s timeout and 2 redirects, got %v and %d", config.ImageTimeout, config.MaxRedirects)
	}
	if config.SlogLevel() != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v", config.SlogLevel())
	}
}

func TestLoadConfig_Credentials(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr error
	}{
		{name: "missing", value: "", wantErr: ErrMissingCredentials},
		{name: "blank", value: "   ", wantErr: ErrMissingCredentials},
		{name: "malformed", value: "{not json", wantErr: ErrInvalidCredentials},
		{name: "array", value: "[1,2]", wantErr: ErrInvalidCredentials},
		{name: "null", value: "null", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(CredentialsEnv, tt.value)
			t.Setenv(PortEnv, "")

			config, err := LoadConfig("")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
			if config != nil {
				t.Error("Expected config to be nil on error")
			}
		})
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		port    string
		content string
	}{
		{name: "port not a number", port: "abc", content: ""},
		{name: "port out of range", port: "70000", content: ""},
		{name: "unknown image source", content: "imageSource: ftp\n"},
		{name: "unknown log level", content: "logLevel: verbose\n"},
		{name: "empty sheet name", content: "listingsSheet: \"\"\n"},
		{name: "malformed yaml", content: "port: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(CredentialsEnv, testCredentials)
			t.Setenv(PortEnv, tt.port)

			if _, err := LoadConfig(writeConfig(t, tt.content)); err == nil {
				t.Fatal("Expected error, got nil")
			}
		})
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	t.Setenv(CredentialsEnv, testCredentials)

	config, err := LoadConfig("/path/that/does/not/exist/config.yaml")
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
	if config != nil {
		t.Error("Expected config to be nil when file doesn't exist")
	}
}

func TestServiceConfig_SlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for level, want := range tests {
		config := &ServiceConfig{LogLevel: level}
		if got := config.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", level, got, want)
		}
	}
}

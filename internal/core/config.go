package core

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/jo-hoe/sheetgallery/internal/backend/drive"
	"github.com/jo-hoe/sheetgallery/internal/backend/listings"
	"github.com/jo-hoe/sheetgallery/internal/common"
)

const (
	CredentialsEnv   = "GOOGLE_CREDENTIALS"
	PortEnv          = "PORT"
	SpreadsheetIDEnv = "SPREADSHEET_ID"

	DefaultPort          = 3000
	DefaultSpreadsheetID = "1I8nFa8D_RmsoVxTYoH04mqaXshCp_DR0G6X4ez2lfYo"

	ImageSourceDownload = "download"
	ImageSourceAPI      = "api"
)

var (
	ErrMissingCredentials = errors.New(CredentialsEnv + " is not set")
	ErrInvalidCredentials = errors.New(CredentialsEnv + " is not a valid JSON object")
)

type ServiceConfig struct {
	Port            int           `yaml:"port" validate:"min=1,max=65535"`
	SpreadsheetID   string        `yaml:"spreadsheetId" validate:"required"`
	ListingsSheet   string        `yaml:"listingsSheet" validate:"required"`
	PhotosSheet     string        `yaml:"photosSheet" validate:"required"`
	ImageSource     string        `yaml:"imageSource" validate:"oneof=download api"`
	DownloadBaseURL string        `yaml:"downloadBaseUrl" validate:"omitempty,url"`
	ImageTimeout    time.Duration `yaml:"imageTimeout" validate:"min=0"`
	MaxRedirects    int           `yaml:"maxRedirects" validate:"min=0"`
	MaxImageBytes   int64         `yaml:"maxImageBytes" validate:"min=0"`
	StaticDir       string        `yaml:"staticDir"`
	LogLevel        string        `yaml:"logLevel" validate:"omitempty,oneof=debug info warn error"`

	// Credentials holds the raw service-account JSON; it only comes from the environment.
	Credentials []byte `yaml:"-"`
}

func defaultConfig() ServiceConfig {
	return ServiceConfig{
		Port:            DefaultPort,
		SpreadsheetID:   DefaultSpreadsheetID,
		ListingsSheet:   listings.DefaultListingsSheet,
		PhotosSheet:     listings.DefaultPhotosSheet,
		ImageSource:     ImageSourceDownload,
		DownloadBaseURL: drive.DefaultDownloadBaseURL,
		ImageTimeout:    drive.DefaultTimeout,
		MaxRedirects:    drive.DefaultMaxRedirects,
		MaxImageBytes:   drive.DefaultMaxBytes,
		LogLevel:        "info",
	}
}

// LoadConfig reads the optional YAML file at configPath, applies environment
// overrides and validates the result. An empty configPath skips the file.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	config := defaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	if err := applyEnv(&config); err != nil {
		return nil, err
	}

	if err := common.ValidateStruct(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func applyEnv(config *ServiceConfig) error {
	if port := strings.TrimSpace(os.Getenv(PortEnv)); port != "" {
		parsed, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", PortEnv, port, err)
		}
		config.Port = parsed
	}

	if spreadsheetID := strings.TrimSpace(os.Getenv(SpreadsheetIDEnv)); spreadsheetID != "" {
		config.SpreadsheetID = spreadsheetID
	}

	credentials, err := parseCredentials(os.Getenv(CredentialsEnv))
	if err != nil {
		return err
	}
	config.Credentials = credentials
	return nil
}

// parseCredentials checks that raw is a JSON object and returns it as bytes.
func parseCredentials(raw string) ([]byte, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrMissingCredentials
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if fields == nil {
		return nil, ErrInvalidCredentials
	}
	return []byte(raw), nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c *ServiceConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

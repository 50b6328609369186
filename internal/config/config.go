package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Import source kinds accepted by IMPORT_SOURCE.
const (
	SourceFile   = "file"
	SourceHTTP   = "http"
	SourceSheets = "sheets"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Import    ImportConfig
	Analytics AnalyticsConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// ImportConfig describes where the import pipeline pulls the catalog and
// daily record feeds from. Source may be empty, in which case the server
// runs the query engine only and never syncs.
type ImportConfig struct {
	Source         string
	ItemFilePath   string
	RecordFilePath string
	ItemFeedURL    string
	RecordFeedURL  string
	Sheets         SheetsConfig
	CronSchedule   string
}

// SheetsConfig contains configuration required to read feeds from Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	ItemRange       string
	RecordRange     string
}

// AnalyticsConfig carries the business thresholds used by the query engine.
// They encode policy (what counts as overstocked or slow-moving), so they
// live in configuration rather than in the aggregation code.
type AnalyticsConfig struct {
	AboveMSLFactor        float64
	LowTurnoverThreshold  float64
	HighTurnoverThreshold float64
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "inventory_pulse"),
		},
		Import: ImportConfig{
			Source:         os.Getenv("IMPORT_SOURCE"),
			ItemFilePath:   getenvWithDefault("IMPORT_ITEM_FILE", "data/itemMaster.json"),
			RecordFilePath: getenvWithDefault("IMPORT_RECORD_FILE", "data/inventoryData.json"),
			ItemFeedURL:    os.Getenv("IMPORT_ITEM_FEED_URL"),
			RecordFeedURL:  os.Getenv("IMPORT_RECORD_FEED_URL"),
			Sheets: SheetsConfig{
				CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
				SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
				ItemRange:       getenvWithDefault("IMPORT_ITEM_RANGE", "ItemMaster!A:F"),
				RecordRange:     getenvWithDefault("IMPORT_RECORD_RANGE", "InventoryData!A:H"),
			},
			CronSchedule: os.Getenv("IMPORT_CRON_SCHEDULE"),
		},
		Analytics: AnalyticsConfig{
			AboveMSLFactor:        getenvFloatWithDefault("ABOVE_MSL_FACTOR", 2),
			LowTurnoverThreshold:  getenvFloatWithDefault("LOW_TURNOVER_THRESHOLD", 0.5),
			HighTurnoverThreshold: getenvFloatWithDefault("HIGH_TURNOVER_THRESHOLD", 2),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated and coherent.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}
	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	switch c.Import.Source {
	case "", SourceFile:
		// File paths carry defaults; nothing else to check.
	case SourceHTTP:
		if c.Import.ItemFeedURL == "" || c.Import.RecordFeedURL == "" {
			return errors.New("IMPORT_ITEM_FEED_URL and IMPORT_RECORD_FEED_URL must be provided for http imports")
		}
	case SourceSheets:
		if c.Import.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided for sheets imports")
		}
		if c.Import.Sheets.SpreadsheetID == "" {
			return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided for sheets imports")
		}
	default:
		return fmt.Errorf("unknown IMPORT_SOURCE %q", c.Import.Source)
	}

	if c.Analytics.AboveMSLFactor <= 0 {
		return errors.New("ABOVE_MSL_FACTOR must be positive")
	}
	if c.Analytics.LowTurnoverThreshold < 0 {
		return errors.New("LOW_TURNOVER_THRESHOLD must not be negative")
	}
	if c.Analytics.HighTurnoverThreshold <= c.Analytics.LowTurnoverThreshold {
		return errors.New("HIGH_TURNOVER_THRESHOLD must exceed LOW_TURNOVER_THRESHOLD")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvFloatWithDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

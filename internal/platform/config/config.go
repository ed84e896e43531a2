package config

import (
	"os"
	"strconv"
	"time"
)

// SourceKind selects the active backing source for directory records.
type SourceKind string

const (
	SourceDynamoDB    SourceKind = "dynamodb"
	SourceSpreadsheet SourceKind = "spreadsheet"
)

// Config captures process-level configuration. Values come from the
// environment so main stays lean; a .env file may seed the environment first.
type Config struct {
	Addr       string
	AdminToken string
	Source     SourceKind

	TableName      string
	PhotoBucket    string
	PhotoBucketURL string

	SpreadsheetPath string

	DriveAPIBaseURL string
	DriveAPIKey     string

	RedisURL     string
	SubmitLimit  int
	SubmitWindow time.Duration
}

// FromEnv builds a Config from environment variables with development
// defaults.
func FromEnv() Config {
	bucket := getenv("IMAGES_BUCKET", "images-tipjar-dev")

	return Config{
		Addr:            getenv("TIPJAR_ADDR", ":8080"),
		AdminToken:      os.Getenv("ADMIN_TOKEN"),
		Source:          sourceKind(getenv("TIPJAR_SOURCE", string(SourceSpreadsheet))),
		TableName:       getenv("SERVERS_TABLE", "servers-table-dev"),
		PhotoBucket:     bucket,
		PhotoBucketURL:  getenv("IMAGES_BUCKET_URL", "https://"+bucket+".s3.amazonaws.com/"),
		SpreadsheetPath: getenv("SPREADSHEET_PATH", "directory.xlsx"),
		DriveAPIBaseURL: getenv("DRIVE_API_BASE_URL", "https://www.googleapis.com/drive/v3"),
		DriveAPIKey:     os.Getenv("DRIVE_API_KEY"),
		RedisURL:        os.Getenv("REDIS_URL"),
		SubmitLimit:     getenvInt("SUBMIT_RATE_LIMIT", 5),
		SubmitWindow:    getenvDuration("SUBMIT_RATE_WINDOW", time.Minute),
	}
}

func sourceKind(raw string) SourceKind {
	if raw == string(SourceDynamoDB) {
		return SourceDynamoDB
	}
	return SourceSpreadsheet
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

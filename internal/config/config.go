package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string // KJQL_DATABASE_URL (optional, empty = in-memory store)
	HTTPAddr    string // KJQL_HTTP_ADDR (default ":8080")
	NATSURL     string // KJQL_NATS_URL (optional, empty = no events)
	AuthToken   string // KJQL_AUTH_TOKEN (optional, empty = auth disabled)
	CatalogPath string // KJQL_CATALOG_PATH (optional TOML catalog seed)

	// Snapshot export settings
	ExportInterval   time.Duration // KJQL_EXPORT_INTERVAL (default 3m; 0 = disabled)
	ExportS3Bucket   string        // KJQL_EXPORT_S3_BUCKET (enables S3 when set)
	ExportS3Endpoint string        // KJQL_EXPORT_S3_ENDPOINT (custom endpoint for MinIO)
	ExportS3Region   string        // KJQL_EXPORT_S3_REGION (default "us-east-1")
	ExportS3Key      string        // KJQL_EXPORT_S3_KEY (default "kjql/export.jsonl")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:      os.Getenv("KJQL_DATABASE_URL"),
		HTTPAddr:         envOrDefault("KJQL_HTTP_ADDR", ":8080"),
		NATSURL:          os.Getenv("KJQL_NATS_URL"),
		AuthToken:        os.Getenv("KJQL_AUTH_TOKEN"),
		CatalogPath:      os.Getenv("KJQL_CATALOG_PATH"),
		ExportS3Bucket:   os.Getenv("KJQL_EXPORT_S3_BUCKET"),
		ExportS3Endpoint: os.Getenv("KJQL_EXPORT_S3_ENDPOINT"),
		ExportS3Region:   envOrDefault("KJQL_EXPORT_S3_REGION", "us-east-1"),
		ExportS3Key:      envOrDefault("KJQL_EXPORT_S3_KEY", "kjql/export.jsonl"),
	}

	intervalStr := envOrDefault("KJQL_EXPORT_INTERVAL", "3m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("KJQL_EXPORT_INTERVAL: %w", err)
		}
		c.ExportInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

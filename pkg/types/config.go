// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data model and configuration structs for
// the research-collector pipeline.
package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "research-collector/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// CollectConfig holds settings for the retrieval stage.
type CollectConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxPapers is the default result-count bound per run (default 10).
	MaxPapers int `json:"max_papers" yaml:"max_papers" mapstructure:"max_papers"`

	// RequestsPerSecond caps the rate of arXiv API calls (default 0.5,
	// i.e. one request every 2 seconds).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// MaxRetries is the number of retry attempts on rate-limited or
	// transiently failing API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// StoreDriver selects the persistence backend.
type StoreDriver string

const (
	DriverMongo  StoreDriver = "mongo"
	DriverSQLite StoreDriver = "sqlite"
)

// StoreConfig holds settings for the persistence stage.
type StoreConfig struct {
	// Driver selects the backend: mongo or sqlite.
	Driver StoreDriver `json:"driver" yaml:"driver" mapstructure:"driver"`

	// URI is the MongoDB connection string (mongo driver only). It may
	// also be supplied via the .secrets/mongo-uri file.
	URI string `json:"uri,omitempty" yaml:"uri,omitempty" mapstructure:"uri"`

	// Database is the MongoDB database name (default "research").
	Database string `json:"database" yaml:"database" mapstructure:"database"`

	// Path is the SQLite database file (sqlite driver only,
	// default "research.db").
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// ServerConfig holds settings for the HTTP API server.
type ServerConfig struct {
	// Port is the listen port (default 8080).
	Port int `json:"port" yaml:"port" mapstructure:"port"`

	// LogLevel is the zap log level (default "info").
	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}

// ExportConfig holds settings for YAML run exports.
type ExportConfig struct {
	// Dir is the directory run exports are written to (default "exports").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// Config groups all stage configurations.
type Config struct {
	Collect CollectConfig `json:"collect" yaml:"collect" mapstructure:"collect"`
	Store   StoreConfig   `json:"store" yaml:"store" mapstructure:"store"`
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
	Export  ExportConfig  `json:"export" yaml:"export" mapstructure:"export"`
}

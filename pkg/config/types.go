package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Analysis   AnalysisConfig   `mapstructure:"analysis"`
	Storage    StorageConfig    `mapstructure:"storage"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	Verbose bool   `mapstructure:"verbose"`
}

// ProcessingConfig contains background worker settings
type ProcessingConfig struct {
	Workers          int           `mapstructure:"workers"`
	PollInterval     time.Duration `mapstructure:"poll_interval"`
	JobRetentionDays int           `mapstructure:"job_retention_days"`
}

// AnalysisConfig contains the ML analysis backend settings
type AnalysisConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	Timeout          time.Duration `mapstructure:"timeout"`
	EmbeddingBackend string        `mapstructure:"embedding_backend"`
}

// StorageConfig contains on-disk layout settings
type StorageConfig struct {
	AudioDir        string        `mapstructure:"audio_dir"`
	SampleDir       string        `mapstructure:"sample_dir"`
	DownloadTimeout time.Duration `mapstructure:"download_timeout"`
}

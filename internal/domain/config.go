package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	UploadRateLimit int           `mapstructure:"upload_rate_limit"` // uploads per second per client
	UploadBurst     int           `mapstructure:"upload_burst"`
}

// StorageConfig represents file storage configuration
type StorageConfig struct {
	UploadDir         string   `mapstructure:"upload_dir"`
	ResultsDir        string   `mapstructure:"results_dir"`
	DatabasePath      string   `mapstructure:"database_path"`
	MaxFileSize       int64    `mapstructure:"max_file_size"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	BearerToken string `mapstructure:"bearer_token"`
}

// AnalysisConfig represents SRS risk analysis configuration
type AnalysisConfig struct {
	CriticalRiskThreshold float64 `mapstructure:"critical_risk_threshold"`
	DiversitySampleSize   int     `mapstructure:"diversity_sample_size"`
	GCSampleSize          int     `mapstructure:"gc_sample_size"`
	MotifSampleSize       int     `mapstructure:"motif_sample_size"`
	QualitySampleSize     int     `mapstructure:"quality_sample_size"`
	CacheSize             int     `mapstructure:"cache_size"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetStorageConfig() *StorageConfig
	GetAnalysisConfig() *AnalysisConfig
	Validate() error
}

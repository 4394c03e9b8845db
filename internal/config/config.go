package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/IA-PieroCV/Project-Thalassa/internal/domain"
)

// Manager implements the ConfigManager interface using Viper
type Manager struct {
	config *domain.Config
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig() error {
	// Set configuration file name and paths
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/thalassa/")

	// Set environment variable prefix and enable automatic env binding
	viper.SetEnvPrefix("THALASSA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	m.setDefaults()

	// Read configuration file (optional - will use defaults and env vars if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using defaults and environment variables
	}

	// Unmarshal configuration into struct
	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.upload_rate_limit", 5)
	viper.SetDefault("server.upload_burst", 10)

	// Storage defaults
	viper.SetDefault("storage.upload_dir", "uploads")
	viper.SetDefault("storage.results_dir", "results")
	viper.SetDefault("storage.database_path", "results/thalassa.db")
	viper.SetDefault("storage.max_file_size", 100*1024*1024) // 100MB
	viper.SetDefault("storage.allowed_extensions", []string{".fastq", ".fq", ".fastq.gz", ".fq.gz"})

	// Auth defaults: an empty token rejects all authenticated requests
	viper.SetDefault("auth.bearer_token", "")

	// Analysis defaults
	viper.SetDefault("analysis.critical_risk_threshold", 0.8)
	viper.SetDefault("analysis.diversity_sample_size", 1000)
	viper.SetDefault("analysis.gc_sample_size", 500)
	viper.SetDefault("analysis.motif_sample_size", 200)
	viper.SetDefault("analysis.quality_sample_size", 100)
	viper.SetDefault("analysis.cache_size", 128)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetStorageConfig returns file storage configuration
func (m *Manager) GetStorageConfig() *domain.StorageConfig {
	return &m.config.Storage
}

// GetAnalysisConfig returns SRS risk analysis configuration
func (m *Manager) GetAnalysisConfig() *domain.AnalysisConfig {
	return &m.config.Analysis
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	// Validate server configuration
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	// Validate storage configuration
	if config.Storage.UploadDir == "" {
		return fmt.Errorf("upload directory is required")
	}
	if config.Storage.ResultsDir == "" {
		return fmt.Errorf("results directory is required")
	}
	if config.Storage.MaxFileSize <= 0 {
		return fmt.Errorf("invalid max file size: %d", config.Storage.MaxFileSize)
	}

	// Validate analysis configuration
	if t := config.Analysis.CriticalRiskThreshold; t < 0.0 || t > 1.0 {
		return fmt.Errorf("critical risk threshold must be in [0, 1]: %f", t)
	}

	// Validate logging configuration
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// IsProduction returns true if running in production mode
func (m *Manager) IsProduction() bool {
	return strings.ToLower(viper.GetString("environment")) == "production"
}

// IsDevelopment returns true if running in development mode
func (m *Manager) IsDevelopment() bool {
	env := strings.ToLower(viper.GetString("environment"))
	return env == "development" || env == "dev" || env == ""
}

// NewLogger builds a logrus logger from the logging configuration
func NewLogger(cfg *domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.ToLower(cfg.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}

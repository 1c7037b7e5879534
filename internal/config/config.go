package config

import (
	"os"
	"strconv"
	"strings"

	"mazescore/domain/session"
	"mazescore/internal"
	"mazescore/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Columns  session.ColumnMapping
	Batch    BatchConfig
	Output   OutputConfig
	LogLevel internal.LogLevel
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string
	GinMode     string
	MaxUploadMB int64
}

// DataConfig holds input loading settings
type DataConfig struct {
	// Sheet is the workbook sheet to read; empty means the first sheet.
	Sheet string
}

// BatchConfig holds multi-session settings
type BatchConfig struct {
	Concurrency int
}

// OutputConfig holds presentation settings
type OutputConfig struct {
	Format string
}

// Supported output formats
var outputFormats = []string{"text", "markdown", "html", "json"}

// Load reads configuration from environment variables and validates it.
// Callers load a .env file first when they want one.
func Load() (*Config, error) {
	level, ok := internal.ParseLogLevel(getEnvOrDefault("LOG_LEVEL", "INFO"))
	if !ok {
		return nil, errors.ConfigInvalid("LOG_LEVEL must be one of ERROR, WARN, INFO, DEBUG, TRACE")
	}

	columns, err := loadColumnMapping()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load column mapping")
	}

	config := &Config{
		Server:   *loadServerConfig(),
		Data:     DataConfig{Sheet: getEnvOrDefault("EXCEL_SHEET", "")},
		Columns:  columns,
		Batch:    BatchConfig{Concurrency: getEnvIntOrDefault("BATCH_CONCURRENCY", 4)},
		Output:   OutputConfig{Format: strings.ToLower(getEnvOrDefault("OUTPUT_FORMAT", "text"))},
		LogLevel: level,
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080", GinMode: "release", MaxUploadMB: 32},
		Columns:  session.DefaultColumnMapping(),
		Batch:    BatchConfig{Concurrency: 4},
		Output:   OutputConfig{Format: "text"},
		LogLevel: internal.LogLevelInfo,
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:        getEnvOrDefault("PORT", "8080"),
		GinMode:     getEnvOrDefault("GIN_MODE", "release"),
		MaxUploadMB: int64(getEnvIntOrDefault("MAX_UPLOAD_MB", 32)),
	}
}

func loadColumnMapping() (session.ColumnMapping, error) {
	m := session.DefaultColumnMapping()
	positions := []struct {
		key string
		dst *int
	}{
		{"COL_TIMESTAMP", &m.Timestamp},
		{"COL_EVENTS", &m.Events},
		{"COL_ACTIVE_POKE", &m.ActivePoke},
		{"COL_CORRECT_CHOICE", &m.CorrectChoice},
		{"COL_TRIAL", &m.Trial},
		{"COL_PHASE", &m.Phase},
		{"MIN_COLUMNS", &m.MinColumns},
	}
	for _, p := range positions {
		value := os.Getenv(p.key)
		if value == "" {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return m, errors.ConfigInvalid(p.key + " must be an integer, got " + strconv.Quote(value))
		}
		*p.dst = n
	}
	if alias, ok := os.LookupEnv("COL_EVENTS_ALIAS"); ok {
		m.EventsAlias = alias
	}
	if err := m.Validate(); err != nil {
		return m, errors.Wrap(errors.ConfigInvalid(err.Error()), "invalid column mapping")
	}
	return m, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Server.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Batch.Concurrency < 1 {
		return errors.ConfigInvalid("BATCH_CONCURRENCY must be at least 1")
	}
	if !ValidOutputFormat(config.Output.Format) {
		return errors.ConfigInvalid("OUTPUT_FORMAT must be one of " + strings.Join(outputFormats, ", "))
	}
	return nil
}

// ValidOutputFormat reports whether name is a supported renderer
func ValidOutputFormat(name string) bool {
	for _, f := range outputFormats {
		if f == name {
			return true
		}
	}
	return false
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

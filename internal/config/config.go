package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	DB          DBConfig
	JWT         JWTConfig
	S3          S3Config
	Log         LogConfig
	Extractor   ExtractorConfig
	Consolidate ConsolidateConfig
	CORS        CORSConfig
	Email       EmailConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	TokenExpiry time.Duration `mapstructure:"token_expiry"`
	Issuer      string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings for the document archive.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ExtractorEndpointConfig holds settings for a single AI pipeline endpoint.
type ExtractorEndpointConfig struct {
	URL         string `mapstructure:"url"`
	APIKey      string `mapstructure:"api_key"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// ExtractorConfig holds AI extraction pipeline settings with an optional
// fallback endpoint.
type ExtractorConfig struct {
	Primary   ExtractorEndpointConfig `mapstructure:"primary"`
	Secondary ExtractorEndpointConfig `mapstructure:"secondary"`
}

// SecondaryConfig returns the secondary endpoint config, or nil if not configured.
func (e *ExtractorConfig) SecondaryConfig() *ExtractorEndpointConfig {
	if e.Secondary.URL != "" {
		return &e.Secondary
	}
	return nil
}

// ConsolidateConfig holds consolidation engine settings. ConfidenceKeys is
// the version-controlled alias table for confidence signals on field
// payloads; empty means the built-in defaults.
type ConsolidateConfig struct {
	MinConfidence  float64  `mapstructure:"min_confidence"`
	ConfidenceKeys []string `mapstructure:"confidence_keys"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds notification email settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	NotifyTo    string `mapstructure:"notify_to"`
}

// Load reads configuration from environment variables with the PROPFOLIO_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PROPFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "propfolio")
	v.SetDefault("db.password", "propfolio_secret")
	v.SetDefault("db.name", "propfolio_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.token_expiry", "720h")
	v.SetDefault("jwt.issuer", "propfolio")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "propfolio-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 50)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Extractor defaults
	v.SetDefault("extractor.primary.url", "http://localhost:8000/api/ai-pipeline/process")
	v.SetDefault("extractor.primary.api_key", "")
	v.SetDefault("extractor.primary.timeout_secs", 120)
	v.SetDefault("extractor.secondary.url", "")
	v.SetDefault("extractor.secondary.api_key", "")
	v.SetDefault("extractor.secondary.timeout_secs", 120)

	// Consolidation defaults
	v.SetDefault("consolidate.min_confidence", 0.5)
	v.SetDefault("consolidate.confidence_keys", "")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@propfolio.local")
	v.SetDefault("email.from_name", "Propfolio")
	v.SetDefault("email.notify_to", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                      "PROPFOLIO_SERVER_PORT",
		"server.read_timeout":              "PROPFOLIO_SERVER_READ_TIMEOUT",
		"server.write_timeout":             "PROPFOLIO_SERVER_WRITE_TIMEOUT",
		"server.environment":               "PROPFOLIO_SERVER_ENVIRONMENT",
		"db.host":                          "PROPFOLIO_DB_HOST",
		"db.port":                          "PROPFOLIO_DB_PORT",
		"db.user":                          "PROPFOLIO_DB_USER",
		"db.password":                      "PROPFOLIO_DB_PASSWORD",
		"db.name":                          "PROPFOLIO_DB_NAME",
		"db.sslmode":                       "PROPFOLIO_DB_SSLMODE",
		"db.max_open":                      "PROPFOLIO_DB_MAX_OPEN",
		"db.max_idle":                      "PROPFOLIO_DB_MAX_IDLE",
		"jwt.secret":                       "PROPFOLIO_JWT_SECRET",
		"jwt.token_expiry":                 "PROPFOLIO_JWT_TOKEN_EXPIRY",
		"jwt.issuer":                       "PROPFOLIO_JWT_ISSUER",
		"s3.region":                        "PROPFOLIO_S3_REGION",
		"s3.bucket":                        "PROPFOLIO_S3_BUCKET",
		"s3.endpoint":                      "PROPFOLIO_S3_ENDPOINT",
		"s3.access_key":                    "PROPFOLIO_S3_ACCESS_KEY",
		"s3.secret_key":                    "PROPFOLIO_S3_SECRET_KEY",
		"s3.max_file_size_mb":              "PROPFOLIO_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":                "PROPFOLIO_S3_PRESIGN_EXPIRY",
		"log.level":                        "PROPFOLIO_LOG_LEVEL",
		"log.format":                       "PROPFOLIO_LOG_FORMAT",
		"extractor.primary.url":            "PROPFOLIO_EXTRACTOR_PRIMARY_URL",
		"extractor.primary.api_key":        "PROPFOLIO_EXTRACTOR_PRIMARY_API_KEY",
		"extractor.primary.timeout_secs":   "PROPFOLIO_EXTRACTOR_PRIMARY_TIMEOUT_SECS",
		"extractor.secondary.url":          "PROPFOLIO_EXTRACTOR_SECONDARY_URL",
		"extractor.secondary.api_key":      "PROPFOLIO_EXTRACTOR_SECONDARY_API_KEY",
		"extractor.secondary.timeout_secs": "PROPFOLIO_EXTRACTOR_SECONDARY_TIMEOUT_SECS",
		"consolidate.min_confidence":       "PROPFOLIO_CONSOLIDATE_MIN_CONFIDENCE",
		"consolidate.confidence_keys":      "PROPFOLIO_CONSOLIDATE_CONFIDENCE_KEYS",
		"cors.allowed_origins":             "PROPFOLIO_CORS_ALLOWED_ORIGINS",
		"email.provider":                   "PROPFOLIO_EMAIL_PROVIDER",
		"email.region":                     "PROPFOLIO_EMAIL_REGION",
		"email.from_address":               "PROPFOLIO_EMAIL_FROM_ADDRESS",
		"email.from_name":                  "PROPFOLIO_EMAIL_FROM_NAME",
		"email.notify_to":                  "PROPFOLIO_EMAIL_NOTIFY_TO",
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding env %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Comma-separated list envs arrive as single strings
	cfg.CORS.AllowedOrigins = splitCSV(v.GetString("cors.allowed_origins"))
	cfg.Consolidate.ConfidenceKeys = splitCSV(v.GetString("consolidate.confidence_keys"))

	return &cfg, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

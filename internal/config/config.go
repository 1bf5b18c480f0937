package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Storage   StorageConfig   `yaml:"storage"`
	Voices    VoicesConfig    `yaml:"voices"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DatabaseConfig holds persistence settings.
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"             env:"DATABASE_DRIVER"             env-default:"postgres"`
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	// SkipMigrate leaves the schema alone at startup. Migrations run by default.
	SkipMigrate     bool          `yaml:"skip_migrate"       env:"DATABASE_SKIP_MIGRATE"`
	// MigrationsDir overrides the embedded migrations when set.
	MigrationsDir   string        `yaml:"migrations_dir"     env:"DATABASE_MIGRATIONS_DIR"`
}

// Storage backends.
const (
	StorageInline = "inline"
	StorageDisk   = "disk"
	StorageMinio  = "minio"
)

// StorageConfig holds audio payload storage settings.
type StorageConfig struct {
	Backend             string `yaml:"backend"              env:"STORAGE_BACKEND"              env-default:"inline"`
	MaxUploadBytes      int64  `yaml:"max_upload_bytes"     env:"STORAGE_MAX_UPLOAD_BYTES"     env-default:"10485760"`
	AllowedMIMETypesRaw string `yaml:"allowed_mime_types"   env:"STORAGE_ALLOWED_MIME_TYPES"   env-default:"audio/mpeg,audio/wav,audio/ogg,audio/mp4,video/mp4"`
	DiskDir             string `yaml:"disk_dir"             env:"STORAGE_DISK_DIR"             env-default:"uploads"`
	PublicPath          string `yaml:"public_path"          env:"STORAGE_PUBLIC_PATH"          env-default:"/uploads/"`
	PublicBaseURL       string `yaml:"public_base_url"      env:"STORAGE_PUBLIC_BASE_URL"`
	MinioEndpoint       string `yaml:"minio_endpoint"       env:"STORAGE_MINIO_ENDPOINT"`
	MinioAccessKey      string `yaml:"minio_access_key"     env:"STORAGE_MINIO_ACCESS_KEY"`
	MinioSecretKey      string `yaml:"minio_secret_key"     env:"STORAGE_MINIO_SECRET_KEY"`
	MinioBucket         string `yaml:"minio_bucket"         env:"STORAGE_MINIO_BUCKET"         env-default:"voices"`
	MinioUseSSL         bool   `yaml:"minio_use_ssl"        env:"STORAGE_MINIO_USE_SSL"        env-default:"false"`

	// AllowedMIMETypes is parsed from AllowedMIMETypesRaw during validation.
	AllowedMIMETypes []string `yaml:"-" env:"-"`
}

// VoicesConfig holds record store behaviour settings.
type VoicesConfig struct {
	Scope string `yaml:"scope" env:"VOICES_SCOPE" env-default:"global"`
}

// AuthConfig holds guest session settings.
type AuthConfig struct {
	SessionSecret string        `yaml:"session_secret" env:"AUTH_SESSION_SECRET" env-required:"true"`
	SessionIssuer string        `yaml:"session_issuer" env:"AUTH_SESSION_ISSUER" env-default:"instant-voices"`
	SessionTTL    time.Duration `yaml:"session_ttl"    env:"AUTH_SESSION_TTL"    env-default:"720h"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig holds per-client upload limits.
//
// cleanenv fills env-default into any field still zero after the YAML pass,
// so switches that default to on are spelled as Disabled flags.
type RateLimitConfig struct {
	Disabled         bool `yaml:"disabled"           env:"RATE_LIMIT_DISABLED"`
	UploadsPerMinute int  `yaml:"uploads_per_minute" env:"RATE_LIMIT_UPLOADS_PER_MINUTE" env-default:"30"`
}

// PerMinute is the effective upload limit; zero means unlimited.
func (r RateLimitConfig) PerMinute() int {
	if r.Disabled {
		return 0
	}
	return r.UploadsPerMinute
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Disabled bool   `yaml:"disabled" env:"METRICS_DISABLED"`
	Path     string `yaml:"path"     env:"METRICS_PATH"     env-default:"/metrics"`
}

// ParseList splits a comma-separated list, trimming blanks and lowercasing items.
func ParseList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

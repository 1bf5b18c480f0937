package config

import (
	"fmt"
	"strings"

	"github.com/heartmarshall/instant-voices/internal/domain"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.SessionSecret) < 32 {
		return fmt.Errorf("auth.session_secret must be at least 32 characters (got %d)", len(c.Auth.SessionSecret))
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be > 0 (got %s)", c.Auth.SessionTTL)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for driver %q", DriverPostgres)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("database.driver must be one of postgres, memory (got %q)", c.Database.Driver)
	}

	if err := c.Storage.validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	if _, ok := domain.ParseOwnershipScope(c.Voices.Scope); !ok {
		return fmt.Errorf("voices.scope must be one of global, owner (got %q)", c.Voices.Scope)
	}

	if !c.RateLimit.Disabled && c.RateLimit.UploadsPerMinute <= 0 {
		return fmt.Errorf("rate_limit.uploads_per_minute must be > 0 (got %d); set rate_limit.disabled to turn limiting off", c.RateLimit.UploadsPerMinute)
	}

	return nil
}

func (s *StorageConfig) validate() error {
	if s.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be > 0 (got %d)", s.MaxUploadBytes)
	}

	s.AllowedMIMETypes = ParseList(s.AllowedMIMETypesRaw)
	if len(s.AllowedMIMETypes) == 0 {
		return fmt.Errorf("allowed_mime_types must not be empty")
	}

	switch s.Backend {
	case StorageInline:
	case StorageDisk:
		if strings.TrimSpace(s.DiskDir) == "" {
			return fmt.Errorf("disk_dir is required for backend %q", StorageDisk)
		}
		if !strings.HasPrefix(s.PublicPath, "/") || !strings.HasSuffix(s.PublicPath, "/") {
			return fmt.Errorf("public_path must start and end with '/' (got %q)", s.PublicPath)
		}
	case StorageMinio:
		if s.MinioEndpoint == "" || s.MinioAccessKey == "" || s.MinioSecretKey == "" {
			return fmt.Errorf("minio_endpoint, minio_access_key and minio_secret_key are required for backend %q", StorageMinio)
		}
		if s.MinioBucket == "" {
			return fmt.Errorf("minio_bucket is required for backend %q", StorageMinio)
		}
	default:
		return fmt.Errorf("backend must be one of inline, disk, minio (got %q)", s.Backend)
	}

	return nil
}

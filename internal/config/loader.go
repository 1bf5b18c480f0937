package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// PathEnv names the YAML config file. DefaultPath is used when it is unset.
const (
	PathEnv     = "CONFIG_PATH"
	DefaultPath = "./config.yaml"
)

// Load reads configuration from CONFIG_PATH (or ./config.yaml) and the
// environment, then validates it. ENV overrides YAML; env-default tags fill
// the rest. A missing default file is fine, a missing explicit one is not.
func Load() (*Config, error) {
	path, explicit := os.LookupEnv(PathEnv)
	if !explicit || path == "" {
		path, explicit = DefaultPath, false
	}
	return LoadFile(path, explicit)
}

// LoadFile is Load with the file path given directly. When required is false
// and path does not exist, only ENV and defaults are read.
func LoadFile(path string, required bool) (*Config, error) {
	var cfg Config

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	case required || !errors.Is(statErr, fs.ErrNotExist):
		return nil, fmt.Errorf("config: file %s: %w", path, statErr)
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// Usage writes every environment variable the server reads, with defaults.
func Usage(w io.Writer) error {
	header := "Environment variables (override " + PathEnv + " YAML):"
	text, err := cleanenv.GetDescription(&Config{}, &header)
	if err != nil {
		return fmt.Errorf("config: describe: %w", err)
	}
	_, err = fmt.Fprintln(w, text)
	return err
}

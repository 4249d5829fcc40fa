package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is where the config file lives unless overridden.
const DefaultPath = "~/.config/gmail-cli/config.toml"

// Load reads and parses the configuration file. A missing file is not an
// error: the CLI works out of the box, so defaults are returned.
func Load(path string) (*Config, error) {
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Init writes the default configuration to path, creating the directory.
// Refuses to overwrite an existing file.
func Init(path string) (string, error) {
	expandedPath, err := expandPath(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand config path: %w", err)
	}

	if _, err := os.Stat(expandedPath); err == nil {
		return expandedPath, fmt.Errorf("config file already exists: %s", expandedPath)
	}

	if err := os.MkdirAll(filepath.Dir(expandedPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(expandedPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}

	return expandedPath, nil
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// expandPaths expands ~ in all path fields
func (c *Config) expandPaths() error {
	var err error

	c.OAuth.CredentialsPath, err = expandPath(c.OAuth.CredentialsPath)
	if err != nil {
		return err
	}

	return nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.OAuth.CredentialsPath == "" {
		errs = append(errs, errors.New("oauth.credentials_path is required"))
	}
	if c.OAuth.RedirectPort < 1 || c.OAuth.RedirectPort > 65535 {
		errs = append(errs, errors.New("oauth.redirect_port must be between 1 and 65535"))
	}

	if c.Defaults.MaxResults < 1 || c.Defaults.MaxResults > 500 {
		errs = append(errs, errors.New("defaults.max_results must be between 1 and 500"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

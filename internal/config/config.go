// Package config loads uploader configuration from a YAML file, the
// CLOUDINARY_URL environment variable, and command-line flags, in
// ascending precedence.
package config

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/constants"
)

// EnvCloudinaryURL is the standard account environment variable:
// cloudinary://<api_key>:<api_secret>@<cloud_name>
const EnvCloudinaryURL = "CLOUDINARY_URL"

// Config holds everything a batch run needs.
type Config struct {
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`

	// Folder is the remote folder uploads land in; empty uploads to the
	// account root.
	Folder string `yaml:"folder"`

	MaxConcurrent int   `yaml:"max_concurrent"`
	ChunkSize     int64 `yaml:"chunk_size"`

	// Extensions restricts which files a directory scan picks up; empty
	// means every extension the validator can classify.
	Extensions []string `yaml:"extensions"`

	// LogPath is where the batch error log is written.
	LogPath string `yaml:"log_path"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		MaxConcurrent: constants.MaxConcurrency,
		ChunkSize:     constants.ChunkSize,
		LogPath:       "upload-errors.log",
	}
}

// Load reads path into a Config layered over Default. An empty path
// returns the defaults. CLOUDINARY_URL, when set, fills in any account
// fields the file left empty.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv fills empty account fields from CLOUDINARY_URL.
func (c *Config) applyEnv() error {
	raw := os.Getenv(EnvCloudinaryURL)
	if raw == "" {
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", EnvCloudinaryURL, err)
	}
	if u.Scheme != "cloudinary" {
		return fmt.Errorf("invalid %s: expected cloudinary:// scheme, got %q", EnvCloudinaryURL, u.Scheme)
	}

	if c.CloudName == "" {
		c.CloudName = u.Host
	}
	if u.User != nil {
		if c.APIKey == "" {
			c.APIKey = u.User.Username()
		}
		if secret, ok := u.User.Password(); ok && c.APISecret == "" {
			c.APISecret = secret
		}
	}
	return nil
}

// Validate checks that the configuration can drive a batch.
func (c *Config) Validate() error {
	if c.CloudName == "" {
		return fmt.Errorf("cloud name is not configured (set cloud_name or %s)", EnvCloudinaryURL)
	}
	if c.APIKey == "" || c.APISecret == "" {
		return fmt.Errorf("API credentials are not configured (set api_key/api_secret or %s)", EnvCloudinaryURL)
	}
	if c.MaxConcurrent < 1 || c.MaxConcurrent > constants.MaxConcurrency {
		return fmt.Errorf("max_concurrent must be between 1 and %d, got %d",
			constants.MaxConcurrency, c.MaxConcurrent)
	}
	if c.ChunkSize < constants.MinChunkSize || c.ChunkSize > constants.MaxChunkSize {
		return fmt.Errorf("chunk_size must be between %d and %d bytes, got %d",
			constants.MinChunkSize, constants.MaxChunkSize, c.ChunkSize)
	}
	return nil
}

// Package config loads mindmap settings from TOML or YAML files.
//
// Settings are looked up at $XDG_CONFIG_HOME/mindmap/config.toml (falling
// back to ~/.config) unless an explicit path is given. A missing default file
// is not an error; the built-in defaults apply. Command line flags override
// whatever the file sets.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/mindmap/pkg/layout"
)

const (
	// Dir is the directory name under XDG_CONFIG_HOME.
	Dir = "mindmap"
	// File is the default config file name.
	File = "config.toml"
)

// ErrInvalid is returned for config files that fail to parse or validate.
var ErrInvalid = errors.New("invalid config")

var validate = validator.New()

// Config is the complete set of file-based settings.
type Config struct {
	AspectRatio   float64        `toml:"aspect_ratio" yaml:"aspect_ratio" validate:"gt=0"`
	MinEdgeLength float64        `toml:"min_edge_length" yaml:"min_edge_length" validate:"gte=0"`
	GridSize      int            `toml:"grid_size" yaml:"grid_size" validate:"gte=0"`
	Layout        layout.Options `toml:"layout" yaml:"layout"`
	Cache         Cache          `toml:"cache" yaml:"cache"`
	Server        Server         `toml:"server" yaml:"server"`
}

// Cache configures result caching.
type Cache struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`
	// Dir overrides the per-user cache directory for the file cache.
	Dir string `toml:"dir,omitempty" yaml:"dir,omitempty"`
	// RedisURL selects the Redis cache when set.
	RedisURL string        `toml:"redis_url,omitempty" yaml:"redis_url,omitempty" validate:"omitempty,url"`
	TTL      time.Duration `toml:"ttl" yaml:"ttl" validate:"gte=0"`
	// KeyPrefix namespaces keys, e.g. per deployment in a shared Redis.
	KeyPrefix string `toml:"key_prefix,omitempty" yaml:"key_prefix,omitempty" validate:"omitempty,max=64,printascii"`
}

// Server configures the layout service.
type Server struct {
	Addr           string        `toml:"addr" yaml:"addr" validate:"required,hostname_port"`
	RequestTimeout time.Duration `toml:"request_timeout" yaml:"request_timeout" validate:"gt=0"`
	MaxBodyBytes   int64         `toml:"max_body_bytes" yaml:"max_body_bytes" validate:"gt=0"`
	MaxNodes       int           `toml:"max_nodes" yaml:"max_nodes" validate:"gt=0"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		AspectRatio:   1.5,
		MinEdgeLength: 100,
		GridSize:      0,
		Layout:        layout.DefaultOptions(),
		Cache: Cache{
			Enabled: true,
			TTL:     30 * 24 * time.Hour,
		},
		Server: Server{
			Addr:           "127.0.0.1:8080",
			RequestTimeout: 30 * time.Second,
			MaxBodyBytes:   4 << 20,
			MaxNodes:       2000,
		},
	}
}

// Path returns the default config file location.
func Path() string {
	home := os.Getenv("XDG_CONFIG_HOME")
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		home = filepath.Join(h, ".config")
	}
	return filepath.Join(home, Dir, File)
}

// Load reads the config at path, or at [Path] when path is empty. Fields
// missing from the file keep their defaults. Only an explicitly named file
// must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = Path()
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the given format ("toml" or "yaml") on top of the
// defaults and validates the result.
func Parse(data []byte, format string) (*Config, error) {
	cfg := Default()
	switch format {
	case "toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalid, format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section, including the layout options.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("%w: %s failed %q", ErrInvalid, e.Namespace(), e.Tag())
		}
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := c.Layout.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Encode writes the config as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDefault writes the default config to path, creating parent
// directories. It refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	data, err := Default().Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "toml"
	}
}

// Package config loads rampboard settings from a TOML file.
//
// A missing file at the default location is not an error; every setting has
// a default. Example:
//
//	encodings = ["utf-8", "cp949", "euc-kr", "latin1"]
//	key_keywords = ["동네", "지역", "region"]
//
//	[palette]
//	highlight = "#ff0000"
//	secondary = "#0000ff"
//
//	[chart]
//	width = 720
//	height = 420
//	percent = true
//
//	[server]
//	addr = ":8080"
//	session_ttl = "2h"
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/rampboard/pkg/errors"
	rio "github.com/matzehuels/rampboard/pkg/io"
	"github.com/matzehuels/rampboard/pkg/proportion"
	"github.com/matzehuels/rampboard/pkg/table"
)

const appName = "rampboard"

// Duration is a time.Duration written as "90s" or "2h" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config holds every user-tunable setting.
type Config struct {
	Encodings   []string           `toml:"encodings"`
	KeyKeywords []string           `toml:"key_keywords"`
	Palette     proportion.Palette `toml:"palette"`
	Chart       Chart              `toml:"chart"`
	Server      Server             `toml:"server"`
	Cache       Cache              `toml:"cache"`
}

// Chart sets the default chart geometry.
type Chart struct {
	Width   float64 `toml:"width"`
	Height  float64 `toml:"height"`
	Percent bool    `toml:"percent"`
}

// Server configures the dashboard.
type Server struct {
	Addr          string   `toml:"addr"`
	SessionTTL    Duration `toml:"session_ttl"`
	MaxUploadSize int64    `toml:"max_upload_size"`
}

// Cache configures table caching. An empty RedisURL keeps the cache local.
type Cache struct {
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Encodings:   append([]string(nil), rio.DefaultEncodings...),
		KeyKeywords: append([]string(nil), table.DefaultKeyKeywords...),
		Palette:     proportion.DefaultPalette,
		Chart:       Chart{Width: 720, Height: 420, Percent: true},
		Server: Server{
			Addr:          ":8080",
			SessionTTL:    Duration{2 * time.Hour},
			MaxUploadSize: 32 << 20,
		},
		Cache: Cache{TTL: Duration{24 * time.Hour}},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/rampboard/config.toml, falling back
// to ~/.config.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, "config.toml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", appName, "config.toml")
	}
	return filepath.Join(".", "config.toml")
}

// Load reads path over the defaults. An empty path means [DefaultPath], and
// a missing default file yields the defaults. An explicitly named file must
// exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}
	if err := cfg.decode(string(data)); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decode(data string) error {
	md, err := toml.Decode(data, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	return c.Validate()
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	if len(c.Encodings) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "encodings must not be empty")
	}
	if err := rio.ValidateEncodings(c.Encodings); err != nil {
		return err
	}
	if c.Chart.Width < 0 || c.Chart.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "chart size must not be negative")
	}
	if c.Server.MaxUploadSize <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server.max_upload_size must be positive")
	}
	return nil
}

// Write encodes c as TOML.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

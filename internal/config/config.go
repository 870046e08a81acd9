// Package config loads gitref settings from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/thiagokokada/gitref/internal/refname"
	"github.com/thiagokokada/gitref/internal/render"
	"github.com/thiagokokada/gitref/internal/watch"
)

type Config struct {
	// Repo is the repository used when -C is not given.
	Repo string `toml:"repo"`
	// Namespace and Remote scope "render" when the flags are not given.
	Namespace refname.Name     `toml:"namespace"`
	Remote    refname.Name     `toml:"remote"`
	Format    render.Format    `toml:"format"`
	Color     render.ColorMode `toml:"color"`
	Theme     render.Theme     `toml:"theme"`
	Watch     Watch            `toml:"watch"`
}

type Watch struct {
	Debounce Duration `toml:"debounce"`
}

// Duration is a time.Duration spelled like "350ms" in TOML.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	parsed, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	if parsed < 0 {
		return fmt.Errorf("negative duration %s", parsed)
	}
	*d = Duration(parsed)
	return nil
}

func Default() Config {
	return Config{
		Repo:   ".",
		Format: render.FormatText,
		Color:  render.ColorAuto,
		Theme:  render.ThemeAuto,
		Watch:  Watch{Debounce: Duration(watch.DefaultDelay)},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/gitref/config.toml, falling back to
// the platform user config directory.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		dir, err = os.UserConfigDir()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, "gitref", "config.toml"), nil
}

// Load reads path on top of the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("parse config %s:%d:%d: %w", path, row, col, err)
		}
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Repo == "" {
		cfg.Repo = "."
	}
	return cfg, nil
}

// LoadOptional is like Load but returns the defaults when path does not
// exist.
func LoadOptional(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

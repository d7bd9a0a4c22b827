// Package config loads settings from a TOML file and MOREEVER_ environment
// variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Site      SiteConfig
	Selection SelectionConfig
	Navigator NavigatorConfig
	Web       WebConfig
	Log       LogConfig
}

// SiteConfig says where the generated pages live. Root is a local
// directory; BaseURL, when set, makes probes go over HTTP instead.
type SiteConfig struct {
	Root    string
	BaseURL string `mapstructure:"base_url"`
}

// SelectionConfig is the selection shown at startup.
type SelectionConfig struct {
	Vocab   string
	Stemmer string
	Corpus  string
}

// NavigatorConfig tunes the navigator.
type NavigatorConfig struct {
	// Fulltext is the document shown before any navigation.
	Fulltext     string
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
}

// WebConfig holds web mode settings.
type WebConfig struct {
	Addr string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
	File  string
	JSON  bool
}

// DefaultPath is the config file used when MOREEVER_CONFIG is not set.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "moreever", "config.toml")
}

// Load reads configuration from path (or MOREEVER_CONFIG, or the default
// location) and the environment. A missing file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("site.root", "site")
	v.SetDefault("site.base_url", "")
	v.SetDefault("selection.vocab", "values")
	v.SetDefault("selection.stemmer", "sb")
	v.SetDefault("selection.corpus", "all")
	v.SetDefault("navigator.fulltext", "")
	v.SetDefault("navigator.probe_timeout", 5*time.Second)
	v.SetDefault("web.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.json", false)

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("MOREEVER_CONFIG")
	}
	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix("MOREEVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Package config loads tasktree settings from defaults, the user config file,
// an explicit config path and TASKTREE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for tasktree.
type Config struct {
	Log    LogConfig    `mapstructure:"log" json:"log" yaml:"log"`
	Web    WebConfig    `mapstructure:"web" json:"web" yaml:"web"`
	UI     UIConfig     `mapstructure:"ui" json:"ui" yaml:"ui"`
	Output OutputConfig `mapstructure:"output" json:"output" yaml:"output"`
}

type LogConfig struct {
	Level string `mapstructure:"level" json:"level" yaml:"level"`
	// File is where the TUI writes its log (the terminal is taken by the UI).
	File string `mapstructure:"file" json:"file" yaml:"file"`
}

type WebConfig struct {
	Addr string `mapstructure:"addr" json:"addr" yaml:"addr"`
}

type UIConfig struct {
	// ConfirmDelete asks before deleting a task. Disabling it answers "yes" automatically.
	ConfirmDelete bool `mapstructure:"confirm_delete" json:"confirm_delete" yaml:"confirm_delete"`
	PreviewWidth  int  `mapstructure:"preview_width" json:"preview_width" yaml:"preview_width"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" json:"format" yaml:"format"`
	Pretty bool   `mapstructure:"pretty" json:"pretty" yaml:"pretty"`
}

const envPrefix = "TASKTREE"

// Load reads configuration. Precedence (highest to lowest):
// 1. TASKTREE_* environment variables (TASKTREE_WEB_ADDR, TASKTREE_LOG_LEVEL, ...)
// 2. explicitPath, when non-empty (must exist)
// 3. user config ($XDG_CONFIG_HOME/tasktree/config.yaml)
// 4. built-in defaults
func Load(explicitPath string) (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(UserConfigDir())
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	explicitPath = strings.TrimSpace(explicitPath)
	if explicitPath != "" {
		ov := viper.New()
		ov.SetConfigFile(explicitPath)
		if err := ov.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config from %s: %w", explicitPath, err)
		}
		if err := v.MergeConfigMap(ov.AllSettings()); err != nil {
			return nil, fmt.Errorf("merging config: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromPath reads only defaults, path and environment; the user config is skipped.
func LoadFromPath(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return unmarshal(v)
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := unmarshal(newViper())
	if err != nil {
		// Defaults are static; a failure here is a programming error.
		panic(err)
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	cfg.Web.Addr = strings.TrimSpace(cfg.Web.Addr)
	if cfg.UI.PreviewWidth < 20 {
		cfg.UI.PreviewWidth = 20
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("web.addr", "127.0.0.1:8787")
	v.SetDefault("ui.confirm_delete", true)
	v.SetDefault("ui.preview_width", 60)
	v.SetDefault("output.format", "json")
	v.SetDefault("output.pretty", false)
}

// UserConfigDir returns the XDG config directory for tasktree.
func UserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tasktree")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "tasktree")
	}
	return filepath.Join(home, ".config", "tasktree")
}

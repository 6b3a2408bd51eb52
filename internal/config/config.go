// Package config manages application configuration from various sources.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Data defines storage configuration.
type Data struct {
	Directory string `json:"directory,omitempty" mapstructure:"directory"`
}

// Suggestions configures the suggestion panel.
type Suggestions struct {
	// Max caps the presented suggestions; 0 means no cap.
	Max int `json:"max" mapstructure:"max"`
}

// TUIConfig defines the configuration for the Terminal User Interface.
type TUIConfig struct {
	Theme string `json:"theme,omitempty" mapstructure:"theme"`
}

// Config is the main configuration structure for the application.
type Config struct {
	Data        Data        `json:"data" mapstructure:"data"`
	WorkingDir  string      `json:"wd,omitempty" mapstructure:"wd"`
	Debug       bool        `json:"debug,omitempty" mapstructure:"debug"`
	Workspace   string      `json:"workspace,omitempty" mapstructure:"workspace"`
	Suggestions Suggestions `json:"suggestions" mapstructure:"suggestions"`
	TUI         TUIConfig   `json:"tui" mapstructure:"tui"`
}

const (
	defaultDataDirectory  = ".lens"
	defaultMaxSuggestions = 5
	appName               = "lens"

	ThemeDark  = "dark"
	ThemeLight = "light"
)

var cfg *Config

// Load reads .env, the global config file and a local .lens.json in
// workingDir, in that order, and caches the result. debug forces debug mode.
func Load(workingDir string, debug bool) (*Config, error) {
	if cfg != nil {
		return cfg, nil
	}

	loaded, err := load(viper.GetViper(), workingDir, debug)
	if err != nil {
		return loaded, err
	}
	cfg = loaded

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetLogLoggerLevel(level)
	return cfg, nil
}

func load(v *viper.Viper, workingDir string, debug bool) (*Config, error) {
	if err := godotenv.Load(filepath.Join(workingDir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("reading .env", "error", err)
	}

	c := &Config{WorkingDir: workingDir}
	configureViper(v)
	setDefaults(v, debug)

	if err := readConfig(v.ReadInConfig()); err != nil {
		return c, err
	}
	mergeLocalConfig(v, workingDir)

	if err := v.Unmarshal(c); err != nil {
		return c, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	c.WorkingDir = workingDir
	if debug {
		c.Debug = true
	}

	if err := validate(c); err != nil {
		return c, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

// configureViper sets up viper's configuration paths and environment variables.
func configureViper(v *viper.Viper) {
	v.SetConfigName(fmt.Sprintf(".%s", appName))
	v.SetConfigType("json")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(fmt.Sprintf("$XDG_CONFIG_HOME/%s", appName))
	v.AddConfigPath(fmt.Sprintf("$HOME/.config/%s", appName))
	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

func setDefaults(v *viper.Viper, debug bool) {
	v.SetDefault("data.directory", defaultDataDirectory)
	v.SetDefault("suggestions.max", defaultMaxSuggestions)
	v.SetDefault("tui.theme", ThemeDark)
	v.SetDefault("workspace", "")
	v.SetDefault("debug", debug)
}

// readConfig handles the result of reading a configuration file.
func readConfig(err error) error {
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("failed to read config: %w", err)
}

// mergeLocalConfig loads and merges configuration from the local directory.
func mergeLocalConfig(v *viper.Viper, workingDir string) {
	local := viper.New()
	local.SetConfigName(fmt.Sprintf(".%s", appName))
	local.SetConfigType("json")
	local.AddConfigPath(workingDir)

	if err := local.ReadInConfig(); err == nil {
		if err := v.MergeConfigMap(local.AllSettings()); err != nil {
			slog.Warn("merging local config", "error", err)
		}
	}
}

func validate(c *Config) error {
	if c.Suggestions.Max < 0 {
		return fmt.Errorf("suggestions.max must not be negative, got %d", c.Suggestions.Max)
	}
	switch c.TUI.Theme {
	case ThemeDark, ThemeLight:
	default:
		slog.Warn("unknown theme, using dark", "theme", c.TUI.Theme)
		c.TUI.Theme = ThemeDark
	}
	return nil
}

// Get returns the current configuration.
func Get() *Config {
	return cfg
}

// DataDirectory resolves the data directory against the working directory.
func (c *Config) DataDirectory() string {
	if filepath.IsAbs(c.Data.Directory) {
		return c.Data.Directory
	}
	return filepath.Join(c.WorkingDir, c.Data.Directory)
}

func updateCfgFile(updateCfg func(config *Config)) error {
	configFile := viper.ConfigFileUsed()
	configData := []byte(`{}`)
	if configFile == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		configFile = filepath.Join(homeDir, fmt.Sprintf(".%s.json", appName))
		slog.Info("config file not found, creating new one", "path", configFile)
	} else {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		configData = data
	}

	var userCfg Config
	if err := json.Unmarshal(configData, &userCfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	updateCfg(&userCfg)

	updated, err := json.MarshalIndent(userCfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configFile, updated, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// UpdateTheme switches the theme and persists it in the global config file.
func UpdateTheme(theme string) error {
	if cfg == nil {
		return fmt.Errorf("config not loaded")
	}
	cfg.TUI.Theme = theme
	return updateCfgFile(func(config *Config) {
		config.TUI.Theme = theme
	})
}

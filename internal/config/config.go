// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const appName = "reportu"

// Config holds all configuration values for reportu.
type Config struct {
	DataDir            string        `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel           string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile            string        `mapstructure:"log_file" yaml:"log_file"`
	SubmitTimeout      time.Duration `mapstructure:"submit_timeout" yaml:"submit_timeout"`
	MaxAttachments     int           `mapstructure:"max_attachments" yaml:"max_attachments"`
	MaxAttachmentBytes int64         `mapstructure:"max_attachment_bytes" yaml:"max_attachment_bytes"`
	SeedDemo           bool          `mapstructure:"seed_demo" yaml:"seed_demo"`
	Offline            bool          `mapstructure:"offline" yaml:"offline"`
}

// Defaults returns the configuration used when no file or env var overrides a key.
func Defaults() *Config {
	return &Config{
		DataDir:       ".reportu",
		LogLevel:      "info",
		SubmitTimeout: 30 * time.Second,
		SeedDemo:      true,
	}
}

// envKeys lists every key bound to a REPORTU_* variable.
var envKeys = []string{
	"data_dir",
	"log_level",
	"log_file",
	"submit_timeout",
	"max_attachments",
	"max_attachment_bytes",
	"seed_demo",
	"offline",
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName(appName)

	d := Defaults()
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("submit_timeout", d.SubmitTimeout)
	v.SetDefault("max_attachments", d.MaxAttachments)
	v.SetDefault("max_attachment_bytes", d.MaxAttachmentBytes)
	v.SetDefault("seed_demo", d.SeedDemo)
	v.SetDefault("offline", d.Offline)

	v.SetEnvPrefix("REPORTU")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit bindings so bool/int/duration values parse from the environment
	for _, key := range envKeys {
		if err := v.BindEnv(key, "REPORTU_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects values the rest of the program cannot work with.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.SubmitTimeout < 0 {
		return fmt.Errorf("submit_timeout must not be negative, got %s", c.SubmitTimeout)
	}
	if c.MaxAttachments < 0 {
		return fmt.Errorf("max_attachments must not be negative, got %d", c.MaxAttachments)
	}
	if c.MaxAttachmentBytes < 0 {
		return fmt.Errorf("max_attachment_bytes must not be negative, got %d", c.MaxAttachmentBytes)
	}
	return nil
}

// StoreDir is where the embedded NATS server keeps JetStream data.
func (c *Config) StoreDir() string {
	return filepath.Join(c.DataDir, "jetstream")
}

// StagingDir is the parent directory for attachment preview copies.
func (c *Config) StagingDir() string {
	return filepath.Join(c.DataDir, "staging")
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/reportu/reportu.yml or $XDG_CONFIG_HOME/reportu/reportu.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, appName+".yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName, appName+".yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return appName + ".yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Survey source and schema
	FieldsFile string `mapstructure:"fields_file" yaml:"fields_file"`
	RulesFile  string `mapstructure:"rules_file" yaml:"rules_file"`
	SourceURL  string `mapstructure:"source_url" yaml:"source_url"`
	SheetName  string `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex int    `mapstructure:"sheet_index" yaml:"sheet_index"`
	Delimiter  string `mapstructure:"delimiter" yaml:"delimiter"`

	// Pipeline
	MissingLabel string `mapstructure:"missing_label" yaml:"missing_label"`
	Workers      int    `mapstructure:"workers" yaml:"workers"`

	// Output
	OutputFormat   string `mapstructure:"output_format" yaml:"output_format"`
	MaxOutlierRows int    `mapstructure:"max_outlier_rows" yaml:"max_outlier_rows"`
	LogLevel       string `mapstructure:"log_level" yaml:"log_level"`

	// HTTP
	HTTPTimeoutSec int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
}

// HTTPTimeout returns the fetch timeout as a duration.
func (g *Global) HTTPTimeout() time.Duration {
	return time.Duration(g.HTTPTimeoutSec) * time.Second
}

// Dir returns ~/.surveylens.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".surveylens"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.surveylens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env (including .env) > config file (cfgFile or ~/.surveylens/config.yaml) > defaults.
func Load(cfgFile string) (*Global, error) {
	// A .env in the working directory may carry SURVEYLENS_* settings; it
	// never overrides variables already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("SURVEYLENS")
	v.AutomaticEnv()

	v.SetDefault("fields_file", "")
	v.SetDefault("rules_file", "")
	v.SetDefault("source_url", "")
	v.SetDefault("sheet_name", "")
	v.SetDefault("sheet_index", 1)
	v.SetDefault("delimiter", "")
	v.SetDefault("missing_label", "Sin respuesta")
	v.SetDefault("workers", 0)
	v.SetDefault("output_format", "md")
	v.SetDefault("max_outlier_rows", 20)
	v.SetDefault("log_level", "info")
	v.SetDefault("http_timeout_sec", 30)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

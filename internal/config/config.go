package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultPath       = "restaurante.yaml"
	DefaultSourceType = SourceCSV
	DefaultDataDir    = "."
	DefaultOutputDir  = "results_story_restaurante"
	DefaultDSNEnv     = "DATABASE_URL"
	DefaultPeriod     = "2025-01 a 2025-08"
	DefaultLogLevel   = "info"
	DefaultLogEnv     = "development"
)

// Source types.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

type Config struct {
	Source SourceConfig `yaml:"source"`
	Output OutputConfig `yaml:"output"`
	Report ReportConfig `yaml:"report"`
	Log    LogConfig    `yaml:"log"`
}

type SourceConfig struct {
	// Type is one of: csv | postgres.
	Type string `yaml:"type"`

	// DataDir holds orders.csv, order_items.csv, products.csv and customers.csv.
	DataDir string `yaml:"data_dir"`

	// DSNEnv is the name of the environment variable holding the PostgreSQL URL.
	DSNEnv string `yaml:"dsn_env"`
}

// DSN returns the database URL resolved from the environment.
func (s SourceConfig) DSN() string {
	if s.DSNEnv == "" {
		return ""
	}
	return os.Getenv(s.DSNEnv)
}

type OutputConfig struct {
	Dir string `yaml:"dir"`

	// MetricsFile is written inside Dir when set.
	MetricsFile string `yaml:"metrics_file"`
}

type ReportConfig struct {
	Period string `yaml:"period"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Environment string `yaml:"environment"`
}

// Load reads and parses the YAML config file at path. When the file does not
// exist and required is false, the defaults are returned.
func Load(path string, required bool) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !required:
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// LoadEnv loads variables from the given .env files into the process
// environment. Missing files are ignored; existing variables are kept.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Source: SourceConfig{
			Type:    DefaultSourceType,
			DataDir: DefaultDataDir,
			DSNEnv:  DefaultDSNEnv,
		},
		Output: OutputConfig{Dir: DefaultOutputDir},
		Report: ReportConfig{Period: DefaultPeriod},
		Log: LogConfig{
			Level:       DefaultLogLevel,
			Environment: DefaultLogEnv,
		},
	}
}

// Validate checks required fields and enums. The CLI calls it again after
// applying flag overrides.
func (c *Config) Validate() error {
	switch c.Source.Type {
	case SourceCSV:
		if c.Source.DataDir == "" {
			return fmt.Errorf("source.data_dir is required for the csv source")
		}
	case SourcePostgres:
		if c.Source.DSNEnv == "" {
			return fmt.Errorf("source.dsn_env is required for the postgres source")
		}
	default:
		return fmt.Errorf("source.type: unknown type %q", c.Source.Type)
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	return nil
}

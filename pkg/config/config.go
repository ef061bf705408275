package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marketbayes/market-bayes/pkg/learning"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config represents mbayes configuration
type Config struct {
	// Record files
	Data DataConfig `yaml:"data" toml:"data"`

	// Classifier settings
	Model ModelConfig `yaml:"model" toml:"model"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging" toml:"logging"`

	// Shared model store
	Redis learning.RedisConfig `yaml:"redis" toml:"redis"`

	// News collection settings
	Ingest IngestConfig `yaml:"ingest" toml:"ingest"`
}

// DataConfig locates the training and test record files
type DataConfig struct {
	TrainPath   string `yaml:"train_path" toml:"train_path"`
	TestPath    string `yaml:"test_path" toml:"test_path"`
	OutputPath  string `yaml:"output_path" toml:"output_path"`
	NoLabel     string `yaml:"no_label" toml:"no_label"`         // class value marking unlabeled rows
	ShuffleSeed int64  `yaml:"shuffle_seed" toml:"shuffle_seed"` // 0 = random
	Shuffle     bool   `yaml:"shuffle" toml:"shuffle"`
}

// ModelConfig contains classifier parameters and model file locations
type ModelConfig struct {
	learning.Params `yaml:",inline"`

	// JSON snapshot written by train and read by predict
	ModelPath string `yaml:"model_path" toml:"model_path"`

	// Human-readable word count dump, empty = skip
	DumpPath string `yaml:"dump_path" toml:"dump_path"`

	// Name under which models are pushed to Redis
	Name string `yaml:"name" toml:"name"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // console, json
}

// IngestConfig controls news scraping and dataset preparation
type IngestConfig struct {
	BaseURL           string  `yaml:"base_url" toml:"base_url"`
	StartYear         int     `yaml:"start_year" toml:"start_year"`
	EndYear           int     `yaml:"end_year" toml:"end_year"`
	RequestsPerSecond float64 `yaml:"requests_per_second" toml:"requests_per_second"`
	TimeoutMs         int     `yaml:"timeout_ms" toml:"timeout_ms"`
	UserAgent         string  `yaml:"user_agent" toml:"user_agent"`

	// Daily index prices, Yahoo Finance CSV export
	IndexPath string `yaml:"index_path" toml:"index_path"`

	// Raw scraped news and the cleaned file
	NewsPath    string `yaml:"news_path" toml:"news_path"`
	CleanedPath string `yaml:"cleaned_path" toml:"cleaned_path"`

	// Directory receiving trg.csv and tst.csv
	OutputDir string `yaml:"output_dir" toml:"output_dir"`

	// Lua script with a normalize(text) function, empty = none
	NormalizeScript string `yaml:"normalize_script" toml:"normalize_script"`

	// Abstracts this short or shorter are dropped
	MinAbstractLength int `yaml:"min_abstract_length" toml:"min_abstract_length"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			TrainPath:  filepath.Join("data", "trg.csv"),
			TestPath:   filepath.Join("data", "tst.csv"),
			OutputPath: "predictions.csv",
			NoLabel:    "None",
			Shuffle:    true,
		},
		Model: ModelConfig{
			Params:    learning.DefaultParams(),
			ModelPath: "model.json",
			DumpPath:  "",
			Name:      "default",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Redis: *learning.DefaultRedisConfig(),
		Ingest: IngestConfig{
			BaseURL:           "https://en.wikipedia.org/wiki/",
			StartYear:         1971,
			EndYear:           2024,
			RequestsPerSecond: 1,
			TimeoutMs:         30000,
			UserAgent:         "mbayes/1.0 (news dataset builder)",
			IndexPath:         filepath.Join("data_collection", "IXIC.csv"),
			NewsPath:          filepath.Join("data_collection", "news.csv"),
			CleanedPath:       filepath.Join("data_collection", "news_cleaned.csv"),
			OutputDir:         "data",
			MinAbstractLength: 5,
		},
	}
}

// LoadConfig loads configuration from file
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	config := DefaultConfig()

	// If no config file specified, return defaults
	if configPath == "" {
		return config, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := unmarshal(configPath, data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := marshal(configPath, c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// isTOML reports whether path names a TOML file; anything else is YAML
func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func unmarshal(path string, data []byte, c *Config) error {
	if isTOML(path) {
		return toml.Unmarshal(data, c)
	}
	return yaml.Unmarshal(data, c)
}

func marshal(path string, c *Config) ([]byte, error) {
	if isTOML(path) {
		return toml.Marshal(c)
	}
	return yaml.Marshal(c)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Model.Params.Validate(); err != nil {
		return err
	}

	if c.Data.NoLabel == "" {
		return fmt.Errorf("no_label cannot be empty")
	}

	validLevels := []string{"trace", "debug", "info", "warn", "error"}
	validLevel := false
	for _, level := range validLevels {
		if c.Logging.Level == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("logging format must be 'console' or 'json'")
	}

	if c.Ingest.StartYear > c.Ingest.EndYear {
		return fmt.Errorf("ingest start_year must not be after end_year")
	}

	if c.Ingest.RequestsPerSecond <= 0 {
		return fmt.Errorf("ingest requests_per_second must be > 0")
	}

	if c.Ingest.TimeoutMs < 100 {
		return fmt.Errorf("ingest timeout_ms must be >= 100")
	}

	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/xkmsoft/porterstemmer/pkg/engine"
)

const (
	DefaultDataDirectory = "data"
	DefaultMultiplier    = 2
)

// Config is the engine configuration file.
type Config struct {
	Algorithm         string   `yaml:"algorithm"`
	StopWords         []string `yaml:"stop_words"`
	PageSize          int      `yaml:"page_size"`
	WorkersMultiplier int      `yaml:"workers_multiplier"`
	DataDirectory     string   `yaml:"data_directory"`
}

func Default() *Config {
	return &Config{
		Algorithm:         engine.AlgorithmPorter,
		PageSize:          engine.PageSize,
		WorkersMultiplier: DefaultMultiplier,
		DataDirectory:     DefaultDataDirectory,
	}
}

// Load reads a YAML configuration file. Fields missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if err := engine.ValidateAlgorithm(cfg.Algorithm); err != nil {
		return err
	}
	if cfg.PageSize <= 0 {
		return errors.New("page_size must be positive")
	}
	if cfg.WorkersMultiplier <= 0 {
		return errors.New("workers_multiplier must be positive")
	}
	if cfg.DataDirectory == "" {
		return errors.New("data_directory is required")
	}
	return nil
}

func (cfg *Config) IndexerOptions() engine.IndexerOptions {
	return engine.IndexerOptions{
		Algorithm:  cfg.Algorithm,
		StopWords:  cfg.StopWords,
		Multiplier: cfg.WorkersMultiplier,
		PageSize:   cfg.PageSize,
	}
}

// LoadEnv loads the given .env files (".env" when none are given) into the
// process environment. Missing files are ignored, variables already set win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if _, err := os.Stat(file); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("loading %s: %w", file, err)
		}
	}
	return nil
}

func String(key string, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func Int(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func Bool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

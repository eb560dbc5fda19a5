package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const appName = "flashcards"

type Config struct {
	StorePath string `yaml:"store_path"`
	StartDir  string `yaml:"start_dir"`
	LogFile   string `yaml:"log_file"`
	LogLevel  string `yaml:"log_level"`
}

// defaultConfigPath is where the config file is looked for when no path is
// given on the command line.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, appName, "config.yaml")
}

// loadConfig reads the YAML file at path, then applies environment
// overrides and defaults. A missing file is not an error.
func loadConfig(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.StorePath = getEnv("FLASHCARDS_STORE", cfg.StorePath)
	cfg.StartDir = getEnv("FLASHCARDS_START_DIR", cfg.StartDir)
	cfg.LogFile = getEnv("FLASHCARDS_LOG_FILE", cfg.LogFile)
	cfg.LogLevel = getEnv("FLASHCARDS_LOG_LEVEL", cfg.LogLevel)

	if cfg.StorePath == "" {
		cfg.StorePath = defaultStorePath()
	}
	if cfg.StartDir == "" {
		cfg.StartDir = "."
	}
	if cfg.LogFile == "" {
		cfg.LogFile = "debug.log"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return &cfg, nil
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return appName + ".db"
	}
	return filepath.Join(dir, appName, appName+".db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

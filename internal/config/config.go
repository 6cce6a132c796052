// Package config loads dp-headlines settings from the environment.
//
// A .env file in the working directory is read first when present; variables already
// set in the process environment win over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config holds settings for a scrape run and the read-only commands
type Config struct {
	URL        string
	UserAgent  string
	Timeout    time.Duration
	DataDir    string
	StoreName  string
	Timezone   string
	Location   *time.Location
	LogLevel   string
	LogFile    string
	ListenAddr string
}

// StorePath returns the JSON file the headline history is kept in
func (c *Config) StorePath() string {
	name := c.StoreName
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	return filepath.Join(c.DataDir, name)
}

// Load reads .env (if any) and builds a Config from environment variables
func Load() (*Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit dotenv files. Missing files are ignored.
func LoadFiles(files ...string) (*Config, error) {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", file, err)
		}
	}

	c := &Config{
		URL:        getEnv("DP_URL", "https://www.thedp.com/"),
		UserAgent:  getEnv("DP_USER_AGENT", "dp-headlines/1.0 (github.com/pfrederiksen/dp-headlines)"),
		Timeout:    getDuration("DP_TIMEOUT", "30s"),
		DataDir:    getEnv("DP_DATA_DIR", "data"),
		StoreName:  getEnv("DP_STORE_NAME", "daily_pennsylvanian_headlines"),
		Timezone:   getEnv("DP_TIMEZONE", "America/New_York"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFile:    getEnv("DP_LOG_FILE", "scrape.log"),
		ListenAddr: getEnv("DP_LISTEN_ADDR", "127.0.0.1:8080"),
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks the config and resolves Location from Timezone
func (c *Config) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("DP_URL must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("DP_TIMEOUT must be positive")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("DP_DATA_DIR must not be empty")
	}
	if strings.TrimSpace(c.StoreName) == "" {
		return fmt.Errorf("DP_STORE_NAME must not be empty")
	}
	if strings.ContainsAny(c.StoreName, `/\`) {
		return fmt.Errorf("DP_STORE_NAME must be a file name, got %q", c.StoreName)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("DP_TIMEZONE %q: %w", c.Timezone, err)
	}
	c.Location = loc

	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}

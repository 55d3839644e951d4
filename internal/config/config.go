// Package config loads application settings from defaults, an optional YAML
// file, an optional .env file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCatalogBaseURL = "https://public.opendatasoft.com/api/explore/v2.1/catalog/datasets/geonames-all-cities-with-a-population-1000/records"
	DefaultWeatherBaseURL = "https://api.openweathermap.org/data/2.5"
	DefaultProxyTarget    = "https://public.opendatasoft.com"
)

// Refinement is a server-side catalog filter (refine=field:"value")
type Refinement struct {
	Field string `yaml:"field"`
	Value string `yaml:"value"`
}

// Config holds all runtime settings
type Config struct {
	OpenWeatherAPIKey string        `yaml:"openweather_api_key"`
	WeatherBaseURL    string        `yaml:"weather_base_url"`
	CatalogBaseURL    string        `yaml:"catalog_base_url"`
	CatalogLimit      int           `yaml:"catalog_limit"`
	CatalogRefine     []Refinement  `yaml:"catalog_refine"`
	DefaultUnits      string        `yaml:"default_units"`
	DataDir           string        `yaml:"data_dir"`
	FavoritesBackend  string        `yaml:"favorites_backend"` // sqlite or bolt
	LogLevel          string        `yaml:"log_level"`
	LogFile           string        `yaml:"log_file"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	ZipkinURL         string        `yaml:"zipkin_url"` // empty disables trace export
	ProxyAddr         string        `yaml:"proxy_addr"`
	ProxyTarget       string        `yaml:"proxy_target"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		WeatherBaseURL: DefaultWeatherBaseURL,
		CatalogBaseURL: DefaultCatalogBaseURL,
		CatalogLimit:   100,
		CatalogRefine: []Refinement{
			{Field: "timezone", Value: "Asia"},
			{Field: "cou_name_en", Value: "India"},
		},
		DefaultUnits:     "metric",
		DataDir:          "data",
		FavoritesBackend: "sqlite",
		LogLevel:         "info",
		RequestTimeout:   30 * time.Second,
		ProxyAddr:        "localhost:3001",
		ProxyTarget:      DefaultProxyTarget,
	}
}

// Load builds the configuration. path may be empty; a missing .env file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.OpenWeatherAPIKey = getEnv("OPENWEATHER_API_KEY", c.OpenWeatherAPIKey)
	c.WeatherBaseURL = getEnv("WEATHER_BASE_URL", c.WeatherBaseURL)
	c.CatalogBaseURL = getEnv("CATALOG_BASE_URL", c.CatalogBaseURL)
	c.CatalogLimit = getEnvInt("CATALOG_LIMIT", c.CatalogLimit)
	c.DefaultUnits = getEnv("DEFAULT_UNITS", c.DefaultUnits)
	c.DataDir = getEnv("DATA_DIR", c.DataDir)
	c.FavoritesBackend = getEnv("FAVORITES_BACKEND", c.FavoritesBackend)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)
	c.ZipkinURL = getEnv("ZIPKIN_URL", c.ZipkinURL)
	c.ProxyAddr = getEnv("PROXY_ADDR", c.ProxyAddr)
	c.ProxyTarget = getEnv("PROXY_TARGET", c.ProxyTarget)

	if secs := getEnvInt("REQUEST_TIMEOUT_SECONDS", 0); secs > 0 {
		c.RequestTimeout = time.Duration(secs) * time.Second
	}
}

// Validate checks values that would otherwise fail later in surprising ways
func (c *Config) Validate() error {
	if c.CatalogLimit <= 0 || c.CatalogLimit > 100 {
		return fmt.Errorf("catalog_limit must be between 1 and 100, got %d", c.CatalogLimit)
	}
	switch c.FavoritesBackend {
	case "sqlite", "bolt":
	default:
		return fmt.Errorf("unknown favorites_backend %q (want sqlite or bolt)", c.FavoritesBackend)
	}
	switch c.DefaultUnits {
	case "metric", "imperial":
	default:
		return fmt.Errorf("unknown default_units %q (want metric or imperial)", c.DefaultUnits)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	return nil
}

// DBPath returns the SQLite database location inside DataDir
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "city-weather.db")
}

// BoltPath returns the bbolt database location inside DataDir
func (c *Config) BoltPath() string {
	return filepath.Join(c.DataDir, "city-weather.bolt")
}

// LogPath returns LogFile, defaulting to a file inside DataDir
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, "city-weather.log")
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// Package config loads runtime settings from SHILAVAKYA_* environment
// variables. A .env file, if present, is applied by the CLI before Load runs.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ironsheep/shilavakya/internal/imaging"
	"github.com/ironsheep/shilavakya/internal/paleography"
)

// EnvPrefix is prepended to every variable name read by LoadFromEnv.
const EnvPrefix = "SHILAVAKYA_"

// DefaultMaxBlurSize is the largest kernel the research interface offers.
const DefaultMaxBlurSize = 15

type Config struct {
	Host           string
	Port           string
	MaxUploadBytes int64
	MaxBlurSize    int
	MaxPixels      int64
	Backend        string
	Classifier     string
	OCRLanguage    string
	TessdataPrefix string
	RequestTimeout time.Duration
	LogLevel       string
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// LoadFromEnv builds a Config from the environment and validates it.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:           getEnvOrDefault("HOST", "127.0.0.1"),
		Port:           getEnvOrDefault("PORT", "8080"),
		MaxUploadBytes: parseIntOrDefault("MAX_UPLOAD_BYTES", 20*1024*1024), // 20MB
		MaxBlurSize:    int(parseIntOrDefault("MAX_BLUR_SIZE", DefaultMaxBlurSize)),
		MaxPixels:      parseIntOrDefault("MAX_PIXELS", imaging.DefaultMaxPixels),
		Backend:        getEnvOrDefault("BACKEND", imaging.NativeBackend),
		Classifier:     getEnvOrDefault("CLASSIFIER", paleography.SubstringName),
		OCRLanguage:    getEnvOrDefault("OCR_LANGUAGE", "tel"),
		TessdataPrefix: getEnvOrDefault("TESSDATA_PREFIX", ""),
		RequestTimeout: parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		LogLevel:       strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that is out of range.
func (c *Config) Validate() error {
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid %sPORT: %q", EnvPrefix, c.Port)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("%sMAX_UPLOAD_BYTES must be > 0 (got %d)", EnvPrefix, c.MaxUploadBytes)
	}
	if c.MaxPixels <= 0 {
		return fmt.Errorf("%sMAX_PIXELS must be > 0 (got %d)", EnvPrefix, c.MaxPixels)
	}
	if c.MaxBlurSize < 1 || c.MaxBlurSize%2 == 0 {
		return fmt.Errorf("%sMAX_BLUR_SIZE must be odd and positive (got %d)", EnvPrefix, c.MaxBlurSize)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%sREQUEST_TIMEOUT must be > 0 (got %s)", EnvPrefix, c.RequestTimeout)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid %sLOG_LEVEL: %q", EnvPrefix, c.LogLevel)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(EnvPrefix + key)); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port     string
	LogLevel string

	// Upload limits
	MaxFileSize int64

	// Extraction
	OCRLanguages  []string
	TextEncodings []string
}

func Load() (*Config, error) {
	maxFileSize, err := getEnvInt64("MAX_FILE_SIZE", 20*1024*1024)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_FILE_SIZE: %w", err)
	}

	cfg := &Config{
		Port:          getEnv("PORT", "5000"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		MaxFileSize:   maxFileSize,
		OCRLanguages:  getEnvList("OCR_LANGUAGES", "deu,eng"),
		TextEncodings: getEnvList("TEXT_ENCODINGS", "utf-8,latin-1,cp1252"),
	}

	if len(cfg.OCRLanguages) == 0 {
		return nil, fmt.Errorf("OCR_LANGUAGES must name at least one language")
	}
	if len(cfg.TextEncodings) == 0 {
		return nil, fmt.Errorf("TEXT_ENCODINGS must name at least one encoding")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.ParseInt(value, 10, 64)
}

func getEnvList(key, defaultValue string) []string {
	value := getEnv(key, defaultValue)

	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

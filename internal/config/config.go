// Package config reads server settings from environment variables, with the
// optional fragment deck coming from a YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds server settings.
type Config struct {
	Host           string
	Port           int
	WordListPath   string
	FragmentsPath  string
	AllowedOrigins []string
	LogLevel       string

	NATSEnabled bool
	NATSURL     string
}

// FromEnv reads BOOMPARTY_* environment variables with defaults.
func FromEnv() Config {
	return Config{
		Host:           getEnv("BOOMPARTY_HOST", ""),
		Port:           getEnvAsInt("BOOMPARTY_PORT", 3001),
		WordListPath:   getEnv("BOOMPARTY_WORDLIST", "words.txt"),
		FragmentsPath:  getEnv("BOOMPARTY_FRAGMENTS", ""),
		AllowedOrigins: []string{getEnv("BOOMPARTY_ORIGIN", "*")},
		LogLevel:       getEnv("BOOMPARTY_LOG_LEVEL", "info"),
		NATSEnabled:    getEnv("BOOMPARTY_NATS_URL", "") != "",
		NATSURL:        getEnv("BOOMPARTY_NATS_URL", ""),
	}
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type fragmentsFile struct {
	Fragments []string `yaml:"fragments"`
}

// LoadFragments reads a YAML fragment deck ({fragments: [...]}) from path.
func LoadFragments(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fragments file: %w", err)
	}

	var f fragmentsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fragments file: %w", err)
	}
	if len(f.Fragments) == 0 {
		return nil, fmt.Errorf("fragments file %s contains no fragments", path)
	}
	return f.Fragments, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

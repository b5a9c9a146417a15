// Package config provides runtime configuration for the recipe API.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings holds the server and store configuration. Values come from an
// optional YAML file, overridden by environment variables, with defaults
// applied last.
type Settings struct {
	Port                  string `yaml:"port"`
	MongoURI              string `yaml:"mongo_uri"`
	Database              string `yaml:"database"`
	RequestBodyLimitBytes int64  `yaml:"request_body_limit_bytes"`
}

// Load reads settings from the YAML file at path (skipped when empty) and
// applies the MONGO_URI, MONGO_DATABASE and PORT environment overrides.
func Load(path string) (*Settings, error) {
	settings := &Settings{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if uri := os.Getenv("MONGO_URI"); uri != "" {
		settings.MongoURI = uri
	}
	if database := os.Getenv("MONGO_DATABASE"); database != "" {
		settings.Database = database
	}
	if port := os.Getenv("PORT"); port != "" {
		settings.Port = port
	}

	settings.ApplyDefaults()
	return settings, nil
}

// ApplyDefaults fills unset fields with default values
func (s *Settings) ApplyDefaults() {
	if s.Port == "" {
		s.Port = "8080"
	}
	if s.MongoURI == "" {
		s.MongoURI = "mongodb://localhost:27017"
	}
	if s.Database == "" {
		s.Database = "smart_recipe_db"
	}
	if s.RequestBodyLimitBytes == 0 {
		s.RequestBodyLimitBytes = 1 << 20
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("MONGO_DATABASE", "")
	t.Setenv("PORT", "")

	settings, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if settings.Port != "8080" {
		t.Errorf("Default port = %s, want 8080", settings.Port)
	}
	if settings.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("Default mongo URI = %s", settings.MongoURI)
	}
	if settings.Database != "smart_recipe_db" {
		t.Errorf("Default database = %s", settings.Database)
	}
	if settings.RequestBodyLimitBytes != 1<<20 {
		t.Errorf("Default body limit = %d, want %d", settings.RequestBodyLimitBytes, 1<<20)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("port: \"9000\"\nmongo_uri: mongodb://db:27017\ndatabase: recipes_test\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if settings.Port != "9000" {
		t.Errorf("Port = %s, want 9000", settings.Port)
	}
	if settings.MongoURI != "mongodb://db:27017" {
		t.Errorf("MongoURI = %s, want mongodb://db:27017", settings.MongoURI)
	}
	if settings.Database != "recipes_test" {
		t.Errorf("Database = %s, want recipes_test", settings.Database)
	}
	// Unset fields still get defaults.
	if settings.RequestBodyLimitBytes != 1<<20 {
		t.Errorf("Body limit = %d, want default", settings.RequestBodyLimitBytes)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("mongo_uri: mongodb://file:27017\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv("MONGO_URI", "mongodb://env:27017")
	t.Setenv("MONGO_DATABASE", "env_db")
	t.Setenv("PORT", "7777")

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if settings.MongoURI != "mongodb://env:27017" {
		t.Errorf("Environment must override the file, got %s", settings.MongoURI)
	}
	if settings.Database != "env_db" {
		t.Errorf("Database = %s, want env_db", settings.Database)
	}
	if settings.Port != "7777" {
		t.Errorf("Port = %s, want 7777", settings.Port)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() with a missing file, wantErr, got nil")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: [unclosed"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() with malformed YAML, wantErr, got nil")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.APIURL != "http://localhost:7000" {
		t.Fatalf("unexpected default url: %q", cfg.APIURL)
	}
	if cfg.RequestTimeoutSeconds != 15 {
		t.Fatalf("unexpected default timeout: %d", cfg.RequestTimeoutSeconds)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Fatalf("empty path should yield defaults, got %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "api_url: https://api.example.com\nrequest_timeout_seconds: 30\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != "https://api.example.com" {
		t.Fatalf("api_url = %q", cfg.APIURL)
	}
	if cfg.RequestTimeoutSeconds != 30 {
		t.Fatalf("timeout = %d", cfg.RequestTimeoutSeconds)
	}
}

func TestLoadClampsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "api_url: \"\"\nrequest_timeout_seconds: 900\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != "http://localhost:7000" {
		t.Fatalf("empty url should fall back, got %q", cfg.APIURL)
	}
	if cfg.RequestTimeoutSeconds != 120 {
		t.Fatalf("timeout should clamp to 120, got %d", cfg.RequestTimeoutSeconds)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("bad yaml should error")
	}
}

func TestRequestTimeout(t *testing.T) {
	cfg := Config{RequestTimeoutSeconds: 42}
	if cfg.RequestTimeout() != 42*time.Second {
		t.Fatalf("RequestTimeout = %v", cfg.RequestTimeout())
	}
}

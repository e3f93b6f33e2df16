package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		envKeyConfigFile, envKeyHost, envKeyPort, envKeyDatabasePath,
		envKeyOpenAIBaseURL, envKeyAnthropicBaseURL, envKeyKeystoreSecret,
		envKeyRefreshInterval,
	} {
		t.Setenv(key, "")
		os.Unsetenv(key) //nolint:errcheck
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Host != "0.0.0.0" {
		t.Errorf("Host = %q", cfg.Host)
	}
	if cfg.Port != 3001 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.DatabasePath != "./data/parley.db" {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.ModelRefreshInterval != time.Hour {
		t.Errorf("ModelRefreshInterval = %v", cfg.ModelRefreshInterval)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(envKeyHost, "127.0.0.1")
	t.Setenv(envKeyPort, "9000")
	t.Setenv(envKeyKeystoreSecret, "s3cret")
	t.Setenv(envKeyRefreshInterval, "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("Host = %q", cfg.Host)
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.KeystoreSecret != "s3cret" {
		t.Errorf("KeystoreSecret = %q", cfg.KeystoreSecret)
	}
	if cfg.ModelRefreshInterval != 30*time.Minute {
		t.Errorf("ModelRefreshInterval = %v", cfg.ModelRefreshInterval)
	}
}

func TestLoad_YAMLFileAndPrecedence(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "parley.yaml")
	content := "host: 10.0.0.5\nport: 4000\ndatabase_path: /var/lib/parley.db\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(envKeyConfigFile, path)
	// Env beats file.
	t.Setenv(envKeyPort, "5000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Host != "10.0.0.5" {
		t.Errorf("Host = %q; want file value", cfg.Host)
	}
	if cfg.Port != 5000 {
		t.Errorf("Port = %d; env must win over file", cfg.Port)
	}
	if cfg.DatabasePath != "/var/lib/parley.db" {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv(envKeyPort, "not-a-port")
	if _, err := Load(); err == nil {
		t.Error("Load() with bad port succeeded; want error")
	}

	clearEnv(t)
	t.Setenv(envKeyRefreshInterval, "yearly")
	if _, err := Load(); err == nil {
		t.Error("Load() with bad interval succeeded; want error")
	}

	clearEnv(t)
	t.Setenv(envKeyConfigFile, filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Error("Load() with missing config file succeeded; want error")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q, want %q", cfg.ListenPort, ":8080")
	}
	if cfg.DataFile != "data/db.json" {
		t.Errorf("DataFile = %q, want %q", cfg.DataFile, "data/db.json")
	}
	if cfg.StatusTimeout != 10*time.Second {
		t.Errorf("StatusTimeout = %v, want 10s", cfg.StatusTimeout)
	}
	if cfg.CodeTTL != 10*time.Minute {
		t.Errorf("CodeTTL = %v, want 10m", cfg.CodeTTL)
	}
	if cfg.CodeMaxAttempts != 5 {
		t.Errorf("CodeMaxAttempts = %d, want 5", cfg.CodeMaxAttempts)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want empty (redis disabled by default)", cfg.RedisAddr)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins = %v, want [*]", cfg.AllowedOrigins)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MINEDEX_LISTEN_PORT", ":9090")
	t.Setenv("MINEDEX_STATUS_TIMEOUT", "3s")
	t.Setenv("MINEDEX_CODE_MAX_ATTEMPTS", "7")
	t.Setenv("MINEDEX_PRETTY_LOG", "false")

	cfg := Load()

	if cfg.ListenPort != ":9090" {
		t.Errorf("ListenPort = %q, want %q", cfg.ListenPort, ":9090")
	}
	if cfg.StatusTimeout != 3*time.Second {
		t.Errorf("StatusTimeout = %v, want 3s", cfg.StatusTimeout)
	}
	if cfg.CodeMaxAttempts != 7 {
		t.Errorf("CodeMaxAttempts = %d, want 7", cfg.CodeMaxAttempts)
	}
	if cfg.PrettyLog {
		t.Error("PrettyLog = true, want false")
	}
}

func TestLoadInvalidEnvFallsBack(t *testing.T) {
	t.Setenv("MINEDEX_STATUS_TIMEOUT", "soon")
	t.Setenv("MINEDEX_SMTP_PORT", "not-a-port")

	cfg := Load()

	if cfg.StatusTimeout != 10*time.Second {
		t.Errorf("StatusTimeout = %v, want default 10s on bad input", cfg.StatusTimeout)
	}
	if cfg.SMTPPort != 465 {
		t.Errorf("SMTPPort = %d, want default 465 on bad input", cfg.SMTPPort)
	}
}

func TestLoadConfigFileOverrides(t *testing.T) {
	file := filepath.Join(t.TempDir(), "minedex.yaml")
	content := `
listen_port: ":7070"
status_api_url: "https://status.example/api/mc/status"
status_timeout: 4s
admin_email: ops@example.com
allowed_origins:
  - https://dir.example
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	// File wins over env for the fields it names.
	t.Setenv("MINEDEX_LISTEN_PORT", ":9090")
	t.Setenv("MINEDEX_CONFIG_FILE", file)

	cfg := Load()

	if cfg.ListenPort != ":7070" {
		t.Errorf("ListenPort = %q, want file value %q", cfg.ListenPort, ":7070")
	}
	if cfg.StatusAPIURL != "https://status.example/api/mc/status" {
		t.Errorf("StatusAPIURL = %q, want file value", cfg.StatusAPIURL)
	}
	if cfg.StatusTimeout != 4*time.Second {
		t.Errorf("StatusTimeout = %v, want 4s", cfg.StatusTimeout)
	}
	if cfg.AdminEmail != "ops@example.com" {
		t.Errorf("AdminEmail = %q, want file value", cfg.AdminEmail)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://dir.example" {
		t.Errorf("AllowedOrigins = %v, want file value", cfg.AllowedOrigins)
	}
}

func TestLoadMissingConfigFilePanics(t *testing.T) {
	t.Setenv("MINEDEX_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	defer func() {
		if r := recover(); r == nil {
			t.Error("Load() should panic on an unreadable config file")
		}
	}()
	Load()
}

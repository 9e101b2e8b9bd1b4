package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
	if cfg.Log.Format != "console" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "console")
	}
	if cfg.Server.Addr != ":8501" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":8501")
	}
	if cfg.Server.MaxUploadBytes != 50<<20 {
		t.Errorf("Server.MaxUploadBytes = %d, want %d", cfg.Server.MaxUploadBytes, 50<<20)
	}
	if cfg.Server.SessionTTL != time.Hour {
		t.Errorf("Server.SessionTTL = %v, want %v", cfg.Server.SessionTTL, time.Hour)
	}
	if cfg.Output.Dir != "." {
		t.Errorf("Output.Dir = %q, want %q", cfg.Output.Dir, ".")
	}
	if cfg.Output.MissingLabel != "Missing" {
		t.Errorf("Output.MissingLabel = %q, want %q", cfg.Output.MissingLabel, "Missing")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("FASTTAB_ADDR", "127.0.0.1:9000")
	t.Setenv("FASTTAB_SESSION_TTL", "15m")
	t.Setenv("FASTTAB_LOG_FORMAT", "json")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, "127.0.0.1:9000")
	}
	if cfg.Server.SessionTTL != 15*time.Minute {
		t.Errorf("Server.SessionTTL = %v, want %v", cfg.Server.SessionTTL, 15*time.Minute)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "json")
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fasttab.env")
	content := "FASTTAB_MISSING_LABEL=Kosong\nFASTTAB_OUT_DIR=/tmp/out\nFASTTAB_LOG_LEVEL=debug\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	// Environment wins over the file.
	t.Setenv("FASTTAB_LOG_LEVEL", "warn")
	// godotenv sets variables process-wide; clear them afterwards.
	t.Setenv("FASTTAB_MISSING_LABEL", "")
	os.Unsetenv("FASTTAB_MISSING_LABEL")
	t.Setenv("FASTTAB_OUT_DIR", "")
	os.Unsetenv("FASTTAB_OUT_DIR")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Output.MissingLabel != "Kosong" {
		t.Errorf("Output.MissingLabel = %q, want %q", cfg.Output.MissingLabel, "Kosong")
	}
	if cfg.Output.Dir != "/tmp/out" {
		t.Errorf("Output.Dir = %q, want %q", cfg.Output.Dir, "/tmp/out")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "warn")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"bad duration", map[string]string{"FASTTAB_SESSION_TTL": "soon"}, "invalid duration"},
		{"bad integer", map[string]string{"FASTTAB_MAX_UPLOAD_BYTES": "lots"}, "invalid integer"},
		{"negative size", map[string]string{"FASTTAB_MAX_UPLOAD_BYTES": "-1"}, "FASTTAB_MAX_UPLOAD_BYTES must be positive"},
		{"zero ttl", map[string]string{"FASTTAB_SESSION_TTL": "0s"}, "FASTTAB_SESSION_TTL must be positive"},
		{"unknown format", map[string]string{"FASTTAB_LOG_FORMAT": "xml"}, "FASTTAB_LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

package config

import (
	"os"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	os.Setenv("ADMIN_JWT_SECRET", "test-secret-32-characters-long!!")
	os.Setenv("ADMIN_PASSWORD_HASH", "$2a$14$abcdefghijklmnopqrstuv")
	os.Setenv("DB_PASSWORD", "test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Database.Name != "groundbook" {
		t.Errorf("DB name: got %q, want %q", cfg.Database.Name, "groundbook")
	}
	if cfg.Admin.SessionExpiry != 8*time.Hour {
		t.Errorf("SessionExpiry: got %v, want %v", cfg.Admin.SessionExpiry, 8*time.Hour)
	}
	if len(cfg.Admin.Usernames) != 1 || cfg.Admin.Usernames[0] != "admin" {
		t.Errorf("Usernames default: got %v, want [admin]", cfg.Admin.Usernames)
	}
	if !cfg.Email.Dev {
		t.Error("Email.Dev should default to true outside production")
	}
}

func TestLoad_AdminUsernameList(t *testing.T) {
	setRequiredEnv(t)
	os.Setenv("ADMIN_USERNAMES", "Wajahat, usman ,RAFAY")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	want := []string{"wajahat", "usman", "rafay"}
	if len(cfg.Admin.Usernames) != len(want) {
		t.Fatalf("Usernames: got %v, want %v", cfg.Admin.Usernames, want)
	}
	for i, u := range want {
		if cfg.Admin.Usernames[i] != u {
			t.Errorf("Usernames[%d]: got %q, want %q", i, cfg.Admin.Usernames[i], u)
		}
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	os.Clearenv()
	os.Setenv("ADMIN_PASSWORD_HASH", "$2a$14$abcdefghijklmnopqrstuv")
	os.Setenv("DB_PASSWORD", "test")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Error("Load() should fail without ADMIN_JWT_SECRET")
	}
}

func TestLoad_MissingPasswordHash(t *testing.T) {
	os.Clearenv()
	os.Setenv("ADMIN_JWT_SECRET", "test-secret-32-characters-long!!")
	os.Setenv("DB_PASSWORD", "test")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Error("Load() should fail without ADMIN_PASSWORD_HASH")
	}
}

func TestValidateJWTSecret(t *testing.T) {
	if err := validateJWTSecret("short", "development"); err == nil {
		t.Error("short secret should be rejected")
	}
	if err := validateJWTSecret("sixteen-chars-ok", "production"); err == nil {
		t.Error("16-char secret should be rejected in production")
	}
	if err := validateJWTSecret("a-perfectly-long-production-secret!", "production"); err != nil {
		t.Errorf("strong secret rejected: %v", err)
	}
}

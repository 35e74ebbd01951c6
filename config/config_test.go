package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roomradar.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	t.Setenv("TEST_MONGO_HOST", "mongo.internal")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("PORT", "9090")
	t.Setenv("MONGO_URL", "")
	t.Setenv("STORAGE_PROVIDER", "")
	t.Setenv("RECEIPT_SECRET", "")

	path := writeConfig(t, `
mongo:
  uri: mongodb://${TEST_MONGO_HOST}:27017
  database: rentals
session:
  secret: from-file
  receipt_secret: receipts-only
media:
  download_timeout: 3s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mongo.URI != "mongodb://mongo.internal:27017" {
		t.Errorf("mongo uri = %q", cfg.Mongo.URI)
	}
	if cfg.Mongo.Database != "rentals" {
		t.Errorf("database = %q", cfg.Mongo.Database)
	}
	if cfg.Session.Secret != "from-env" {
		t.Errorf("env should override file secret, got %q", cfg.Session.Secret)
	}
	if cfg.Server.Port != ":9090" {
		t.Errorf("port = %q, want :9090", cfg.Server.Port)
	}
	if cfg.Media.DownloadTimeout != 3*time.Second {
		t.Errorf("download timeout = %v", cfg.Media.DownloadTimeout)
	}
	if cfg.Session.ReceiptKey() != "receipts-only" {
		t.Errorf("receipt key = %q", cfg.Session.ReceiptKey())
	}
	if cfg.Session.CookieName != "token" {
		t.Errorf("default cookie name lost: %q", cfg.Session.CookieName)
	}
}

func TestReceiptKeyFallsBackToSessionSecret(t *testing.T) {
	s := SessionConfig{Secret: "jwt"}
	if got := s.ReceiptKey(); got != "jwt" {
		t.Fatalf("ReceiptKey() = %q, want jwt", got)
	}
	s.ReceiptSecret = "hmac"
	if got := s.ReceiptKey(); got != "hmac" {
		t.Fatalf("ReceiptKey() = %q, want hmac", got)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	path := writeConfig(t, "mongo:\n  uri: mongodb://localhost\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error without a session secret")
	}
}

func TestValidateCloudinaryCredentials(t *testing.T) {
	cfg := Default()
	cfg.Session.Secret = "s"
	cfg.Storage.Provider = ProviderCloudinary
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for cloudinary without credentials")
	}
	cfg.Cloudinary = CloudinaryConfig{CloudName: "c", APIKey: "k", APISecret: "s"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNormalizePort(t *testing.T) {
	cases := map[string]string{
		"":             ":4000",
		"8080":         ":8080",
		":8080":        ":8080",
		"0.0.0.0:8080": "0.0.0.0:8080",
	}
	for in, want := range cases {
		if got := normalizePort(in); got != want {
			t.Errorf("normalizePort(%q) = %q, want %q", in, got, want)
		}
	}
}

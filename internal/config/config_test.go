package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStoreConfigDefaults(t *testing.T) {
	tests := []struct {
		name       string
		store      StoreConfig
		wantDriver string
		wantDSN    string
	}{
		{"empty", StoreConfig{}, "sqlite", "./linkpage.db"},
		{"sqlite with path", StoreConfig{Driver: "sqlite", DSN: "data/p.db"}, "sqlite", "data/p.db"},
		{"postgres", StoreConfig{Driver: "postgres", DSN: "host=localhost dbname=lp"}, "postgres", "host=localhost dbname=lp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.store.GetDriver(); got != tt.wantDriver {
				t.Errorf("GetDriver() = %q, want %q", got, tt.wantDriver)
			}
			if got := tt.store.GetDSN(); got != tt.wantDSN {
				t.Errorf("GetDSN() = %q, want %q", got, tt.wantDSN)
			}
		})
	}
}

func TestStoreConfigDSNExpandsEnv(t *testing.T) {
	os.Setenv("LINKPAGE_TEST_DB_PASS", "s3cret")
	defer os.Unsetenv("LINKPAGE_TEST_DB_PASS")

	store := StoreConfig{Driver: "postgres", DSN: "password=${LINKPAGE_TEST_DB_PASS}"}
	if got := store.GetDSN(); got != "password=s3cret" {
		t.Errorf("GetDSN() = %q, want expanded password", got)
	}
}

func TestPreviewConfigDefaults(t *testing.T) {
	var p PreviewConfig
	if !p.IsHotReload() {
		t.Error("IsHotReload() should default to true")
	}
	if got := p.GetDebounce(); got != 300*time.Millisecond {
		t.Errorf("GetDebounce() = %v, want 300ms", got)
	}

	off := false
	p = PreviewConfig{HotReload: &off, Debounce: "1s"}
	if p.IsHotReload() {
		t.Error("IsHotReload() should honor an explicit false")
	}
	if got := p.GetDebounce(); got != time.Second {
		t.Errorf("GetDebounce() = %v, want 1s", got)
	}

	p = PreviewConfig{Debounce: "not-a-duration"}
	if got := p.GetDebounce(); got != 300*time.Millisecond {
		t.Errorf("GetDebounce() = %v, want fallback 300ms", got)
	}
}

func TestAPIConfigDefaults(t *testing.T) {
	var api *APIConfig
	if api.GetRateLimitRPS() != 10 {
		t.Errorf("GetRateLimitRPS() on nil = %v, want 10", api.GetRateLimitRPS())
	}
	if api.GetRateLimitBurst() != 20 {
		t.Errorf("GetRateLimitBurst() on nil = %v, want 20", api.GetRateLimitBurst())
	}
	if api.IsAuthEnabled() {
		t.Error("IsAuthEnabled() on nil should be false")
	}
	if api.GetCORSOrigins() != nil {
		t.Error("GetCORSOrigins() on nil should be nil")
	}

	api = &APIConfig{
		RateLimit: &RateLimitConfig{RequestsPerSecond: 2.5, Burst: 5},
		CORS:      &CORSConfig{Origins: []string{"http://localhost:3000"}},
		Auth:      &AuthConfig{APIKey: "k"},
	}
	if api.GetRateLimitRPS() != 2.5 {
		t.Errorf("GetRateLimitRPS() = %v, want 2.5", api.GetRateLimitRPS())
	}
	if api.GetRateLimitBurst() != 5 {
		t.Errorf("GetRateLimitBurst() = %v, want 5", api.GetRateLimitBurst())
	}
	if !api.IsAuthEnabled() {
		t.Error("IsAuthEnabled() should be true with a key set")
	}
}

func TestAuthConfigHeaderName(t *testing.T) {
	var auth *AuthConfig
	if got := auth.GetHeaderName(); got != "X-API-Key" {
		t.Errorf("GetHeaderName() on nil = %q, want X-API-Key", got)
	}

	auth = &AuthConfig{HeaderName: "Authorization"}
	if got := auth.GetHeaderName(); got != "Authorization" {
		t.Errorf("GetHeaderName() = %q, want Authorization", got)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.GetPageFile() != "page.yaml" {
		t.Errorf("default page file = %q, want page.yaml", cfg.GetPageFile())
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "linkpage.yaml")
	content := `
title: My Links
page_file: creator.yaml
server:
  port: 9090
store:
  driver: postgres
  dsn: host=db dbname=links
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Title != "My Links" {
		t.Errorf("Title = %q", cfg.Title)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("Host = %q, want default localhost", cfg.Server.Host)
	}
	if cfg.Store.GetDriver() != "postgres" {
		t.Errorf("Driver = %q, want postgres", cfg.Store.GetDriver())
	}
	if cfg.GetPageFile() != "creator.yaml" {
		t.Errorf("PageFile = %q, want creator.yaml", cfg.GetPageFile())
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "linkpage.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "linkpage.yaml"), []byte("title: Primary"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "linkinbio.yaml"), []byte("title: Legacy"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("LoadFromDir() error = %v", err)
	}
	if cfg.Title != "Primary" {
		t.Errorf("Title = %q, want primary file to win", cfg.Title)
	}

	legacyDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(legacyDir, "linkinbio.yaml"), []byte("title: Legacy"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadFromDir(legacyDir)
	if err != nil {
		t.Fatalf("LoadFromDir() error = %v", err)
	}
	if cfg.Title != "Legacy" {
		t.Errorf("Title = %q, want legacy fallback", cfg.Title)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "linkpage.yaml")

	cfg := DefaultConfig()
	cfg.Title = "Saved"
	cfg.Server.Port = 7070
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Title != "Saved" || loaded.Server.Port != 7070 {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestLoadNotifyDestinations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "linkpage.yaml")
	content := `title: Notified
notify:
  - type: slack
    channel: "#subscribers"
  - type: email
    to: owner@example.com
    subject: New fan
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Notify) != 2 {
		t.Fatalf("expected 2 notify destinations, got %d", len(cfg.Notify))
	}
	if cfg.Notify[0].Type != "slack" || cfg.Notify[0].Channel != "#subscribers" {
		t.Errorf("slack destination mismatch: %+v", cfg.Notify[0])
	}
	if cfg.Notify[1].Type != "email" || cfg.Notify[1].To != "owner@example.com" {
		t.Errorf("email destination mismatch: %+v", cfg.Notify[1])
	}
}

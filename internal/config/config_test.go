package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/sitelit/internal/keyring"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvStore, "")
	t.Setenv(EnvScheduleURL, "")
	t.Setenv(EnvLocale, "")
	t.Setenv(EnvSiteRoot, "")
	t.Setenv(EnvScheduleToken, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := DefaultConfig()
	want.Store = ExpandHome(want.Store)
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitelit.yaml")
	data := `
site:
  root: https://example.org/campana/
sources:
  events: data/eventos.json
store: /tmp/sitelit.json
locale: en_US
server:
  addr: ":9090"
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvScheduleURL, "https://script.example.org/exec?sheet=Nuevo%20Evento")
	t.Setenv(EnvScheduleToken, "tok")
	t.Setenv(EnvStore, "")
	t.Setenv(EnvLocale, "")
	t.Setenv(EnvSiteRoot, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Site.Root != "https://example.org/campana/" || cfg.Site.Page != "index.html" {
		t.Errorf("site = %+v", cfg.Site)
	}
	if cfg.Sources.Events != "data/eventos.json" || cfg.Sources.Projects != "proyectos.json" {
		t.Errorf("sources = %+v", cfg.Sources)
	}
	if cfg.Sources.Schedule == "" || cfg.ScheduleToken != "tok" {
		t.Errorf("env overrides not applied: %+v token=%q", cfg.Sources, cfg.ScheduleToken)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.Burst != 10 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Locale != "en_US" {
		t.Errorf("locale = %q", cfg.Locale)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitelit.yaml")
	if err := os.WriteFile(path, []byte("server:\n  rate: -1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected validation error")
	}

	if err := os.WriteFile(path, []byte("site: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(EnvStore, "")
	t.Setenv(EnvScheduleURL, "")
	t.Setenv(EnvLocale, "")
	t.Setenv(EnvSiteRoot, "")
	t.Setenv(EnvScheduleToken, "")

	path := filepath.Join(t.TempDir(), "nested", "sitelit.yaml")
	cfg := DefaultConfig()
	cfg.Store = "/tmp/other.db"
	cfg.Sources.Schedule = "https://example.org/exec"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveScheduleToken(t *testing.T) {
	gokeyring.MockInit()
	if err := keyring.Set("schedule-token", "from-keyring"); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Sources.Schedule = "https://example.org/exec"
	if err := cfg.ResolveScheduleToken(); err != nil {
		t.Fatal(err)
	}
	if cfg.ScheduleToken != "from-keyring" {
		t.Errorf("token = %q", cfg.ScheduleToken)
	}
}

func TestResolveConnString(t *testing.T) {
	gokeyring.MockInit()
	cfg := DefaultConfig()
	cfg.Store = "postgres://me@db/sitelit"

	t.Setenv(EnvDBConnection, "")
	conn, secret, err := cfg.ResolveConnString()
	if err != nil || secret || conn != cfg.Store {
		t.Errorf("ResolveConnString() = %q, %v, %v; want store value", conn, secret, err)
	}

	t.Setenv(EnvDBConnection, "postgres://me:pw@db/sitelit")
	conn, secret, err = cfg.ResolveConnString()
	if err != nil || !secret || conn != "postgres://me:pw@db/sitelit" {
		t.Errorf("ResolveConnString() = %q, %v, %v; want env value", conn, secret, err)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got, want := ExpandHome("~/.config/sitelit"), filepath.Join(home, ".config/sitelit"); got != want {
		t.Errorf("ExpandHome = %q, want %q", got, want)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandHome changed absolute path to %q", got)
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	env := "DB_HOST=localhost\nDB=odds\nBROWSER_SETTLE=250ms\nMAX_PAGES=7\n"
	if err := os.WriteFile(path, []byte(env), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, k := range []string{"DB_HOST", "DB", "BROWSER_SETTLE", "MAX_PAGES"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Postgres.Enabled() || cfg.Postgres.Name != "odds" || cfg.Postgres.Port != "5432" {
		t.Fatalf("unexpected postgres config %+v", cfg.Postgres)
	}
	if cfg.Browser.Settle != 250*time.Millisecond || !cfg.Browser.Headless {
		t.Fatalf("unexpected browser config %+v", cfg.Browser)
	}
	if cfg.MaxPages != 7 {
		t.Fatalf("expected MaxPages=7, got %d", cfg.MaxPages)
	}
}

func TestLoad_MissingEnvFileIsFine(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("BROWSER_SETTLE", "soon")

	if _, err := Load(filepath.Join(t.TempDir(), ".env")); err == nil {
		t.Fatalf("expected error for bad duration")
	}
}

func TestLoadJobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	data := "leagues:\n  - name: spain/copa-del-rey\n    seasons: [2018-2019, 2019-2020]\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	jobs, err := LoadJobs(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs.Leagues) != 1 {
		t.Fatalf("expected 1 league, got %+v", jobs.Leagues)
	}

	got := strings.Join(jobs.Leagues[0].Listings(), " ")
	want := "spain/copa-del-rey-2018-2019 spain/copa-del-rey-2019-2020 spain/copa-del-rey"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestLoadJobs_NamelessLeague(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	if err := os.WriteFile(path, []byte("leagues:\n  - seasons: [2019-2020]\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := LoadJobs(path); err == nil {
		t.Fatalf("expected error for league without name")
	}
}

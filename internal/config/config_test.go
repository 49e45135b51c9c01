package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Zuo-Peng/chatlog/internal/stats"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TranscriptDir != filepath.Join(home, "chatlogs") {
		t.Errorf("TranscriptDir=%q", cfg.TranscriptDir)
	}
	if cfg.Calendar != "en" || cfg.Words.TopK != 20 || cfg.Words.MinLength != 6 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Path != "" {
		t.Errorf("Path=%q, want empty", cfg.Path)
	}
}

func TestLoad_FileOverridesAndExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	writeFile(t, filepath.Join(home, ".config", "chatlog", "config.toml"), `
transcript_dir = "~/exports"
calendar = "de"
aliases = [["Alice", "alice_handle"], ["Bob"]]

[words]
top_k = 5
stop_words = ["", "und"]
`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TranscriptDir != filepath.Join(home, "exports") {
		t.Errorf("TranscriptDir=%q", cfg.TranscriptDir)
	}
	if cfg.Calendar != "de" || cfg.Words.TopK != 5 || len(cfg.Words.StopWords) != 2 {
		t.Errorf("cfg=%+v", cfg)
	}
	// untouched keys keep their defaults
	if cfg.Words.Display != 20 {
		t.Errorf("Display=%d, want default 20", cfg.Words.Display)
	}

	table, err := cfg.AliasTable()
	if err != nil {
		t.Fatalf("AliasTable: %v", err)
	}
	if !table.Same("Alice", "alice_handle") {
		t.Error("alias class not loaded")
	}
	cal, err := cfg.ParserCalendar()
	if err != nil || cal.Name != "de" {
		t.Errorf("calendar=%+v, err=%v", cal, err)
	}
}

func TestLoad_RejectsOverlappingAliases(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "c.toml")
	writeFile(t, path, `aliases = [["Alice", "ally"], ["Allison", "ally"]]`)

	_, err := Load(path)
	if !errors.Is(err, stats.ErrOverlappingAliases) {
		t.Fatalf("err=%v, want ErrOverlappingAliases", err)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "c.toml")
	writeFile(t, path, `calendar = "fr"`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for calendar")
	}

	writeFile(t, path, "[words]\ntop_k = -1\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for negative top_k")
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoad_AliasFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "people.yaml"), `
aliases:
  - ["Carol", "caz"]
  - ["Dave"]
`)
	writeFile(t, filepath.Join(dir, "config.toml"), `
aliases = [["Alice", "alice_handle"]]
alias_file = "people.yaml"
`)

	cfg, err := Load(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Aliases) != 3 {
		t.Fatalf("Aliases=%q, want inline class then two from file", cfg.Aliases)
	}
	if cfg.Aliases[1][0] != "Carol" {
		t.Errorf("Aliases[1]=%q", cfg.Aliases[1])
	}

	writeFile(t, filepath.Join(dir, "people.toml"), `aliases = [["Erin", "e"]]`)
	writeFile(t, filepath.Join(dir, "config.toml"), `alias_file = "people.toml"`)
	cfg, err = Load(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("Load toml alias file: %v", err)
	}
	if len(cfg.Aliases) != 1 || cfg.Aliases[0][1] != "e" {
		t.Errorf("Aliases=%q", cfg.Aliases)
	}
}

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

const sep = "----------------------------------------"

func writeTranscript(t *testing.T, dir, name string, lines ...string) {
	t.Helper()
	body := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func withFlags(t *testing.T, f globalFlags) {
	t.Helper()
	old := flags
	flags = f
	t.Cleanup(func() { flags = old })
}

func TestLoadReport(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	writeTranscript(t, dir, "a.txt",
		"Montag, 06. Januar 2020", sep,
		"09:00 Alice:", "Guten Morgen",
	)
	writeTranscript(t, dir, "b.txt",
		"Montag, 06. Januar 2020", sep,
		"09:00 Alice:", "Guten Morgen",
		"Mittwoch, 08. Januar 2020", sep,
		"10:15 Bob:", "Hallo",
	)
	withFlags(t, globalFlags{dir: dir, calendar: "de", logLevel: "error"})

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	_, rep, err := loadReport(cmd, nil)
	if err != nil {
		t.Fatalf("loadReport: %v", err)
	}
	if rep.Summary.Messages != 2 || rep.Summary.Files != 2 || rep.Summary.OverlapDropped != 1 {
		t.Errorf("summary=%+v", rep.Summary)
	}
	if len(rep.Gaps) != 1 || rep.Gaps[0].Days() != 1 {
		t.Errorf("gaps=%+v, want one single-day gap", rep.Gaps)
	}
}

func TestLoadReport_NoFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	withFlags(t, globalFlags{dir: t.TempDir(), logLevel: "error"})

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	_, rep, err := loadReport(cmd, nil)
	if err != nil {
		t.Fatalf("loadReport: %v", err)
	}
	if rep.Summary.Messages != 0 || rep.Summary.Files != 0 || len(rep.Gaps) != 0 || len(rep.Identities) != 0 {
		t.Errorf("report=%+v, want empty", rep.Summary)
	}
}

func TestLoadReport_MissingDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	withFlags(t, globalFlags{dir: filepath.Join(t.TempDir(), "missing"), logLevel: "error"})

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	if _, _, err := loadReport(cmd, nil); err == nil {
		t.Fatal("expected an error for a missing transcript directory")
	}
}

func TestLoadConfig_RejectsBadCalendar(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	withFlags(t, globalFlags{calendar: "fr"})

	if _, _, err := loadConfig(); err == nil {
		t.Fatal("expected an error for an unknown calendar")
	}
}

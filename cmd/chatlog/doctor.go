package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatlog/internal/history"
	"github.com/Zuo-Peng/chatlog/internal/index"
	"github.com/Zuo-Peng/chatlog/internal/scan"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify config, aliases, transcripts and FTS5",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Println("=== Config ===")
			if cfg.Path == "" {
				fmt.Println("  File: none (defaults)")
			} else {
				fmt.Printf("  File: %s\n", cfg.Path)
			}
			fmt.Printf("  Calendar: %s\n", cfg.Calendar)
			fmt.Printf("  Alias classes: %d\n", len(cfg.Aliases))
			if cfg.AliasFile != "" {
				fmt.Printf("  Alias file: %s\n", cfg.AliasFile)
			}

			fmt.Println("\n=== Transcripts ===")
			if !checkDir("Directory", cfg.TranscriptDir) {
				return nil
			}
			files, err := scan.ScanDir(cfg.TranscriptDir, cfg.Extensions)
			if err != nil {
				fmt.Printf("  scan error: %v\n", err)
				return nil
			}
			var size int64
			for _, f := range files {
				size += f.Size
			}
			fmt.Printf("  Files: %d (%s)\n", len(files), humanize.Bytes(uint64(size)))

			cal, err := cfg.ParserCalendar()
			if err != nil {
				return err
			}
			h, err := history.Load(cmd.Context(), scan.Paths(files), history.Options{
				Calendar: cal,
				Workers:  cfg.Workers,
				Logger:   log,
			})
			if err != nil {
				fmt.Printf("  Status: READ ERROR (%v)\n", err)
				return nil
			}
			fmt.Printf("  Messages: %s (%s dropped as overlap)\n",
				humanize.Comma(int64(len(h.Messages))), humanize.Comma(int64(h.Merge.Overlap)))
			if n := h.Skipped(); n > 0 {
				fmt.Printf("  Skipped malformed headers: %d\n", n)
				for _, f := range h.Files {
					if f.Skipped > 0 {
						fmt.Printf("    %s: %d\n", f.Path, f.Skipped)
					}
				}
			}
			if h.Merge.EmptyFiles > 0 {
				fmt.Printf("  Files with no messages: %d\n", h.Merge.EmptyFiles)
			}

			fmt.Println("\n=== FTS5 ===")
			db, err := index.Build(h.Messages)
			if err != nil {
				fmt.Printf("  FTS5 error: %v\n", err)
				return nil
			}
			defer db.Close()

			var ftsCount int
			if err := db.Raw().QueryRow("SELECT COUNT(*) FROM messages_fts").Scan(&ftsCount); err != nil {
				fmt.Printf("  FTS5 error: %v\n", err)
			} else if ftsCount == len(h.Messages) {
				fmt.Printf("  Status: OK (%d entries)\n", ftsCount)
			} else {
				fmt.Printf("  Status: MISMATCH (messages=%d, fts=%d)\n", len(h.Messages), ftsCount)
			}
			return nil
		},
	}
}

func checkDir(name, path string) bool {
	info, err := os.Stat(path)
	switch {
	case err != nil:
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
		return false
	case !info.IsDir():
		fmt.Printf("  %s: %s (NOT A DIRECTORY)\n", name, path)
		return false
	}
	fmt.Printf("  %s: %s (OK)\n", name, path)
	return true
}

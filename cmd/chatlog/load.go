package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatlog/internal/config"
	"github.com/Zuo-Peng/chatlog/internal/history"
	"github.com/Zuo-Peng/chatlog/internal/logger"
	"github.com/Zuo-Peng/chatlog/internal/report"
	"github.com/Zuo-Peng/chatlog/internal/scan"
)

type globalFlags struct {
	config    string
	dir       string
	calendar  string
	logLevel  string
	logFormat string
}

var flags globalFlags

// loadConfig reads the config file, applies flag overrides and starts the logger.
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	if flags.dir != "" {
		cfg.TranscriptDir = flags.dir
	}
	if flags.calendar != "" {
		cfg.Calendar = flags.calendar
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.LogFormat = flags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	return cfg, log, nil
}

// loadReport runs the whole pipeline over args, or the transcript
// directory when no paths are given.
func loadReport(cmd *cobra.Command, args []string) (*config.Config, *report.Report, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{cfg.TranscriptDir}
	}
	files, err := scan.Collect(paths, cfg.Extensions)
	if err != nil {
		return nil, nil, fmt.Errorf("scan: %w", err)
	}
	if len(files) == 0 {
		log.Warn().Strs("paths", paths).Msg("no transcript files found")
	}

	cal, err := cfg.ParserCalendar()
	if err != nil {
		return nil, nil, err
	}
	h, err := history.Load(cmd.Context(), scan.Paths(files), history.Options{
		Calendar: cal,
		Workers:  cfg.Workers,
		Logger:   log,
	})
	if err != nil {
		return nil, nil, err
	}

	aliases, err := cfg.AliasTable()
	if err != nil {
		return nil, nil, err
	}
	rep := report.Analyze(h, report.Options{
		Aliases:   aliases,
		StopWords: cfg.Words.StopWords,
		TopK:      cfg.Words.TopK,
		MaxCount:  cfg.Words.MaxCount,
		MinLength: cfg.Words.MinLength,
		Display:   cfg.Words.Display,
	})
	return cfg, rep, nil
}

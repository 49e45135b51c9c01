package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "chatlog",
		Short:         "chatlog - merge chat transcript exports and report on who said what, and when",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.config, "config", "", "Config file (default ~/.config/chatlog/config.toml)")
	pf.StringVar(&flags.dir, "dir", "", "Transcript directory, overrides transcript_dir")
	pf.StringVar(&flags.calendar, "calendar", "", "Month-name calendar for date headers (en/de)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (trace/debug/info/warn/error)")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format (console/json)")

	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(gapsCmd())
	rootCmd.AddCommand(usersCmd())
	rootCmd.AddCommand(wordsCmd())
	rootCmd.AddCommand(browseCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(doctorCmd())
	rootCmd.AddCommand(schemaCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

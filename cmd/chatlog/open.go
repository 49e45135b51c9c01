package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatlog/internal/open"
)

func openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <YYYY-MM-DD> [paths...]",
		Short: "Open the transcript holding the first message of a day in $EDITOR",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := time.Parse("2006-01-02", args[0])
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", args[0], err)
			}

			_, rep, err := loadReport(cmd, args[1:])
			if err != nil {
				return err
			}

			src, ok := open.FirstOnDate(rep.Messages, day)
			if !ok {
				return fmt.Errorf("no messages on %s", args[0])
			}
			return open.Source(src)
		},
	}
}

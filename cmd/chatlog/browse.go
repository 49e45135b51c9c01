package main

import (
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatlog/internal/tui"
)

func browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [paths...]",
		Short: "Browse identities and their messages interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, rep, err := loadReport(cmd, args)
			if err != nil {
				return err
			}
			return tui.Identities(rep.UserIdentities())
		},
	}
}

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatlog/internal/render"
)

func gapsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gaps [paths...]",
		Short: "List runs of days without any message",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, rep, err := loadReport(cmd, args)
			if err != nil {
				return err
			}
			return render.Gaps(os.Stdout, rep.Gaps)
		},
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatlog/internal/render"
)

func statsCmd() *cobra.Command {
	var asJSON, showFiles bool

	cmd := &cobra.Command{
		Use:   "stats [paths...]",
		Short: "Print the full report: summary, gaps, identities and words",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, rep, err := loadReport(cmd, args)
			if err != nil {
				return err
			}

			if asJSON {
				b, err := rep.JSON()
				if err != nil {
					return fmt.Errorf("encode report: %w", err)
				}
				_, err = fmt.Fprintln(os.Stdout, string(b))
				return err
			}

			w := os.Stdout
			steps := []func() error{
				func() error { return render.Summary(w, rep.Summary) },
				func() error { return render.Gaps(w, rep.Gaps) },
				func() error { return render.Identities(w, "Identities by words", rep.ByWords) },
				func() error { return render.Identities(w, "Identities by messages", rep.ByMessages) },
				func() error { return render.Words(w, "Top words", rep.TopWords) },
				func() error { return render.Words(w, "Long words", rep.LongWords) },
			}
			if showFiles {
				steps = append(steps, func() error { return render.Files(w, rep.Files) })
			}
			for _, step := range steps {
				if err := step(); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&showFiles, "files", false, "Include the per-file table")
	return cmd
}

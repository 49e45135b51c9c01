package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/chatlog/internal/index"
	"github.com/Zuo-Peng/chatlog/internal/render"
	"github.com/Zuo-Peng/chatlog/internal/search"
	"github.com/Zuo-Peng/chatlog/internal/tui"
)

func searchCmd() *cobra.Command {
	var sender, kind, since string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query> [paths...]",
		Short: "Full-text search across the merged history",
		Long: `Search message text using SQLite FTS5 (CJK queries use substring
matching). On a terminal results open in an interactive browser and Enter
opens the transcript in $EDITOR; otherwise a table is printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, rep, err := loadReport(cmd, args[1:])
			if err != nil {
				return err
			}

			db, err := index.Build(rep.Messages)
			if err != nil {
				return fmt.Errorf("build index: %w", err)
			}
			defer db.Close()

			opts := search.Options{
				Sender: sender,
				Kind:   kind,
				Since:  since,
				Limit:  limit,
			}

			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.Search(db, args[0], opts)
			}

			opts.Query = args[0]
			results, err := search.Search(db, opts)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
				return nil
			}
			return render.Results(os.Stdout, results)
		},
	}

	cmd.Flags().StringVar(&sender, "sender", "", "Filter by raw sender name")
	cmd.Flags().StringVar(&kind, "kind", "text", "Filter by message kind (empty for all)")
	cmd.Flags().StringVar(&since, "since", "", "Filter messages sent since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")
	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/chatlog/internal/render"
	"github.com/Zuo-Peng/chatlog/internal/tui"
)

func usersCmd() *cobra.Command {
	var by string
	var plain bool

	cmd := &cobra.Command{
		Use:   "users [paths...]",
		Short: "Rank resolved identities by words or messages",
		Long: `Rank resolved identities. On a terminal the identity browser opens;
pipe the output or pass --plain for a table.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, rep, err := loadReport(cmd, args)
			if err != nil {
				return err
			}

			if !plain && term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.Identities(rep.UserIdentities())
			}

			switch by {
			case "words":
				return render.Identities(os.Stdout, "Identities by words", rep.ByWords)
			case "messages":
				return render.Identities(os.Stdout, "Identities by messages", rep.ByMessages)
			default:
				return fmt.Errorf("unknown ranking %q (want words or messages)", by)
			}
		},
	}

	cmd.Flags().StringVar(&by, "by", "words", "Ranking key (words/messages)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Always print a table")
	return cmd
}

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatlog/internal/render"
	"github.com/Zuo-Peng/chatlog/internal/stats"
)

func wordsCmd() *cobra.Command {
	var top, long int

	cmd := &cobra.Command{
		Use:   "words [paths...]",
		Short: "Show the most frequent and the longest words",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, rep, err := loadReport(cmd, args)
			if err != nil {
				return err
			}

			topWords, longWords := rep.TopWords, rep.LongWords
			if cmd.Flags().Changed("top") {
				topWords = stats.TopWords(rep.Words, cfg.Words.StopWords, top, cfg.Words.MaxCount)
			}
			if cmd.Flags().Changed("long") {
				longWords = stats.LongWords(rep.Words, cfg.Words.MinLength, long)
			}

			if err := render.Words(os.Stdout, "Top words", topWords); err != nil {
				return err
			}
			return render.Words(os.Stdout, "Long words", longWords)
		},
	}

	cmd.Flags().IntVar(&top, "top", 0, "Number of frequent words, overrides words.top_k")
	cmd.Flags().IntVar(&long, "long", 0, "Number of long words, overrides words.display")
	return cmd
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inesalsa/politicool/internal/news"
)

var refreshNewsCmd = &cobra.Command{
	Use:   "refresh-news",
	Short: "Fetch, summarize, and cache the news feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		st, err := openStore(log)
		if err != nil {
			return err
		}
		defer st.Close()

		provider, err := buildProvider(log)
		if err != nil {
			return err
		}

		feed := news.NewService(news.ConfigFromEnv(), provider, st.Articles(), log)
		articles, err := feed.Refresh(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Feed refreshed: %d articles\n", len(articles))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshNewsCmd)
}

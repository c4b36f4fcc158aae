package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inesalsa/politicool/internal/ingest"
	"github.com/inesalsa/politicool/internal/news"
)

var importLimit int

var importArticlesCmd = &cobra.Command{
	Use:   "import-articles",
	Short: "Fetch recent articles and generate quiz questions from them",
	Long: `Pulls fresh articles for every quiz category, then runs the
question-ingestion pass over articles that have no question yet.
Generated questions start unvalidated and must be approved through the
admin API before appearing in a quiz.`,
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
		fmt.Printf("Fetched %d articles\n", len(articles))

		generator, err := ingest.NewGenerator(provider, st.Questions(), st.Articles(), log)
		if err != nil {
			return err
		}

		stats, err := generator.Run(cmd.Context(), importLimit)
		if err != nil {
			return err
		}

		fmt.Printf("Processed %d articles: %d created, %d duplicates, %d rejected\n",
			stats.Processed, stats.Created, stats.Duplicates, stats.Rejected)
		return nil
	},
}

func init() {
	importArticlesCmd.Flags().IntVar(&importLimit, "limit", 20, "maximum articles to process")
	rootCmd.AddCommand(importArticlesCmd)
}

package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inesalsa/politicool/internal/analysis"
	"github.com/inesalsa/politicool/internal/ingest"
	"github.com/inesalsa/politicool/internal/llm"
	"github.com/inesalsa/politicool/internal/news"
	"github.com/inesalsa/politicool/internal/quiz"
	"github.com/inesalsa/politicool/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
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

		controller := quiz.NewController(st.Responses(), st.Questions(), st.Profiles(), st.Sessions(), log)
		synth := analysis.NewService(provider, st.Responses(), st.Profiles(), log)
		feed := news.NewService(news.ConfigFromEnv(), provider, st.Articles(), log)
		generator, err := ingest.NewGenerator(provider, st.Questions(), st.Articles(), log)
		if err != nil {
			return err
		}

		srv := server.New(server.ConfigFromEnv(), st, controller, synth, feed, generator, provider, log)
		return srv.Run()
	},
}

func buildProvider(log *zap.Logger) (llm.Provider, error) {
	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return llm.NewProvider(cfg, log)
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

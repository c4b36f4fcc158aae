package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inesalsa/politicool/internal/store"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "politicool",
	Short: "Political opinion quiz and profile analysis backend",
	Long: `politicool walks users through a categorized opinion quiz, synthesizes a
political-orientation profile from their answers with a text-generation
service, and serves both over HTTP alongside a categorized news feed.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "",
		"SQLite database path (default: $POLITICOOL_DB, then XDG data dir)")
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("POLITICOOL_DEBUG") == "1" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func openStore(log *zap.Logger) (*store.Store, error) {
	path := dbPath
	if path == "" {
		var err error
		path, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	} else if err := store.EnsureDir(path); err != nil {
		return nil, err
	}
	return store.Open(path, log)
}

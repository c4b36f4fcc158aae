package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inesalsa/politicool/internal/quiz"
)

var resetUserID uint

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restart one user's quiz",
	Long: `Archives the user's active responses, demotes their current profile,
and flags the next quiz attempt as a follow-up. Nothing is deleted;
history stays available for opinion-evolution comparison.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if resetUserID == 0 {
			return fmt.Errorf("--user is required")
		}

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

		user, err := st.Users().ByID(cmd.Context(), resetUserID)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("no user with id %d", resetUserID)
		}

		controller := quiz.NewController(st.Responses(), st.Questions(), st.Profiles(), st.Sessions(), log)
		if err := controller.Restart(cmd.Context(), resetUserID); err != nil {
			return err
		}

		fmt.Printf("Quiz reset for %s\n", user.Username)
		return nil
	},
}

func init() {
	resetCmd.Flags().UintVar(&resetUserID, "user", 0, "user id to reset")
	rootCmd.AddCommand(resetCmd)
}

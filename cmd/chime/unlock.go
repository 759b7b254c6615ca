package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/vsariola/chime/achievement"
)

var unlockCmd = &cobra.Command{
	Use:   "unlock name...",
	Short: "Unlock achievements, playing the happy cue for each",
	Long: `Unlock records each named achievement and celebrates it with the happy
cue. Unlocking never fails because of the audio device: without sound, the
achievements are still unlocked and a warning is logged.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		player := newPlayer()
		defer player.Close()
		board := achievement.NewBoard(player, log.Logger)
		for _, name := range args {
			if _, err := board.Unlock(name); err != nil && !errors.Is(err, achievement.ErrAlreadyUnlocked) {
				return err
			}
		}
		player.Wait()
		for _, u := range board.List() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", u.ID, u.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(unlockCmd)
}

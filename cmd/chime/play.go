package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/vsariola/chime"
)

var (
	playWatch  bool
	playStrict bool
)

var playCmd = &cobra.Command{
	Use:   "play [cue.yml]",
	Short: "Play a cue on the default audio device",
	Long: `Play a cue and wait until it has been played out. With --watch, the
cue is played again every time the cue file changes, until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if playWatch && len(args) == 0 {
			return errors.New("--watch needs a cue file")
		}
		cue, err := loadCue(args)
		if err != nil {
			return err
		}
		var opts []chime.PlayerOption
		if playStrict {
			opts = append(opts, chime.WithPolicy(chime.Strict))
		}
		player := newPlayer(opts...)
		chime.SetDefaultPlayer(player)
		defer player.Close()
		if err := player.Play(cmd.Context(), cue); err != nil {
			return fmt.Errorf("could not play cue %q: %w", cue.Name, err)
		}
		if !playWatch {
			player.Wait()
			return nil
		}
		return watch(cmd.Context(), args[0], player)
	},
}

func init() {
	playCmd.Flags().BoolVarP(&playWatch, "watch", "w", false, "Replay the cue whenever the cue file changes")
	playCmd.Flags().BoolVar(&playStrict, "strict", false, "Report replay failures as errors instead of warnings")
	rootCmd.AddCommand(playCmd)
}

// watch replays the cue file whenever it is written. The directory is watched
// instead of the file, because many editors save by renaming.
func watch(ctx context.Context, filename string, player *chime.Player) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer watcher.Close()
	target, err := filepath.Abs(filename)
	if err != nil {
		return fmt.Errorf("could not resolve %v: %w", filename, err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("could not watch %v: %w", filepath.Dir(target), err)
	}
	log.Info().Str("file", target).Msg("watching cue file, interrupt to stop")
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-player.Errors():
			log.Error().Err(err).Msg("replay failed")
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("file watcher error")
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, _ := filepath.Abs(event.Name)
			if name != target || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			cue, err := chime.LoadCue(target)
			if err != nil {
				log.Warn().Err(err).Msg("cue file not reloaded")
				continue
			}
			log.Info().Str("cue", cue.Name).Int("notes", len(cue.Notes)).Msg("cue reloaded")
			player.PlayAsync(cue)
		}
	}
}

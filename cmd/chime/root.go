package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/vsariola/chime"
	"github.com/vsariola/chime/internal/config"
	"github.com/vsariola/chime/oto"
)

var (
	cfgFile  string
	logLevel string
	cfg      *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chime",
	Short: "Synthesize, play and export short audio cues",
	Long: `chime renders short cues, like the achievement chime, from enveloped
oscillator notes. Without a cue file, commands use the built-in happy cue.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(cfgFile); err != nil {
			return err
		}
		if logLevel != "" {
			if cfg.Log.Level, err = zerolog.ParseLevel(logLevel); err != nil {
				return fmt.Errorf("--log-level: %w", err)
			}
		}
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		zerolog.SetGlobalLevel(cfg.Log.Level)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: chime.yaml in the working directory, if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
}

// loadCue loads the cue file given as the first argument, or returns the
// happy cue when there are no arguments.
func loadCue(args []string) (chime.Cue, error) {
	if len(args) == 0 {
		return chime.Happy(), nil
	}
	return chime.LoadCue(args[0])
}

func newPlayer(opts ...chime.PlayerOption) *chime.Player {
	base := []chime.PlayerOption{
		chime.WithPolicy(cfg.Sound.Policy),
		chime.WithLogger(log.Logger),
		chime.WithEnabled(cfg.Sound.Enabled),
		chime.WithVolume(float32(cfg.Sound.Volume)),
	}
	return chime.NewPlayer(oto.Factory(cfg.Sound.SampleRate, cfg.Sound.BufferSize), append(base, opts...)...)
}

func newSynth() *chime.Synth {
	return chime.NewSynth(cfg.Sound.SampleRate)
}

// output writes contents into dir/name+extension, or to standard output if
// stdout is set. The directory and its parents are created if needed; an
// empty dir means the working directory.
func output(stdout bool, dir, name, extension string, contents []byte) error {
	if stdout {
		_, err := os.Stdout.Write(contents)
		return err
	}
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("could not get working directory, specify the output directory explicitly: %v", err)
		}
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("could not create output directory %v: %v", dir, err)
	}
	f := filepath.Join(dir, name+extension)
	if err := os.WriteFile(f, contents, 0644); err != nil {
		return fmt.Errorf("could not write file %v: %v", f, err)
	}
	log.Info().Str("file", f).Int("bytes", len(contents)).Msg("wrote")
	return nil
}

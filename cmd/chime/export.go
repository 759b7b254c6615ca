package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	exportDir    string
	exportStdout bool
	exportWav    bool
	exportRaw    bool
	exportMIDI   bool
	exportPCM16  bool
	exportBPM    float64
)

var exportCmd = &cobra.Command{
	Use:   "export [cue.yml]",
	Short: "Render a cue to .wav, .raw or .mid files",
	Long: `Render a cue to disk. By default, a stereo float32 .wav file is written;
use -c to convert the audio to 16-bit signed PCM.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cue, err := loadCue(args)
		if err != nil {
			return err
		}
		if !exportWav && !exportRaw && !exportMIDI {
			exportWav = true
		}
		synth := newSynth()
		if exportWav || exportRaw {
			buffer, err := synth.RenderCue(cue)
			if err != nil {
				return fmt.Errorf("could not render cue %q: %w", cue.Name, err)
			}
			if exportRaw {
				raw, err := buffer.Raw(exportPCM16)
				if err != nil {
					return fmt.Errorf("could not generate .raw file: %v", err)
				}
				if err := output(exportStdout, exportDir, cue.Name, ".raw", raw); err != nil {
					return fmt.Errorf("error outputting .raw file: %v", err)
				}
			}
			if exportWav {
				wav, err := buffer.Wav(exportPCM16, synth.SampleRate)
				if err != nil {
					return fmt.Errorf("could not generate .wav file: %v", err)
				}
				if err := output(exportStdout, exportDir, cue.Name, ".wav", wav); err != nil {
					return fmt.Errorf("error outputting .wav file: %v", err)
				}
			}
		}
		if exportMIDI {
			mid, err := cue.MIDI(exportBPM)
			if err != nil {
				return fmt.Errorf("could not generate .mid file: %v", err)
			}
			if err := output(exportStdout, exportDir, cue.Name, ".mid", mid); err != nil {
				return fmt.Errorf("error outputting .mid file: %v", err)
			}
		}
		return nil
	},
}

func init() {
	f := exportCmd.Flags()
	f.StringVarP(&exportDir, "output", "o", "", "Directory where to write the files; created if needed. Defaults to the working directory.")
	f.BoolVarP(&exportStdout, "stdout", "s", false, "Do not write files; write to standard output instead.")
	f.BoolVarP(&exportWav, "wav", "w", false, "Output the rendered cue as .wav file.")
	f.BoolVarP(&exportRaw, "raw", "r", false, "Output the rendered cue as .raw file.")
	f.BoolVarP(&exportMIDI, "midi", "m", false, "Output the cue as a standard MIDI file.")
	f.BoolVarP(&exportPCM16, "pcm16", "c", false, "Convert audio to 16-bit signed PCM when outputting.")
	f.Float64Var(&exportBPM, "bpm", 120, "Tempo of the MIDI file.")
	rootCmd.AddCommand(exportCmd)
}

package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vsariola/chime"
)

var inspectYAML bool

var inspectCmd = &cobra.Command{
	Use:   "inspect [cue.yml]",
	Short: "Print the schedule and levels of a cue",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cue, err := loadCue(args)
		if err != nil {
			return err
		}
		if inspectYAML {
			out, err := cue.YAML()
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(out)
			return err
		}
		seq, err := cue.Schedule(0)
		if err != nil {
			return err
		}
		synth := newSynth()
		buffer := synth.Render(seq)
		analyzer := chime.NewPeakAnalyzer(synth.SampleRate)
		if err := analyzer.Update(buffer); err != nil {
			return fmt.Errorf("could not analyze cue %q: %w", cue.Name, err)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "cue\t%v (%v, %d notes, %.3f s)\n", cue.Name, cue.Waveform, len(cue.Notes), seq.End()-seq.Start)
		fmt.Fprintf(w, "envelope\tattack %.3f s, peak %.3f, floor %.3f\n", cue.Envelope.Attack, cue.Envelope.Peak, cue.Envelope.Floor)
		fmt.Fprintln(w, "#\tfrequency\tkey\tstart\tstop")
		for i, v := range seq.Voices {
			fmt.Fprintf(w, "%d\t%.2f Hz\t%d\t%.3f s\t%.3f s\n", i, v.Note.Frequency, chime.MIDIKey(v.Note.Frequency), v.Note.Start, v.End())
		}
		peak := float64(chime.Peak(buffer))
		fmt.Fprintf(w, "peak\t%.4f (%.1f dBFS)\n", peak, 20*math.Log10(math.Max(peak, 1e-6)))
		fmt.Fprintf(w, "level at end\t%.1f / %.1f dB\n", analyzer.Level[0], analyzer.Level[1])
		return w.Flush()
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectYAML, "yaml", false, "Print the cue as a .yml cue file instead")
	rootCmd.AddCommand(inspectCmd)
}

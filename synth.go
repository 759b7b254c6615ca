package chime

import (
	"math"

	"github.com/viterin/vek/vek32"
)

const DefaultSampleRate = 44100

// Synth renders sequences into audio buffers by explicit sample synthesis:
// for every output frame, the enveloped sine contributions of the voices
// active at that time are summed.
type Synth struct {
	SampleRate int
	Volume     float32 // master gain applied after mixing
}

func NewSynth(sampleRate int) *Synth {
	return &Synth{SampleRate: sampleRate, Volume: 1}
}

// Frames returns the number of frames needed to render seconds of audio.
// Non-positive and non-finite durations need no frames.
func (s *Synth) Frames(seconds float64) int {
	if !(seconds > 0) || math.IsInf(seconds, 1) {
		return 0
	}
	// the epsilon absorbs rounding in e.g. 0.55*44100
	return int(math.Ceil(seconds*float64(s.sampleRate()) - 1e-9))
}

// Render renders the sequence from its start until its last voice stops.
// Frame i of the returned buffer is at time seq.Start + i/SampleRate. The
// output is mono, copied to both channels.
func (s *Synth) Render(seq *Sequence) AudioBuffer {
	rate := float64(s.sampleRate())
	frames := s.Frames(seq.End() - seq.Start)
	mix := make([]float32, frames)
	voice := make([]float32, frames)
	for _, v := range seq.Voices {
		first := s.Frames(v.Note.Start - seq.Start)
		last := s.Frames(v.End() - seq.Start)
		if last > frames {
			last = frames
		}
		if first >= last {
			continue
		}
		out := voice[:last-first]
		for i := range out {
			t := seq.Start + float64(first+i)/rate
			out[i] = float32(v.Sample(t))
		}
		vek32.Add_Inplace(mix[first:last], out)
	}
	if s.Volume != 1 {
		vek32.MulNumber_Inplace(mix, s.Volume)
	}
	buffer := make(AudioBuffer, frames)
	for i, x := range mix {
		buffer[i] = [2]float32{x, x}
	}
	return buffer
}

// RenderCue schedules the cue at time zero and renders it.
func (s *Synth) RenderCue(cue Cue) (AudioBuffer, error) {
	seq, err := cue.Schedule(0)
	if err != nil {
		return nil, err
	}
	return s.Render(seq), nil
}

func (s *Synth) sampleRate() int {
	if s.SampleRate <= 0 {
		return DefaultSampleRate
	}
	return s.SampleRate
}

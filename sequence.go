package chime

import (
	"fmt"

	"github.com/google/uuid"
)

type (
	// Voice is one scheduled note: its own oscillator routed through its own
	// gain envelope. Note holds absolute times.
	Voice struct {
		Note       Note
		Oscillator *Oscillator
		Gain       *Param
	}

	// Sequence is one invocation of a cue. All voice times are relative to the
	// same zero point, Start, drawn once when the cue was scheduled.
	Sequence struct {
		ID     uuid.UUID
		Start  float64
		Voices []*Voice
	}
)

// Sample returns the enveloped output of the voice at time t.
func (v *Voice) Sample(t float64) float64 {
	return v.Oscillator.Sample(t) * v.Gain.ValueAt(t)
}

// End returns the stop time of the voice.
func (v *Voice) End() float64 {
	return v.Note.Start + v.Note.Duration
}

// Schedule builds a new Sequence of the cue starting at time now. Every call
// creates new oscillators and gain parameters, so sequences never share state.
func (c Cue) Schedule(now float64) (*Sequence, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	seq := &Sequence{ID: uuid.New(), Start: now, Voices: make([]*Voice, 0, len(c.Notes))}
	env := c.Envelope
	for _, n := range c.Notes {
		start := now + n.Start
		end := start + n.Duration
		osc := NewOscillator(c.Waveform, n.Frequency)
		osc.Start(start)
		osc.Stop(end)
		gain := NewParam(1)
		gain.SetValueAtTime(0, start)
		gain.LinearRampToValueAtTime(env.Peak, start+env.Attack)
		if err := gain.ExponentialRampToValueAtTime(env.Floor, end); err != nil {
			return nil, fmt.Errorf("cannot schedule note %v Hz: %w", n.Frequency, err)
		}
		seq.Voices = append(seq.Voices, &Voice{
			Note:       Note{Frequency: n.Frequency, Start: start, Duration: n.Duration},
			Oscillator: osc,
			Gain:       gain,
		})
	}
	return seq, nil
}

// End returns the time when the last voice of the sequence stops.
func (s *Sequence) End() float64 {
	ret := s.Start
	for _, v := range s.Voices {
		if e := v.End(); e > ret {
			ret = e
		}
	}
	return ret
}

// Sample returns the sum of all voices at time t.
func (s *Sequence) Sample(t float64) float64 {
	ret := 0.0
	for _, v := range s.Voices {
		ret += v.Sample(t)
	}
	return ret
}

// Package chime synthesizes short audio cues, e.g. the chime played when an
// achievement is unlocked. A Cue is a list of enveloped notes; scheduling a Cue
// yields a Sequence, which the Synth renders into an AudioBuffer sample by
// sample and a Player hands to the audio device without blocking the caller.
package chime

import (
	"errors"
	"fmt"
	"math"
)

type (
	// Note is one tone of a cue. Start is relative to the start of the cue.
	Note struct {
		Frequency float64 `yaml:"frequency" json:"frequency"` // in Hz
		Start     float64 `yaml:"start" json:"start"`         // in seconds
		Duration  float64 `yaml:"duration" json:"duration"`   // in seconds
	}

	// Envelope is the amplitude curve applied to every note of a cue: zero at
	// the note start, a linear ramp to Peak in Attack seconds, then an
	// exponential ramp down to Floor at the note end.
	Envelope struct {
		Attack float64 `yaml:"attack" json:"attack"`
		Peak   float64 `yaml:"peak" json:"peak"`
		Floor  float64 `yaml:"floor" json:"floor"`
	}

	// Cue is a reusable description of a short sequence of notes.
	Cue struct {
		Name     string   `yaml:"name" json:"name"`
		Waveform Waveform `yaml:"waveform,omitempty" json:"waveform,omitempty"`
		Envelope Envelope `yaml:"envelope" json:"envelope"`
		Notes    []Note   `yaml:"notes" json:"notes"`
	}
)

// ErrInvalidCue is wrapped by all the errors returned by Cue.Validate.
var ErrInvalidCue = errors.New("invalid cue")

// MaxCueLength is the longest cue, in seconds, that Validate accepts.
const MaxCueLength = 60.0

// DefaultEnvelope is the envelope of the happy cue: 10 ms click-free attack to
// 0.2, exponential release to 0.01.
var DefaultEnvelope = Envelope{Attack: 0.01, Peak: 0.2, Floor: 0.01}

// Happy returns the achievement cue: a C major triad (C5-E5-G5) followed
// 150 ms later by an F major triad over C (C5-F5-A5).
func Happy() Cue {
	return Cue{
		Name:     "happy",
		Waveform: Sine,
		Envelope: DefaultEnvelope,
		Notes: []Note{
			{Frequency: 523.25, Start: 0, Duration: 0.3},    // C5
			{Frequency: 659.25, Start: 0, Duration: 0.3},    // E5
			{Frequency: 783.99, Start: 0, Duration: 0.3},    // G5
			{Frequency: 523.25, Start: 0.15, Duration: 0.4}, // C5
			{Frequency: 698.46, Start: 0.15, Duration: 0.4}, // F5
			{Frequency: 880.00, Start: 0.15, Duration: 0.4}, // A5
		},
	}
}

// Copy returns a deep copy of the cue.
func (c Cue) Copy() Cue {
	notes := make([]Note, len(c.Notes))
	copy(notes, c.Notes)
	return Cue{Name: c.Name, Waveform: c.Waveform, Envelope: c.Envelope, Notes: notes}
}

// Length returns the time in seconds from the start of the cue to the end of
// its last note.
func (c Cue) Length() float64 {
	ret := 0.0
	for _, n := range c.Notes {
		if end := n.Start + n.Duration; end > ret {
			ret = end
		}
	}
	return ret
}

func (c Cue) Validate() error {
	if len(c.Notes) == 0 {
		return fmt.Errorf("%w: cue %q has no notes", ErrInvalidCue, c.Name)
	}
	if c.Waveform < Sine || c.Waveform > Triangle {
		return fmt.Errorf("%w: unknown waveform %d", ErrInvalidCue, c.Waveform)
	}
	e := c.Envelope
	if !finite(e.Attack, e.Peak, e.Floor) {
		return fmt.Errorf("%w: envelope values must be finite, got %+v", ErrInvalidCue, e)
	}
	if e.Attack < 0 {
		return fmt.Errorf("%w: negative attack %v", ErrInvalidCue, e.Attack)
	}
	// exponential ramps cannot start from or reach zero
	if e.Peak <= 0 || e.Floor <= 0 {
		return fmt.Errorf("%w: envelope peak (%v) and floor (%v) must be positive", ErrInvalidCue, e.Peak, e.Floor)
	}
	for i, n := range c.Notes {
		if !finite(n.Frequency, n.Start, n.Duration) {
			return fmt.Errorf("%w: note %d has non-finite values %+v", ErrInvalidCue, i, n)
		}
		if n.Frequency <= 0 {
			return fmt.Errorf("%w: note %d has non-positive frequency %v", ErrInvalidCue, i, n.Frequency)
		}
		if n.Start < 0 {
			return fmt.Errorf("%w: note %d starts before the cue (%v)", ErrInvalidCue, i, n.Start)
		}
		if n.Duration <= e.Attack {
			return fmt.Errorf("%w: note %d is shorter (%v s) than the attack (%v s)", ErrInvalidCue, i, n.Duration, e.Attack)
		}
		if end := n.Start + n.Duration; end > MaxCueLength {
			return fmt.Errorf("%w: note %d ends at %v s, after the %v s limit", ErrInvalidCue, i, end, MaxCueLength)
		}
	}
	return nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

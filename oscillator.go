package chime

import (
	"fmt"
	"math"
	"strings"
)

// Waveform is the shape of one period of an Oscillator.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Sawtooth
	Triangle
)

var waveformNames = [...]string{"sine", "square", "sawtooth", "triangle"}

func (w Waveform) String() string {
	if w < Sine || w > Triangle {
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
	return waveformNames[w]
}

func (w Waveform) MarshalText() ([]byte, error) {
	if w < Sine || w > Triangle {
		return nil, fmt.Errorf("cannot marshal unknown waveform %d", int(w))
	}
	return []byte(waveformNames[w]), nil
}

func (w *Waveform) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range waveformNames {
		if s == name {
			*w = Waveform(i)
			return nil
		}
	}
	return fmt.Errorf("unknown waveform %q", string(text))
}

// Oscillator is a periodic signal generator that sounds between its start
// and stop times. It is silent before Start and after Stop are called.
type Oscillator struct {
	Type      Waveform
	Frequency float64
	start     float64
	stop      float64
	started   bool
}

func NewOscillator(typ Waveform, frequency float64) *Oscillator {
	return &Oscillator{Type: typ, Frequency: frequency, stop: math.Inf(1)}
}

func (o *Oscillator) Start(t float64) {
	o.start = t
	o.started = true
}

func (o *Oscillator) Stop(t float64) {
	o.stop = t
}

// Active reports if the oscillator produces signal at time t.
func (o *Oscillator) Active(t float64) bool {
	return o.started && t >= o.start && t < o.stop
}

// Sample returns the oscillator output at time t, in the range [-1, 1]. The
// phase is zero at the start time; all waveforms begin at 0 except square.
func (o *Oscillator) Sample(t float64) float64 {
	if !o.Active(t) {
		return 0
	}
	phase := o.Frequency * (t - o.start)
	phase -= math.Floor(phase)
	switch o.Type {
	case Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	case Sawtooth:
		p := phase + 0.5
		return 2*(p-math.Floor(p)) - 1
	case Triangle:
		p := phase + 0.25
		return 1 - 4*math.Abs(p-math.Floor(p)-0.5)
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

package chime

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

type (
	// Param is a value that changes over time according to scheduled
	// automation events: immediate sets, linear ramps and exponential ramps. A
	// ramp event interpolates from the previous event to its own time and
	// value; after the last event, its value is held.
	Param struct {
		Default float64 // value before the first event
		events  []automationEvent
	}

	automationEvent struct {
		kind  automationKind
		time  float64
		value float64
	}

	automationKind int
)

const (
	setValue automationKind = iota
	linearRamp
	exponentialRamp
)

var ErrInvalidRampValue = errors.New("exponential ramp target must be positive")

func NewParam(defaultValue float64) *Param {
	return &Param{Default: defaultValue}
}

// SetValueAtTime sets the value at time t, holding it until the next event.
func (p *Param) SetValueAtTime(value, t float64) {
	p.insert(automationEvent{kind: setValue, time: t, value: value})
}

// LinearRampToValueAtTime ramps linearly from the previous event to value,
// reaching it at time t.
func (p *Param) LinearRampToValueAtTime(value, t float64) {
	p.insert(automationEvent{kind: linearRamp, time: t, value: value})
}

// ExponentialRampToValueAtTime ramps exponentially from the previous event to
// value, reaching it at time t.
func (p *Param) ExponentialRampToValueAtTime(value, t float64) error {
	if value <= 0 || math.IsNaN(value) {
		return fmt.Errorf("%w: got %v", ErrInvalidRampValue, value)
	}
	p.insert(automationEvent{kind: exponentialRamp, time: t, value: value})
	return nil
}

// events with equal times keep their insertion order
func (p *Param) insert(e automationEvent) {
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].time > e.time })
	p.events = append(p.events, automationEvent{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = e
}

// ValueAt returns the value of the parameter at time t.
func (p *Param) ValueAt(t float64) float64 {
	prevTime, prevValue := 0.0, p.Default
	for _, e := range p.events {
		if t < e.time {
			if e.kind == setValue || t <= prevTime {
				return prevValue
			}
			x := (t - prevTime) / (e.time - prevTime)
			switch e.kind {
			case linearRamp:
				return prevValue + (e.value-prevValue)*x
			case exponentialRamp:
				if prevValue <= 0 {
					return prevValue
				}
				return prevValue * math.Pow(e.value/prevValue, x)
			}
		}
		prevTime, prevValue = e.time, e.value
	}
	return prevValue
}

// EndTime returns the time of the last scheduled event, or 0 if there is none.
func (p *Param) EndTime() float64 {
	if len(p.events) == 0 {
		return 0
	}
	return p.events[len(p.events)-1].time
}

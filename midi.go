package chime

import (
	"bytes"
	"fmt"
	"math"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const ticksPerQuarter = 960

// MIDIKey returns the MIDI key closest to the frequency, with A4 = 440 Hz =
// key 69, clamped to [0, 127].
func MIDIKey(frequency float64) uint8 {
	if frequency <= 0 {
		return 0
	}
	key := math.Round(69 + 12*math.Log2(frequency/440))
	return uint8(math.Max(0, math.Min(127, key)))
}

type (
	midiEvent struct {
		tick uint32
		on   bool
		key  uint8
	}

	midiSpan struct {
		key     uint8
		on, off uint32
	}
)

// midiSpans converts the notes into key spans, merging spans of the same key
// that overlap. Spans that only touch are kept apart.
func midiSpans(notes []Note, ticks func(float64) uint32) []midiSpan {
	spans := make([]midiSpan, 0, len(notes))
	for _, n := range notes {
		spans = append(spans, midiSpan{key: MIDIKey(n.Frequency), on: ticks(n.Start), off: ticks(n.Start + n.Duration)})
	}
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].key != spans[j].key {
			return spans[i].key < spans[j].key
		}
		return spans[i].on < spans[j].on
	})
	merged := spans[:0]
	for _, s := range spans {
		if last := len(merged) - 1; last >= 0 && merged[last].key == s.key && s.on < merged[last].off {
			if s.off > merged[last].off {
				merged[last].off = s.off
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// MIDI renders the cue as a single track Standard MIDI File, notes on channel
// 0. Each frequency is rounded to the nearest key and the note velocity is
// derived from the envelope peak. Notes that overlap on the same key are
// merged: the key sounds from the earliest start to the latest stop, so every
// note off ends a sounding note.
func (c Cue) MIDI(bpm float64) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if bpm <= 0 || math.IsNaN(bpm) || math.IsInf(bpm, 0) {
		return nil, fmt.Errorf("bpm should be positive, got %v", bpm)
	}
	ticks := func(seconds float64) uint32 {
		return uint32(math.Round(seconds * bpm / 60 * ticksPerQuarter))
	}
	velocity := uint8(math.Max(1, math.Min(127, math.Round(c.Envelope.Peak*127))))
	events := make([]midiEvent, 0, len(c.Notes)*2)
	for _, s := range midiSpans(c.Notes, ticks) {
		events = append(events,
			midiEvent{tick: s.on, on: true, key: s.key},
			midiEvent{tick: s.off, on: false, key: s.key})
	}
	// note offs before note ons at the same tick, so repeated keys retrigger
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return !events[i].on && events[j].on
	})
	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(c.Name))
	track.Add(0, smf.MetaTempo(bpm))
	var prev uint32
	for _, e := range events {
		var msg midi.Message
		if e.on {
			msg = midi.NoteOn(0, e.key, velocity)
		} else {
			msg = midi.NoteOff(0, e.key)
		}
		track.Add(e.tick-prev, msg)
		prev = e.tick
	}
	track.Close(0)
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)
	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("could not add track: %w", err)
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("could not write midi file: %w", err)
	}
	return buf.Bytes(), nil
}

package chime_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsariola/chime"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestMIDIKey(t *testing.T) {
	tests := []struct {
		frequency float64
		want      uint8
	}{
		{440, 69},
		{523.25, 72},
		{659.25, 76},
		{698.46, 77},
		{783.99, 79},
		{880, 81},
		{0, 0},
		{1, 0},
		{1e6, 127},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, chime.MIDIKey(tt.frequency), "frequency %v", tt.frequency)
	}
}

func TestCueMIDI(t *testing.T) {
	data, err := chime.Happy().MIDI(120)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("MThd")))
	assert.True(t, bytes.Contains(data, []byte("MTrk")))
	s, err := smf.ReadFrom(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, s.Tracks, 1)
	noteOns := 0
	sounding := map[uint8]uint32{}
	spans := map[uint8][2]uint32{}
	var tick uint32
	for _, ev := range s.Tracks[0] {
		tick += ev.Delta
		msg := midi.Message(ev.Message)
		var channel, key, velocity uint8
		switch {
		case msg.GetNoteStart(&channel, &key, &velocity):
			noteOns++
			assert.Equal(t, uint8(25), velocity)
			_, ok := sounding[key]
			assert.False(t, ok, "key %d started while already sounding", key)
			sounding[key] = tick
		case msg.GetNoteEnd(&channel, &key):
			on, ok := sounding[key]
			require.True(t, ok, "note off for silent key %d at tick %d", key, tick)
			delete(sounding, key)
			spans[key] = [2]uint32{on, tick}
		}
	}
	// C5 is in both chords, so its two overlapping notes become one
	assert.Equal(t, 5, noteOns)
	assert.Empty(t, sounding)
	// 0.55 s at 120 bpm and 960 ticks per quarter
	assert.Equal(t, [2]uint32{0, 1056}, spans[72])
	assert.Equal(t, [2]uint32{0, 576}, spans[76])
	assert.Equal(t, [2]uint32{288, 1056}, spans[81])
}

func TestCueMIDIRetriggersTouchingNotes(t *testing.T) {
	cue := chime.Cue{Name: "repeat", Envelope: chime.DefaultEnvelope, Notes: []chime.Note{
		{Frequency: 440, Start: 0, Duration: 0.5},
		{Frequency: 440, Start: 0.5, Duration: 0.5},
	}}
	data, err := cue.MIDI(120)
	require.NoError(t, err)
	s, err := smf.ReadFrom(bytes.NewReader(data))
	require.NoError(t, err)
	noteOns := 0
	for _, ev := range s.Tracks[0] {
		var channel, key, velocity uint8
		if midi.Message(ev.Message).GetNoteStart(&channel, &key, &velocity) {
			noteOns++
		}
	}
	assert.Equal(t, 2, noteOns)
}

func TestCueMIDIErrors(t *testing.T) {
	_, err := chime.Happy().MIDI(0)
	assert.Error(t, err)
	_, err = chime.Cue{}.MIDI(120)
	assert.ErrorIs(t, err, chime.ErrInvalidCue)
}

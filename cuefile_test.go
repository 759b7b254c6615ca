package chime_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsariola/chime"
)

const levelUpYAML = `name: level up
waveform: triangle
envelope: {attack: 0.02, peak: 0.3, floor: 0.005}
notes:
  - {frequency: 440, start: 0, duration: 0.2}
  - {frequency: 554.37, start: 0.1, duration: 0.2}
  - {frequency: 659.25, start: 0.2, duration: 0.5}
`

func TestParseCueYAML(t *testing.T) {
	cue, err := chime.ParseCue([]byte(levelUpYAML))
	require.NoError(t, err)
	assert.Equal(t, "level up", cue.Name)
	assert.Equal(t, chime.Triangle, cue.Waveform)
	assert.Equal(t, chime.Envelope{Attack: 0.02, Peak: 0.3, Floor: 0.005}, cue.Envelope)
	require.Len(t, cue.Notes, 3)
	assert.Equal(t, chime.Note{Frequency: 554.37, Start: 0.1, Duration: 0.2}, cue.Notes[1])
}

func TestParseCueJSON(t *testing.T) {
	cue, err := chime.ParseCue([]byte(`{"name": "ping", "notes": [{"frequency": 1000, "start": 0, "duration": 0.1}]}`))
	require.NoError(t, err)
	assert.Equal(t, "ping", cue.Name)
	assert.Equal(t, chime.Sine, cue.Waveform)
	assert.Equal(t, chime.DefaultEnvelope, cue.Envelope, "missing envelope should default")
}

func TestParseCueErrors(t *testing.T) {
	_, err := chime.ParseCue([]byte("notes: [this is: not: valid"))
	assert.Error(t, err)
	_, err = chime.ParseCue([]byte("name: silent\nnotes: []\n"))
	assert.ErrorIs(t, err, chime.ErrInvalidCue)
	_, err = chime.ParseCue([]byte("waveform: noise\nnotes: [{frequency: 1, start: 0, duration: 1}]\n"))
	assert.Error(t, err)
	for _, doc := range []string{
		"notes: [{frequency: 440, start: 0, duration: .inf}]\n",
		"notes: [{frequency: .nan, start: 0, duration: 0.1}]\n",
		"envelope: {attack: .nan, peak: 0.2, floor: 0.01}\nnotes: [{frequency: 440, start: 0, duration: 0.1}]\n",
		"notes: [{frequency: 440, start: 0, duration: 1e12}]\n",
	} {
		_, err = chime.ParseCue([]byte(doc))
		assert.ErrorIs(t, err, chime.ErrInvalidCue, doc)
	}
}

func TestCueYAMLRoundTrip(t *testing.T) {
	out, err := chime.Happy().YAML()
	require.NoError(t, err)
	back, err := chime.ParseCue(out)
	require.NoError(t, err)
	assert.Equal(t, chime.Happy(), back)
}

func TestLoadCueNamesAfterFile(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "coin.yml")
	require.NoError(t, os.WriteFile(filename, []byte("notes:\n  - {frequency: 987.77, start: 0, duration: 0.08}\n"), 0644))
	cue, err := chime.LoadCue(filename)
	require.NoError(t, err)
	assert.Equal(t, "coin", cue.Name)

	_, err = chime.LoadCue(filepath.Join(dir, "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

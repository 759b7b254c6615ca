package chime_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsariola/chime"
)

func TestPeak(t *testing.T) {
	assert.Equal(t, float32(0), chime.Peak(nil))
	assert.Equal(t, float32(0.75), chime.Peak(chime.AudioBuffer{{0.1, -0.2}, {0.5, -0.75}, {0, 0}}))
}

func TestVolumeAnalyzerSilence(t *testing.T) {
	v := chime.NewPeakAnalyzer(44100)
	require.NoError(t, v.Update(make(chime.AudioBuffer, 1000)))
	assert.InDelta(t, v.Min, v.Level[0], 1e-9)
	assert.InDelta(t, v.Min, v.Level[1], 1e-9)
}

func TestVolumeAnalyzerFollowsCue(t *testing.T) {
	buffer, err := chime.NewSynth(44100).RenderCue(chime.Happy())
	require.NoError(t, err)
	v := chime.NewPeakAnalyzer(44100)
	require.NoError(t, v.Update(buffer[:4410]))
	peakDB := 20 * math.Log10(float64(chime.Peak(buffer[:4410])))
	assert.Greater(t, v.Level[0], v.Min)
	assert.LessOrEqual(t, v.Level[0], peakDB+1e-6)
}

func TestVolumeAnalyzerNaN(t *testing.T) {
	v := chime.NewPeakAnalyzer(44100)
	nan := float32(math.NaN())
	assert.Error(t, v.Update(chime.AudioBuffer{{nan, 0}}))
}

package chime

import (
	"errors"
	"math"

	"github.com/viterin/vek/vek32"
)

type (
	Volume [2]float64

	// VolumeAnalyzer measures the volume in an AudioBuffer, in decibels relative to
	// full scale (0 dB = signal level of +-1)
	VolumeAnalyzer struct {
		Level      Volume  // current volume level of left and right channels
		Attack     float64 // attack time constant in seconds
		Release    float64 // release time constant in seconds
		Min        float64 // minimum volume in decibels
		Max        float64 // maximum volume in decibels
		SampleRate int
	}
)

var nanError = errors.New("NaN detected in rendered cue")

// NewPeakAnalyzer returns a VolumeAnalyzer with time constants suitable for
// peak level detection, starting from Min.
func NewPeakAnalyzer(sampleRate int) *VolumeAnalyzer {
	return &VolumeAnalyzer{
		Level:      Volume{-60, -60},
		Attack:     1.5e-3,
		Release:    1.5,
		Min:        -60,
		Max:        40,
		SampleRate: sampleRate,
	}
}

// Update updates the Level field, by analyzing the given buffer.
//
// The signal is converted to decibels and smoothed with an exponentially
// decaying average, using the Attack time constant when the level rises and
// Release when it falls. Min and Max are hard limits in decibels to prevent
// negative infinities for silent samples.
func (v *VolumeAnalyzer) Update(buffer AudioBuffer) (err error) {
	rate := float64(v.SampleRate)
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	alphaAttack := 1 - math.Exp(-1.0/(v.Attack*rate))
	alphaRelease := 1 - math.Exp(-1.0/(v.Release*rate))
	for j := 0; j < 2; j++ {
		for i := 0; i < len(buffer); i++ {
			sample2 := float64(buffer[i][j] * buffer[i][j])
			if math.IsNaN(sample2) {
				if err == nil {
					err = nanError
				}
				continue
			}
			dB := 10 * math.Log10(sample2)
			if dB < v.Min || math.IsNaN(dB) {
				dB = v.Min
			}
			if dB > v.Max {
				dB = v.Max
			}
			a := alphaAttack
			if dB < v.Level[j] {
				a = alphaRelease
			}
			v.Level[j] += (dB - v.Level[j]) * a
		}
	}
	return err
}

// Peak returns the largest absolute sample value over both channels.
func Peak(buffer AudioBuffer) float32 {
	if len(buffer) == 0 {
		return 0
	}
	var ret float32
	tmp := make([]float32, 0, len(buffer))
	for c := 0; c < 2; c++ {
		tmp = buffer.Channel(c, tmp)
		vek32.Abs_Inplace(tmp)
		if p := vek32.Max(tmp); p > ret {
			ret = p
		}
	}
	return ret
}

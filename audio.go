package chime

type (
	// AudioBuffer is a buffer of stereo audio samples of variable length, each
	// sample represented by [2]float32. [0] is left channel, [1] is right.
	AudioBuffer [][2]float32

	// AudioContext is the host audio device: it plays whole buffers and
	// returns immediately, leaving playback to the device.
	AudioContext interface {
		SampleRate() int
		Play(buffer AudioBuffer) (CloserWaiter, error)
		Close() error
	}

	// CloserWaiter is the handle of a buffer being played. Wait blocks until
	// the buffer has been played out; Close stops playback.
	CloserWaiter interface {
		Close() error
		Wait()
	}
)

// Duration returns the length of the buffer in seconds.
func (buffer AudioBuffer) Duration(sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(len(buffer)) / float64(sampleRate)
}

// Channel copies one channel of the buffer into dst, growing it as needed.
func (buffer AudioBuffer) Channel(channel int, dst []float32) []float32 {
	dst = dst[:0]
	for _, s := range buffer {
		dst = append(dst, s[channel])
	}
	return dst
}

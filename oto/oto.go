package oto

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/vsariola/chime"
)

// OtoContext plays chime audio buffers on the default output device. oto
// allows only one context per process, so NewContext hands out the same
// OtoContext every time: Close suspends it and the next NewContext resumes it.
type OtoContext struct {
	device     device
	sampleRate int
	bufferSize time.Duration
	suspended  bool
}

// OtoOutput is one buffer playing on an OtoContext.
type OtoOutput struct {
	player *oto.Player
}

// device is the part of *oto.Context used here.
type device interface {
	NewPlayer(r io.Reader) *oto.Player
	Suspend() error
	Resume() error
	Err() error
}

const pollInterval = 10 * time.Millisecond

var (
	sharedMu sync.Mutex
	shared   *OtoContext

	newDevice = func(op *oto.NewContextOptions) (device, error) {
		context, ready, err := oto.NewContext(op)
		if err != nil {
			return nil, err
		}
		<-ready
		return context, nil
	}
)

// NewContext returns the process-wide OtoContext playing stereo float32
// samples at the given rate, creating it on the first call. bufferSize of zero
// lets oto pick the device default. Once created, the context cannot change
// its sample rate or buffer size.
func NewContext(sampleRate int, bufferSize time.Duration) (*OtoContext, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if c := shared; c != nil {
		if c.sampleRate != sampleRate || c.bufferSize != bufferSize {
			return nil, fmt.Errorf("oto context already open at %d Hz / %v, cannot reopen at %d Hz / %v", c.sampleRate, c.bufferSize, sampleRate, bufferSize)
		}
		if c.suspended {
			if err := c.device.Resume(); err != nil {
				return nil, fmt.Errorf("cannot resume oto context: %w", err)
			}
			c.suspended = false
		}
		return c, nil
	}
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	}
	d, err := newDevice(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	shared = &OtoContext{device: d, sampleRate: sampleRate, bufferSize: bufferSize}
	return shared, nil
}

// Factory returns a chime.ContextFactory handing out the shared OtoContext.
func Factory(sampleRate int, bufferSize time.Duration) chime.ContextFactory {
	return func() (chime.AudioContext, error) {
		return NewContext(sampleRate, bufferSize)
	}
}

func (c *OtoContext) SampleRate() int {
	return c.sampleRate
}

// Play starts playing the buffer and returns immediately.
func (c *OtoContext) Play(buffer chime.AudioBuffer) (chime.CloserWaiter, error) {
	if err := c.device.Err(); err != nil {
		return nil, fmt.Errorf("oto context failed: %w", err)
	}
	player := c.device.NewPlayer(bytes.NewReader(FloatBufferToBytes(buffer, nil)))
	player.Play()
	return &OtoOutput{player: player}, nil
}

// Close suspends the device; oto contexts cannot be destroyed. The next
// NewContext resumes it.
func (c *OtoContext) Close() error {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if c.suspended {
		return nil
	}
	if err := c.device.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	c.suspended = true
	return nil
}

// Wait blocks until the player has drained its buffer.
func (o *OtoOutput) Wait() {
	for o.player.IsPlaying() {
		time.Sleep(pollInterval)
	}
}

// Close disposes of resources
func (o *OtoOutput) Close() error {
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}

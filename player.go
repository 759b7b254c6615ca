package chime

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

type (
	// Policy decides what happens to a cue that could not be played.
	Policy int

	// ContextFactory acquires the host audio device. It is called lazily, the
	// first time a cue is played.
	ContextFactory func() (AudioContext, error)

	// Player plays cues on a process-wide audio context. The context is
	// created on first use, shared by all later calls and torn down by Close.
	// A failed acquisition is not retried within a call; the next call tries
	// again.
	Player struct {
		factory ContextFactory
		policy  Policy
		logger  zerolog.Logger
		enabled bool
		volume  float32
		errs    chan error

		mu      sync.Mutex
		context AudioContext
		playing inflight
	}

	PlayerOption func(*Player)

	// inflight counts playing cues. Unlike sync.WaitGroup, add may run
	// concurrently with wait.
	inflight struct {
		mu   sync.Mutex
		cond sync.Cond
		n    int
	}
)

const (
	// BestEffort logs failures as warnings and otherwise ignores them; the
	// cue is cosmetic and must never disturb the feature that fired it.
	BestEffort Policy = iota
	// Strict additionally reports failures on Player.Errors.
	Strict
)

// ErrDeviceUnavailable is wrapped by errors caused by the audio device not
// being obtainable.
var ErrDeviceUnavailable = errors.New("audio device unavailable")

const errorQueueLength = 16

func (p Policy) String() string {
	switch p {
	case BestEffort:
		return "best-effort"
	case Strict:
		return "strict"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "best-effort", "besteffort":
		return BestEffort, nil
	case "strict":
		return Strict, nil
	}
	return BestEffort, fmt.Errorf("unknown policy %q (expected best-effort or strict)", s)
}

func WithPolicy(policy Policy) PlayerOption {
	return func(p *Player) { p.policy = policy }
}

func WithLogger(logger zerolog.Logger) PlayerOption {
	return func(p *Player) { p.logger = logger }
}

// WithEnabled(false) turns every play request into a no-op.
func WithEnabled(enabled bool) PlayerOption {
	return func(p *Player) { p.enabled = enabled }
}

// WithVolume sets the master gain applied to rendered cues. A volume of zero
// mutes the player without acquiring the audio device.
func WithVolume(volume float32) PlayerOption {
	return func(p *Player) { p.volume = volume }
}

func NewPlayer(factory ContextFactory, opts ...PlayerOption) *Player {
	p := &Player{
		factory: factory,
		logger:  zerolog.Nop(),
		enabled: true,
		volume:  1,
		errs:    make(chan error, errorQueueLength),
	}
	p.playing.cond.L = &p.playing.mu
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PlayCue plays the happy cue in the background and returns immediately.
// Failures are handled according to the player policy and never reach the
// caller.
func (p *Player) PlayCue() {
	p.PlayAsync(Happy())
}

// PlayAsync plays the cue in the background and returns immediately.
func (p *Player) PlayAsync(cue Cue) {
	if p.muted() {
		return
	}
	p.playing.add()
	go func() {
		defer p.playing.done()
		defer func() {
			if r := recover(); r != nil {
				p.report(fmt.Errorf("playing cue %q panicked: %v", cue.Name, r))
			}
		}()
		if err := p.Play(context.Background(), cue); err != nil {
			p.report(err)
		}
	}()
}

// Play renders the cue and hands it to the audio device. It returns once the
// device has accepted the buffer, before playback completes. Errors caused by
// the device wrap ErrDeviceUnavailable.
func (p *Player) Play(ctx context.Context, cue Cue) error {
	if p.muted() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	audio, err := p.acquire()
	if err != nil {
		return err
	}
	seq, err := cue.Schedule(0)
	if err != nil {
		return fmt.Errorf("cannot schedule cue %q: %w", cue.Name, err)
	}
	synth := Synth{SampleRate: audio.SampleRate(), Volume: p.volume}
	buffer := synth.Render(seq)
	if err := ctx.Err(); err != nil {
		return err
	}
	waiter, err := audio.Play(buffer)
	if err != nil {
		return fmt.Errorf("%w: cannot play cue %q: %v", ErrDeviceUnavailable, cue.Name, err)
	}
	p.logger.Debug().
		Str("cue", cue.Name).
		Stringer("sequence", seq.ID).
		Int("voices", len(seq.Voices)).
		Float64("seconds", buffer.Duration(synth.SampleRate)).
		Msg("cue scheduled")
	p.playing.add()
	go func() {
		defer p.playing.done()
		waiter.Wait()
		if err := waiter.Close(); err != nil {
			p.logger.Debug().Err(err).Stringer("sequence", seq.ID).Msg("closing cue output failed")
		}
	}()
	return nil
}

// Errors returns the failures of background cues under the Strict policy.
// Failures are dropped if nobody drains the channel.
func (p *Player) Errors() <-chan error {
	return p.errs
}

// Wait blocks until no cue is playing. It is safe to call concurrently with
// Play and PlayAsync.
func (p *Player) Wait() {
	p.playing.wait()
}

// Close waits for the playing cues and releases the audio context.
func (p *Player) Close() error {
	p.playing.wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.context == nil {
		return nil
	}
	err := p.context.Close()
	p.context = nil
	if err != nil {
		return fmt.Errorf("cannot close audio context: %w", err)
	}
	return nil
}

func (f *inflight) add() {
	f.mu.Lock()
	f.n++
	f.mu.Unlock()
}

func (f *inflight) done() {
	f.mu.Lock()
	f.n--
	if f.n == 0 {
		f.cond.Broadcast()
	}
	f.mu.Unlock()
}

func (f *inflight) wait() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for f.n > 0 {
		f.cond.Wait()
	}
}

func (p *Player) muted() bool {
	return !p.enabled || p.volume == 0
}

func (p *Player) acquire() (ret AudioContext, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.context != nil {
		return p.context, nil
	}
	if p.factory == nil {
		return nil, fmt.Errorf("%w: no audio backend configured", ErrDeviceUnavailable)
	}
	defer func() {
		if r := recover(); r != nil {
			ret, err = nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, r)
		}
	}()
	c, err := p.factory()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: backend returned no context", ErrDeviceUnavailable)
	}
	p.context = c
	return c, nil
}

func (p *Player) report(err error) {
	if p.policy != Strict {
		p.logger.Warn().Err(err).Msg("cue not played")
		return
	}
	p.logger.Error().Err(err).Msg("cue not played")
	select {
	case p.errs <- err:
	default:
	}
}

var (
	defaultMu     sync.Mutex
	defaultPlayer = NewPlayer(nil)
)

// SetDefaultPlayer replaces the player used by the package level PlayCue.
// Until it is called, PlayCue has no audio backend and does nothing audible.
func SetDefaultPlayer(p *Player) {
	defaultMu.Lock()
	defaultPlayer = p
	defaultMu.Unlock()
}

func DefaultPlayer() *Player {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultPlayer
}

// PlayCue plays the happy cue on the default player without blocking.
func PlayCue() {
	DefaultPlayer().PlayCue()
}

package chime_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsariola/chime"
)

const fakeSampleRate = 8000

type fakeContext struct {
	mu     sync.Mutex
	played []chime.AudioBuffer
	closed bool
}

type fakeOutput struct{}

func (c *fakeContext) SampleRate() int { return fakeSampleRate }

func (c *fakeContext) Play(buffer chime.AudioBuffer) (chime.CloserWaiter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.played = append(c.played, buffer)
	return fakeOutput{}, nil
}

func (c *fakeContext) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeContext) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.played)
}

func (fakeOutput) Wait()        {}
func (fakeOutput) Close() error { return nil }

// countingFactory returns a factory handing out fresh fake contexts and the
// number of times it has been called.
func countingFactory() (chime.ContextFactory, *int32, *[]*fakeContext) {
	var calls int32
	var contexts []*fakeContext
	return func() (chime.AudioContext, error) {
		atomic.AddInt32(&calls, 1)
		c := &fakeContext{}
		contexts = append(contexts, c)
		return c, nil
	}, &calls, &contexts
}

func failingFactory() (chime.AudioContext, error) {
	return nil, errors.New("no sound card")
}

func TestPlayerSharesContext(t *testing.T) {
	factory, calls, contexts := countingFactory()
	player := chime.NewPlayer(factory)
	for i := 0; i < 5; i++ {
		player.PlayCue()
	}
	player.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	require.Len(t, *contexts, 1)
	c := (*contexts)[0]
	require.Equal(t, 5, c.count())
	for _, b := range c.played {
		assert.Equal(t, 4400, len(b))
	}
}

func TestPlayCueDoesNotBlock(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	c := &fakeContext{}
	player := chime.NewPlayer(func() (chime.AudioContext, error) {
		close(entered)
		<-release
		return c, nil
	})
	start := time.Now()
	player.PlayCue() // returns although the device is not yet available
	returned := time.Since(start)
	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("device acquisition never started")
	}
	assert.Equal(t, 0, c.count(), "nothing should have been played before the device is acquired")
	close(release)
	player.Wait()
	assert.Equal(t, 1, c.count())
	assert.Less(t, returned, 300*time.Millisecond)
}

func TestBestEffortSwallowsDeviceFailure(t *testing.T) {
	var logs bytes.Buffer
	player := chime.NewPlayer(failingFactory, chime.WithLogger(zerolog.New(&logs)))
	assert.NotPanics(t, player.PlayCue)
	player.Wait()
	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), "audio device unavailable")
	assert.Contains(t, logs.String(), "no sound card")
	select {
	case err := <-player.Errors():
		t.Fatalf("best-effort player reported %v", err)
	default:
	}
}

func TestStrictReportsDeviceFailure(t *testing.T) {
	player := chime.NewPlayer(failingFactory, chime.WithPolicy(chime.Strict))
	player.PlayCue()
	player.Wait()
	select {
	case err := <-player.Errors():
		assert.ErrorIs(t, err, chime.ErrDeviceUnavailable)
	default:
		t.Fatal("strict player did not report the failure")
	}
}

func TestPlayReturnsDeviceUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		factory chime.ContextFactory
	}{
		{"error", failingFactory},
		{"panic", func() (chime.AudioContext, error) { panic("audio context constructor threw") }},
		{"nil context", func() (chime.AudioContext, error) { return nil, nil }},
		{"no factory", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := chime.NewPlayer(tt.factory)
			err := player.Play(context.Background(), chime.Happy())
			assert.ErrorIs(t, err, chime.ErrDeviceUnavailable)
		})
	}
}

func TestPlayerRetriesAcquisitionOnNextCall(t *testing.T) {
	var calls int32
	c := &fakeContext{}
	player := chime.NewPlayer(func() (chime.AudioContext, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, errors.New("device busy")
		}
		return c, nil
	})
	assert.ErrorIs(t, player.Play(context.Background(), chime.Happy()), chime.ErrDeviceUnavailable)
	assert.NoError(t, player.Play(context.Background(), chime.Happy()))
	player.Wait()
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, 1, c.count())
}

func TestDisabledPlayerDoesNothing(t *testing.T) {
	factory, calls, _ := countingFactory()
	player := chime.NewPlayer(factory, chime.WithEnabled(false))
	player.PlayCue()
	assert.NoError(t, player.Play(context.Background(), chime.Happy()))
	player.Wait()
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestMutedPlayerDoesNotAcquireDevice(t *testing.T) {
	factory, calls, _ := countingFactory()
	player := chime.NewPlayer(factory, chime.WithVolume(0))
	player.PlayCue()
	assert.NoError(t, player.Play(context.Background(), chime.Happy()))
	player.Wait()
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestPlayConcurrentWithWait(t *testing.T) {
	factory, _, contexts := countingFactory()
	player := chime.NewPlayer(factory)
	stop := make(chan struct{})
	waiters := sync.WaitGroup{}
	for i := 0; i < 4; i++ {
		waiters.Add(1)
		go func() {
			defer waiters.Done()
			for {
				select {
				case <-stop:
					return
				default:
					player.Wait()
				}
			}
		}()
	}
	for i := 0; i < 50; i++ {
		require.NoError(t, player.Play(context.Background(), chime.Happy()))
	}
	close(stop)
	waiters.Wait()
	player.Wait()
	require.Len(t, *contexts, 1)
	assert.Equal(t, 50, (*contexts)[0].count())
}

func TestPlayerCloseReleasesContext(t *testing.T) {
	factory, calls, contexts := countingFactory()
	player := chime.NewPlayer(factory)
	require.NoError(t, player.Play(context.Background(), chime.Happy()))
	require.NoError(t, player.Close())
	require.Len(t, *contexts, 1)
	assert.True(t, (*contexts)[0].closed)
	require.NoError(t, player.Play(context.Background(), chime.Happy()))
	player.Wait()
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
	assert.NoError(t, player.Close())
	assert.NoError(t, player.Close(), "closing twice is harmless")
}

func TestPlayHonoursCanceledContext(t *testing.T) {
	factory, calls, _ := countingFactory()
	player := chime.NewPlayer(factory)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, player.Play(ctx, chime.Happy()), context.Canceled)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestPlayerVolume(t *testing.T) {
	factory, _, contexts := countingFactory()
	player := chime.NewPlayer(factory, chime.WithVolume(0.5))
	require.NoError(t, player.Play(context.Background(), chime.Happy()))
	player.Wait()
	full, err := chime.NewSynth(fakeSampleRate).RenderCue(chime.Happy())
	require.NoError(t, err)
	played := (*contexts)[0].played[0]
	assert.InDelta(t, chime.Peak(full)/2, chime.Peak(played), 1e-6)
}

func TestPackageLevelPlayCue(t *testing.T) {
	previous := chime.DefaultPlayer()
	defer chime.SetDefaultPlayer(previous)
	factory, calls, _ := countingFactory()
	player := chime.NewPlayer(factory)
	chime.SetDefaultPlayer(player)
	chime.PlayCue()
	player.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestParsePolicy(t *testing.T) {
	for _, s := range []string{"", "best-effort", "BestEffort"} {
		p, err := chime.ParsePolicy(s)
		require.NoError(t, err)
		assert.Equal(t, chime.BestEffort, p)
	}
	p, err := chime.ParsePolicy(" Strict ")
	require.NoError(t, err)
	assert.Equal(t, chime.Strict, p)
	_, err = chime.ParsePolicy("loud")
	assert.Error(t, err)
	assert.Equal(t, "strict", chime.Strict.String())
}

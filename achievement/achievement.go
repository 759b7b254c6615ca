// Package achievement tracks unlocked achievements and celebrates each unlock
// with a cue. The cue is decoration: an unlock succeeds whether or not any
// sound is heard.
package achievement

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type (
	// Cuer plays a cue without blocking. *chime.Player implements it.
	Cuer interface {
		PlayCue()
	}

	Unlock struct {
		ID   uuid.UUID
		Name string
		At   time.Time
	}

	// Board records which achievements have been unlocked.
	Board struct {
		cue    Cuer
		logger zerolog.Logger
		now    func() time.Time

		mu       sync.Mutex
		unlocked map[string]Unlock
	}
)

var (
	ErrAlreadyUnlocked = errors.New("achievement already unlocked")
	ErrEmptyName       = errors.New("achievement name is empty")
)

// NewBoard returns an empty board celebrating unlocks with cue. cue may be nil
// for silent boards.
func NewBoard(cue Cuer, logger zerolog.Logger) *Board {
	return &Board{
		cue:      cue,
		logger:   logger,
		now:      time.Now,
		unlocked: map[string]Unlock{},
	}
}

// Unlock records the achievement and then plays the cue. Unlocking the same
// achievement twice returns ErrAlreadyUnlocked and plays nothing.
func (b *Board) Unlock(name string) (Unlock, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Unlock{}, ErrEmptyName
	}
	b.mu.Lock()
	if u, ok := b.unlocked[name]; ok {
		b.mu.Unlock()
		return u, fmt.Errorf("%w: %v", ErrAlreadyUnlocked, name)
	}
	u := Unlock{ID: uuid.New(), Name: name, At: b.now()}
	b.unlocked[name] = u
	b.mu.Unlock()
	b.logger.Info().Str("achievement", name).Stringer("id", u.ID).Msg("achievement unlocked")
	b.celebrate(u)
	return u, nil
}

func (b *Board) celebrate(u Unlock) {
	if b.cue == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.logger.Warn().Interface("panic", r).Stringer("id", u.ID).Msg("unlock cue failed")
		}
	}()
	b.cue.PlayCue()
}

func (b *Board) Unlocked(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.unlocked[strings.TrimSpace(name)]
	return ok
}

// List returns the unlocks in the order they happened.
func (b *Board) List() []Unlock {
	b.mu.Lock()
	ret := make([]Unlock, 0, len(b.unlocked))
	for _, u := range b.unlocked {
		ret = append(ret, u)
	}
	b.mu.Unlock()
	sort.Slice(ret, func(i, j int) bool {
		if ret[i].At.Equal(ret[j].At) {
			return ret[i].Name < ret[j].Name
		}
		return ret[i].At.Before(ret[j].At)
	})
	return ret
}

package supervisor

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sat8bit/guesswho/bus"
)

// Supervisor ends a run once the player has seen maxRounds reveals.
// The engine has no quit transition; the run is stopped from outside by
// cancelling its context.
type Supervisor struct {
	maxRounds  int
	rounds     int
	bus        bus.Bus
	cancelFunc context.CancelFunc
	mu         sync.Mutex
}

// NewSupervisor returns a Supervisor; maxRounds <= 0 means no limit.
func NewSupervisor(maxRounds int, bus bus.Bus, cancelFunc context.CancelFunc) *Supervisor {
	return &Supervisor{
		maxRounds:  maxRounds,
		bus:        bus,
		cancelFunc: cancelFunc,
	}
}

// Start begins counting reveals.
func (s *Supervisor) Start() {
	ch := s.bus.Subscribe()

	go func() {
		for e := range ch {
			if e.Kind != bus.KindRevealed {
				continue
			}

			s.mu.Lock()
			s.rounds++
			reached := s.maxRounds > 0 && s.rounds >= s.maxRounds
			s.mu.Unlock()

			if reached {
				slog.Info("round limit reached", "rounds", s.maxRounds)
				s.cancelFunc()
				return
			}
		}
	}()
}

func (s *Supervisor) CurrentRound() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rounds
}

// MaxRounds is immutable, so no lock.
func (s *Supervisor) MaxRounds() int {
	return s.maxRounds
}

package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sat8bit/guesswho/bus"
	"github.com/sat8bit/guesswho/engine"
	"github.com/sat8bit/guesswho/renderer"
)

// Loop drives one engine through a renderer until the input ends, the
// context is cancelled or a terminal screen is reached.
type Loop struct {
	engine  *engine.Engine
	screens renderer.ScreenRenderer
	bus     bus.Bus
	runID   string
	logger  *slog.Logger
}

// NewLoop wires the loop; b may be nil when nobody observes the game.
func NewLoop(e *engine.Engine, screens renderer.ScreenRenderer, b bus.Bus, runID string, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		engine:  e,
		screens: screens,
		bus:     b,
		runID:   runID,
		logger:  logger,
	}
}

// Run plays until the game stops. Running out of input and cancellation are
// normal ends and return nil.
func (l *Loop) Run(ctx context.Context) error {
	defer l.broadcast(&bus.Event{Kind: bus.KindEnd})

	s := l.engine.Start()
	var pending []*bus.Event
	for {
		if ctx.Err() != nil {
			l.logger.Info("game stopped", "reason", context.Cause(ctx))
			return nil
		}

		screen := l.engine.Screen(s)
		if err := l.screens.Render(screen); err != nil {
			return fmt.Errorf("failed to render %s: %w", s.Kind, err)
		}
		for _, e := range pending {
			l.broadcast(e)
		}
		if screen.Terminal() {
			return nil
		}

		next, err := l.await(ctx, s)
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			l.logger.Info("game stopped", "reason", err)
			return nil
		case err != nil:
			return err
		}

		l.logger.Debug("transition", "from", s.Kind, "to", next.Kind, "filter", next.Filter)
		pending = l.events(s, next)
		s = next
	}
}

// await reads answers until one selects an option on s.
func (l *Loop) await(ctx context.Context, s engine.State) (engine.State, error) {
	for {
		input, err := l.screens.Input(ctx)
		if err != nil {
			return s, err
		}

		next, err := l.engine.Next(s, input)
		if errors.Is(err, engine.ErrInvalidChoice) {
			l.logger.Debug("invalid choice", "state", s.Kind, "error", err)
			if err := l.screens.Reject(input); err != nil {
				return s, fmt.Errorf("failed to reject input: %w", err)
			}
			continue
		}
		if err != nil {
			return s, err
		}
		return next, nil
	}
}

// events lists what the transition from prev to next means to observers.
// They are sent after the next screen is on display.
func (l *Loop) events(prev, next engine.State) []*bus.Event {
	var out []*bus.Event
	picked := prev.Kind == engine.ChooseTheme || prev.Kind == engine.CustomSearch
	switch {
	case picked && next.Kind == engine.ObscuredMessage:
		out = append(out, &bus.Event{Kind: bus.KindThemeChosen, Filter: next.Filter})
	case picked && next.Kind == engine.EmptyFilterResult:
		out = append(out, &bus.Event{Kind: bus.KindEmpty, Filter: next.Filter})
	case next.Kind == engine.RevealedMessage:
		out = append(out, &bus.Event{
			Kind:    bus.KindRevealed,
			Filter:  next.Filter,
			Target:  next.Target,
			Context: l.engine.Index().Context(next.Target.Position),
		})
	}
	return out
}

func (l *Loop) broadcast(e *bus.Event) {
	if l.bus == nil {
		return
	}
	e.At = time.Now()
	e.RunID = l.runID
	if err := l.bus.Broadcast(e); err != nil {
		l.logger.Warn("failed to broadcast event", "kind", e.Kind, "error", err)
	}
}

package renderer

import (
	"context"
	"sync"

	"github.com/sat8bit/guesswho/bus"
	"github.com/sat8bit/guesswho/engine"
)

// ScreenRenderer shows engine screens to the player and collects answers.
type ScreenRenderer interface {
	// Render shows every line and option of s.
	Render(s engine.Screen) error

	// Input blocks until the player submits a line or ctx is done.
	Input(ctx context.Context) (string, error)

	// Reject tells the player input selected nothing.
	Reject(input string) error
}

// Recorder observes a game through the bus.
type Recorder interface {
	// Render subscribes to b and records until the bus is closed.
	Render(b bus.Bus, wg *sync.WaitGroup) error
}

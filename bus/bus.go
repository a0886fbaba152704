package bus

import (
	"time"

	"github.com/sat8bit/guesswho/message"
)

type Kind string

const (
	KindThemeChosen Kind = "theme_chosen"
	KindEmpty       Kind = "empty"
	KindRevealed    Kind = "revealed"
	KindEnd         Kind = "end"
)

// Event is one thing that happened during a game.
type Event struct {
	Kind   Kind
	At     time.Time
	RunID  string
	Filter string

	// set for KindRevealed
	Target  message.IndexedMessage
	Context []message.IndexedMessage
}

// Bus carries game events from the interaction loop to its observers.
type Bus interface {
	Broadcast(e *Event) error
	Subscribe() <-chan *Event
	Close()
}

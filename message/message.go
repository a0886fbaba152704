package message

import (
	"time"
)

// MediaOmitted is the body a lineLog export writes in place of an attachment.
const MediaOmitted = "<Media omitted>"

// Message is one chat entry as produced by a parser.
// Parsers are the only producers; nothing modifies a Message afterwards.
type Message struct {
	At     time.Time
	From   string
	Text   string
	Source string // file the message was parsed from
}

// IndexedMessage pairs a Message with its position in an Index.
type IndexedMessage struct {
	Message
	Position int
}

package message

import (
	"errors"
	"sort"
)

// ErrEmptyIndex is returned when an operation needs at least one message.
var ErrEmptyIndex = errors.New("message index is empty")

const (
	contextBefore = 2
	contextAfter  = 2
)

// Index is the globally time-ordered message sequence of one game run.
// It is built once and never modified.
type Index struct {
	messages []IndexedMessage
}

// NewIndex concatenates the batches in the given order, sorts them by
// timestamp and assigns positions. The sort is stable, so messages sharing a
// timestamp keep their parse order. Duplicates are kept.
func NewIndex(batches ...[]Message) Index {
	var all []Message
	for _, b := range batches {
		all = append(all, b...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].At.Before(all[j].At)
	})

	indexed := make([]IndexedMessage, len(all))
	for i, m := range all {
		indexed[i] = IndexedMessage{Message: m, Position: i}
	}
	return Index{messages: indexed}
}

func (x Index) Len() int {
	return len(x.messages)
}

// At returns the message at position p. It panics when p is out of range,
// like a slice access.
func (x Index) At(p int) IndexedMessage {
	return x.messages[p]
}

// All returns the messages in index order. The returned slice is a copy.
func (x Index) All() []IndexedMessage {
	out := make([]IndexedMessage, len(x.messages))
	copy(out, x.messages)
	return out
}

// First returns the earliest message.
func (x Index) First() (IndexedMessage, error) {
	if len(x.messages) == 0 {
		return IndexedMessage{}, ErrEmptyIndex
	}
	return x.messages[0], nil
}

// Last returns the latest message.
func (x Index) Last() (IndexedMessage, error) {
	if len(x.messages) == 0 {
		return IndexedMessage{}, ErrEmptyIndex
	}
	return x.messages[len(x.messages)-1], nil
}

// Window returns the half-open range [lo, hi) of positions shown around p:
// up to two messages before and two after.
func (x Index) Window(p int) (lo, hi int) {
	lo = max(p-contextBefore, 0)
	hi = min(p+contextAfter+1, len(x.messages))
	return lo, hi
}

// Context returns the messages inside Window(p).
func (x Index) Context(p int) []IndexedMessage {
	lo, hi := x.Window(p)
	if lo >= hi {
		return nil
	}
	out := make([]IndexedMessage, hi-lo)
	copy(out, x.messages[lo:hi])
	return out
}

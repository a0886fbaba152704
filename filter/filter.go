package filter

import (
	"strings"

	"github.com/sat8bit/guesswho/message"
)

// LongWordCount is the word count a body must exceed to pass Long.
const LongWordCount = 50

// Filter is a named, side-effect free predicate over a message.
type Filter struct {
	Name      string
	Label     string
	Predicate func(message.Message) bool
}

// Match reports whether m passes the filter.
func (f Filter) Match(m message.Message) bool {
	return f.Predicate(m)
}

// Apply returns the messages of x that pass f, in index order.
// Positions are kept, so the result still addresses x.
func Apply(f Filter, x message.Index) []message.IndexedMessage {
	var out []message.IndexedMessage
	for _, m := range x.All() {
		if f.Match(m.Message) {
			out = append(out, m)
		}
	}
	return out
}

// All accepts everything except media placeholders.
func All() Filter {
	return Filter{
		Name:  "all",
		Label: "All messages",
		Predicate: func(m message.Message) bool {
			return m.Text != message.MediaOmitted
		},
	}
}

// Long accepts bodies of more than LongWordCount words.
func Long() Filter {
	return Filter{
		Name:  "long",
		Label: "Long messages",
		Predicate: func(m message.Message) bool {
			return len(strings.Fields(m.Text)) > LongWordCount
		},
	}
}

// Love is a keyword theme.
func Love() Filter {
	f := Keywords("love", "love")
	f.Label = "Love messages"
	return f
}

// Keywords accepts bodies containing any of words, ignoring case.
// Empty words are ignored; a filter without words matches nothing.
func Keywords(name string, words ...string) Filter {
	var lowered []string
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			lowered = append(lowered, w)
		}
	}
	return Filter{
		Name:  name,
		Label: "Messages containing " + strings.Join(lowered, ", "),
		Predicate: func(m message.Message) bool {
			body := strings.ToLower(m.Text)
			for _, w := range lowered {
				if strings.Contains(body, w) {
					return true
				}
			}
			return false
		},
	}
}

// ParseKeywords splits comma-separated user input into keywords.
func ParseKeywords(input string) []string {
	var words []string
	for _, part := range strings.Split(input, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			words = append(words, part)
		}
	}
	return words
}

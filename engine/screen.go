package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidScreen is returned by NewScreen when the options break the
// selection rules.
var ErrInvalidScreen = errors.New("invalid screen")

// Emphasis tells the renderer how to present a line.
type Emphasis int

const (
	Standard Emphasis = iota
	Primary
	Secondary
)

func (e Emphasis) String() string {
	switch e {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	default:
		return "standard"
	}
}

type Line struct {
	Text     string
	Emphasis Emphasis
}

// Blank is an empty standard line.
var Blank = Line{}

// Acceptance decides which raw inputs select an option.
type Acceptance struct {
	anyInput bool
	tokens   map[string]struct{}
}

// AnyInput accepts every input, including an empty line.
func AnyInput() Acceptance {
	return Acceptance{anyInput: true}
}

// Exact accepts inputs equal to one of tokens once surrounding whitespace
// is trimmed.
func Exact(tokens ...string) Acceptance {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			set[t] = struct{}{}
		}
	}
	return Acceptance{tokens: set}
}

func (a Acceptance) IsAny() bool {
	return a.anyInput
}

func (a Acceptance) Accepts(input string) bool {
	if a.anyInput {
		return true
	}
	_, ok := a.tokens[strings.TrimSpace(input)]
	return ok
}

// Tokens returns the accepted tokens in sorted order; nil for AnyInput.
func (a Acceptance) Tokens() []string {
	if a.anyInput {
		return nil
	}
	out := make([]string, 0, len(a.tokens))
	for t := range a.tokens {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

type Option struct {
	Label  string
	Accept Acceptance
}

// Screen is what the engine hands to a renderer for one step.
// A screen without options is terminal.
type Screen struct {
	Lines   []Line
	Options []Option
}

// NewScreen validates options: at most one may accept any input, and every
// exact option needs at least one token that no other option claims.
func NewScreen(lines []Line, options ...Option) (Screen, error) {
	anyCount := 0
	claimed := make(map[string]int)
	for i, o := range options {
		if o.Accept.IsAny() {
			anyCount++
			continue
		}
		tokens := o.Accept.Tokens()
		if len(tokens) == 0 {
			return Screen{}, fmt.Errorf("%w: option %q accepts nothing", ErrInvalidScreen, o.Label)
		}
		for _, t := range tokens {
			if j, ok := claimed[t]; ok {
				return Screen{}, fmt.Errorf("%w: token %q used by options %d and %d", ErrInvalidScreen, t, j, i)
			}
			claimed[t] = i
		}
	}
	if anyCount > 1 {
		return Screen{}, fmt.Errorf("%w: %d options accept any input", ErrInvalidScreen, anyCount)
	}
	return Screen{Lines: lines, Options: options}, nil
}

func mustScreen(lines []Line, options ...Option) Screen {
	s, err := NewScreen(lines, options...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Screen) Terminal() bool {
	return len(s.Options) == 0
}

// Choose returns the index of the option selected by input. Exact options
// are tried before an AnyInput option.
func (s Screen) Choose(input string) (int, bool) {
	fallback := -1
	for i, o := range s.Options {
		if o.Accept.IsAny() {
			fallback = i
			continue
		}
		if o.Accept.Accepts(input) {
			return i, true
		}
	}
	if fallback >= 0 {
		return fallback, true
	}
	return -1, false
}

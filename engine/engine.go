package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/text/language"
	xmessage "golang.org/x/text/message"

	"github.com/sat8bit/guesswho/filter"
	"github.com/sat8bit/guesswho/message"
)

// ErrInvalidChoice means the input selects nothing on the current screen.
// The state is unchanged and the player should be asked again.
var ErrInvalidChoice = errors.New("not a valid choice")

// CustomFilterName names the filter built from a player's keyword search.
const CustomFilterName = "custom"

const timestampLayout = "2006-01-02 15:04:05"

// Kind is the state of the quiz.
type Kind int

const (
	ChooseTheme Kind = iota
	CustomSearch
	EmptyFilterResult
	ObscuredMessage
	RevealedMessage
)

func (k Kind) String() string {
	switch k {
	case ChooseTheme:
		return "choose_theme"
	case CustomSearch:
		return "custom_search"
	case EmptyFilterResult:
		return "empty_filter_result"
	case ObscuredMessage:
		return "obscured_message"
	case RevealedMessage:
		return "revealed_message"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// State is everything that changes during a game. Subset is the active
// filter result; it is replaced whenever a new theme is chosen.
type State struct {
	Kind   Kind
	Filter string
	Subset []message.IndexedMessage
	Target message.IndexedMessage
}

// Picker chooses a uniform index in [0, n). *rand.Rand satisfies it.
type Picker interface {
	Intn(n int) int
}

type theme struct {
	key    string
	filter filter.Filter
}

// Engine runs the quiz over one message index. It holds no per-game state
// itself, so a State can be replayed against it.
type Engine struct {
	index     message.Index
	themes    []theme
	customKey string
	picker    Picker
	logger    *slog.Logger
	printer   *xmessage.Printer
}

// New builds an engine. An empty index is rejected with message.ErrEmptyIndex.
// A nil picker uses a time-seeded source; a nil catalog uses the default one.
func New(index message.Index, catalog *filter.Catalog, picker Picker, logger *slog.Logger) (*Engine, error) {
	if index.Len() == 0 {
		return nil, message.ErrEmptyIndex
	}
	if catalog == nil {
		catalog = filter.DefaultCatalog()
	}
	if picker == nil {
		picker = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = slog.Default()
	}

	filters := catalog.Filters()
	if len(filters) > 25 {
		return nil, fmt.Errorf("too many themes: %d", len(filters))
	}
	e := &Engine{
		index:   index,
		picker:  picker,
		logger:  logger,
		printer: xmessage.NewPrinter(language.English),
	}
	for i, f := range filters {
		e.themes = append(e.themes, theme{key: string(rune('A' + i)), filter: f})
	}
	e.customKey = string(rune('A' + len(filters)))
	return e, nil
}

func (e *Engine) Index() message.Index {
	return e.index
}

// Start returns the initial state.
func (e *Engine) Start() State {
	return State{Kind: ChooseTheme}
}

// Screen renders s. It has no side effects.
func (e *Engine) Screen(s State) Screen {
	switch s.Kind {
	case ChooseTheme:
		return e.chooseThemeScreen()
	case CustomSearch:
		return mustScreen(
			[]Line{{Text: "Type one or more words, separated by commas:", Emphasis: Secondary}},
			Option{Label: "Search", Accept: AnyInput()},
		)
	case EmptyFilterResult:
		return mustScreen(
			[]Line{{Text: "Oops, there are no messages fitting that filter!"}},
			Option{Label: "Try again?", Accept: AnyInput()},
		)
	case ObscuredMessage:
		return mustScreen(
			[]Line{{Text: s.Target.Text, Emphasis: Primary}},
			Option{Label: "Reveal?", Accept: AnyInput()},
		)
	case RevealedMessage:
		return mustScreen(e.revealLines(s.Target), Option{Label: "Continue?", Accept: AnyInput()})
	default:
		panic(fmt.Sprintf("engine: unknown state %v", s.Kind))
	}
}

// Next applies input to s and returns the following state. On
// ErrInvalidChoice the returned state equals s.
func (e *Engine) Next(s State, input string) (State, error) {
	screen := e.Screen(s)
	choice, ok := screen.Choose(input)
	if !ok {
		return s, fmt.Errorf("%w: %q", ErrInvalidChoice, strings.TrimSpace(input))
	}

	switch s.Kind {
	case ChooseTheme:
		if choice == len(e.themes) {
			return State{Kind: CustomSearch}, nil
		}
		return e.applyFilter(e.themes[choice].filter), nil
	case CustomSearch:
		words := filter.ParseKeywords(input)
		if len(words) == 0 {
			return s, fmt.Errorf("%w: no search words given", ErrInvalidChoice)
		}
		return e.applyFilter(filter.Keywords(CustomFilterName, words...)), nil
	case EmptyFilterResult:
		return e.Start(), nil
	case ObscuredMessage:
		return State{Kind: RevealedMessage, Filter: s.Filter, Subset: s.Subset, Target: s.Target}, nil
	case RevealedMessage:
		return e.pick(s.Filter, s.Subset), nil
	default:
		return s, fmt.Errorf("engine: unknown state %v", s.Kind)
	}
}

func (e *Engine) applyFilter(f filter.Filter) State {
	subset := filter.Apply(f, e.index)
	e.logger.Debug("theme chosen", "filter", f.Name, "matches", len(subset))
	if len(subset) == 0 {
		return State{Kind: EmptyFilterResult, Filter: f.Name}
	}
	return e.pick(f.Name, subset)
}

// pick draws uniformly with replacement; the same message may come back
// in a later round.
func (e *Engine) pick(filterName string, subset []message.IndexedMessage) State {
	target := subset[e.picker.Intn(len(subset))]
	return State{Kind: ObscuredMessage, Filter: filterName, Subset: subset, Target: target}
}

func (e *Engine) chooseThemeScreen() Screen {
	first, _ := e.index.First()
	last, _ := e.index.Last()

	lines := []Line{
		{Text: "Guess who sent which text, and when!", Emphasis: Primary},
		Blank,
		{Text: e.printer.Sprintf("This game includes %d texts sent between %s and %s!",
			e.index.Len(), first.At.Format(time.DateOnly), last.At.Format(time.DateOnly))},
		Blank,
		{Text: "Choose a theme!", Emphasis: Secondary},
	}

	options := make([]Option, 0, len(e.themes)+1)
	for _, t := range e.themes {
		options = append(options, Option{
			Label:  fmt.Sprintf("%s: %s", t.key, t.filter.Label),
			Accept: Exact(t.key, strings.ToLower(t.key)),
		})
	}
	options = append(options, Option{
		Label:  fmt.Sprintf("%s: Custom word search", e.customKey),
		Accept: Exact(e.customKey, strings.ToLower(e.customKey)),
	})
	return mustScreen(lines, options...)
}

func (e *Engine) revealLines(target message.IndexedMessage) []Line {
	var lines []Line
	for _, m := range e.index.Context(target.Position) {
		emphasis := Standard
		if m.Position == target.Position {
			emphasis = Primary
		}
		lines = append(lines,
			Line{Text: m.At.Format(timestampLayout), Emphasis: emphasis},
			Line{Text: m.From, Emphasis: emphasis},
			Line{Text: m.Text, Emphasis: emphasis},
			Blank,
		)
	}
	return lines
}

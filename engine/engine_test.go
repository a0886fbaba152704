package engine

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sat8bit/guesswho/filter"
	"github.com/sat8bit/guesswho/message"
)

// scriptedPicker returns picks in order and records the n it was asked for.
type scriptedPicker struct {
	picks []int
	asked []int
}

func (p *scriptedPicker) Intn(n int) int {
	p.asked = append(p.asked, n)
	v := p.picks[0]
	p.picks = p.picks[1:]
	return v
}

func fixtureIndex(n int) message.Index {
	base := time.Date(2018, 12, 13, 5, 0, 0, 0, time.UTC)
	var msgs []message.Message
	for i := 0; i < n; i++ {
		from := "Lou"
		if i%2 == 1 {
			from = "Elektra"
		}
		msgs = append(msgs, message.Message{
			At:   base.Add(time.Duration(i) * time.Minute),
			From: from,
			Text: fmt.Sprintf("message %d", i),
		})
	}
	return message.NewIndex(msgs)
}

func texts(lines []Line) []string {
	var out []string
	for _, l := range lines {
		out = append(out, l.Text)
	}
	return out
}

func TestNew_RejectsEmptyIndex(t *testing.T) {
	_, err := New(message.NewIndex(), nil, nil, nil)
	assert.ErrorIs(t, err, message.ErrEmptyIndex)
}

func TestChooseThemeScreen(t *testing.T) {
	e, err := New(fixtureIndex(3), nil, nil, nil)
	require.NoError(t, err)

	s := e.Start()
	assert.Equal(t, ChooseTheme, s.Kind)

	screen := e.Screen(s)
	assert.Equal(t, []string{
		"Guess who sent which text, and when!",
		"",
		"This game includes 3 texts sent between 2018-12-13 and 2018-12-13!",
		"",
		"Choose a theme!",
	}, texts(screen.Lines))
	assert.Equal(t, Primary, screen.Lines[0].Emphasis)
	assert.Equal(t, Secondary, screen.Lines[4].Emphasis)

	var labels []string
	for _, o := range screen.Options {
		labels = append(labels, o.Label)
		assert.False(t, o.Accept.IsAny())
	}
	assert.Equal(t, []string{
		"A: All messages",
		"B: Long messages",
		"C: Love messages",
		"D: Custom word search",
	}, labels)
}

func TestChooseThemeScreen_ThousandsSeparator(t *testing.T) {
	base := time.Date(2015, 2, 10, 0, 0, 0, 0, time.UTC)
	msgs := make([]message.Message, 1234)
	for i := range msgs {
		msgs[i] = message.Message{At: base.Add(time.Duration(i) * time.Hour), Text: "x"}
	}
	e, err := New(message.NewIndex(msgs), nil, nil, nil)
	require.NoError(t, err)

	line := e.Screen(e.Start()).Lines[2].Text
	assert.Equal(t, "This game includes 1,234 texts sent between 2015-02-10 and 2015-04-02!", line)
}

func TestNext_InvalidChoice(t *testing.T) {
	e, err := New(fixtureIndex(3), nil, nil, nil)
	require.NoError(t, err)

	s := e.Start()
	for _, input := range []string{"", "z", "AA", "all"} {
		next, err := e.Next(s, input)
		assert.ErrorIs(t, err, ErrInvalidChoice, input)
		assert.Equal(t, s, next)
	}
}

func TestNext_ThemeIsCaseInsensitiveAndTrimmed(t *testing.T) {
	for _, input := range []string{"a", "A", "  a  \n"} {
		e, err := New(fixtureIndex(3), nil, &scriptedPicker{picks: []int{0}}, nil)
		require.NoError(t, err)

		s, err := e.Next(e.Start(), input)
		require.NoError(t, err, input)
		assert.Equal(t, ObscuredMessage, s.Kind)
		assert.Equal(t, "all", s.Filter)
	}
}

func TestRound_ObscureRevealContinue(t *testing.T) {
	picker := &scriptedPicker{picks: []int{2, 4}}
	e, err := New(fixtureIndex(6), nil, picker, nil)
	require.NoError(t, err)

	s, err := e.Next(e.Start(), "A")
	require.NoError(t, err)
	require.Equal(t, ObscuredMessage, s.Kind)
	assert.Len(t, s.Subset, 6)
	assert.Equal(t, 2, s.Target.Position)

	screen := e.Screen(s)
	assert.Equal(t, []Line{{Text: "message 2", Emphasis: Primary}}, screen.Lines)
	require.Len(t, screen.Options, 1)
	assert.True(t, screen.Options[0].Accept.IsAny())

	s, err = e.Next(s, "whatever")
	require.NoError(t, err)
	require.Equal(t, RevealedMessage, s.Kind)
	assert.Equal(t, 2, s.Target.Position)

	screen = e.Screen(s)
	require.Len(t, screen.Lines, 5*4)
	assert.Equal(t, []string{"2018-12-13 05:00:00", "Lou", "message 0", ""}, texts(screen.Lines[0:4]))
	assert.Equal(t, []string{"2018-12-13 05:02:00", "Lou", "message 2", ""}, texts(screen.Lines[8:12]))
	for i, l := range screen.Lines {
		if l.Text == "" {
			continue
		}
		want := Standard
		if i >= 8 && i < 11 {
			want = Primary
		}
		assert.Equal(t, want, l.Emphasis, "line %d", i)
	}
	assert.True(t, screen.Options[0].Accept.IsAny())

	s, err = e.Next(s, "")
	require.NoError(t, err)
	assert.Equal(t, ObscuredMessage, s.Kind)
	assert.Equal(t, 4, s.Target.Position)
	assert.Len(t, s.Subset, 6)
	assert.Equal(t, []int{6, 6}, picker.asked)
}

func TestReveal_WindowAtEdges(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		pick     int
		messages int
	}{
		{"first", 6, 0, 3},
		{"second", 6, 1, 4},
		{"last", 6, 5, 3},
		{"single message", 1, 0, 1},
		{"middle", 6, 3, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(fixtureIndex(tt.n), nil, &scriptedPicker{picks: []int{tt.pick}}, nil)
			require.NoError(t, err)

			s, err := e.Next(e.Start(), "A")
			require.NoError(t, err)
			s, err = e.Next(s, "")
			require.NoError(t, err)

			lines := e.Screen(s).Lines
			assert.Len(t, lines, tt.messages*4)
			assert.Contains(t, texts(lines), fmt.Sprintf("message %d", tt.pick))
		})
	}
}

func TestReveal_UsesFullIndexNotSubset(t *testing.T) {
	idx := message.NewIndex([]message.Message{
		{At: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), From: "Lou", Text: "hello"},
		{At: time.Date(2020, 1, 1, 0, 1, 0, 0, time.UTC), From: "Elektra", Text: "I love pizza"},
		{At: time.Date(2020, 1, 1, 0, 2, 0, 0, time.UTC), From: "Lou", Text: "same"},
	})
	e, err := New(idx, nil, &scriptedPicker{picks: []int{0}}, nil)
	require.NoError(t, err)

	s, err := e.Next(e.Start(), "c")
	require.NoError(t, err)
	require.Len(t, s.Subset, 1)
	assert.Equal(t, "love", s.Filter)

	s, err = e.Next(s, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "I love pizza", "same"}, []string{
		e.Screen(s).Lines[2].Text, e.Screen(s).Lines[6].Text, e.Screen(s).Lines[10].Text,
	})
}

func TestEmptyFilterResult(t *testing.T) {
	catalog := filter.NewCatalog(filter.Keywords("nothing", "zzzz"), filter.All())
	e, err := New(fixtureIndex(3), catalog, nil, nil)
	require.NoError(t, err)

	s, err := e.Next(e.Start(), "A")
	require.NoError(t, err)
	assert.Equal(t, EmptyFilterResult, s.Kind)
	assert.Equal(t, "nothing", s.Filter)

	screen := e.Screen(s)
	require.Len(t, screen.Options, 1)
	assert.Equal(t, "Try again?", screen.Options[0].Label)
	assert.Equal(t, []string{"Oops, there are no messages fitting that filter!"}, texts(screen.Lines))

	s, err = e.Next(s, "anything at all")
	require.NoError(t, err)
	assert.Equal(t, e.Start(), s)
}

func TestLongTheme_SingleMatch(t *testing.T) {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	idx := message.NewIndex([]message.Message{
		{At: base, Text: "short"},
		{At: base.Add(time.Minute), Text: strings.Repeat("word ", 51)},
		{At: base.Add(2 * time.Minute), Text: "short again"},
	})
	picker := &scriptedPicker{picks: []int{0, 0, 0}}
	e, err := New(idx, nil, picker, nil)
	require.NoError(t, err)

	s, err := e.Next(e.Start(), "b")
	require.NoError(t, err)
	require.Len(t, s.Subset, 1)
	assert.Equal(t, 1, s.Target.Position)

	// repeats are allowed, every round draws from the same subset
	for i := 0; i < 2; i++ {
		s, err = e.Next(s, "")
		require.NoError(t, err)
		s, err = e.Next(s, "")
		require.NoError(t, err)
		assert.Equal(t, 1, s.Target.Position)
	}
}

func TestCustomSearch(t *testing.T) {
	idx := message.NewIndex([]message.Message{
		{At: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Text: "Pizza tonight?"},
		{At: time.Date(2020, 1, 1, 0, 1, 0, 0, time.UTC), Text: "sure"},
		{At: time.Date(2020, 1, 1, 0, 2, 0, 0, time.UTC), Text: "tacos instead"},
	})
	e, err := New(idx, nil, &scriptedPicker{picks: []int{1}}, nil)
	require.NoError(t, err)

	s, err := e.Next(e.Start(), "d")
	require.NoError(t, err)
	require.Equal(t, CustomSearch, s.Kind)
	require.Len(t, e.Screen(s).Options, 1)

	next, err := e.Next(s, " , ")
	assert.ErrorIs(t, err, ErrInvalidChoice)
	assert.Equal(t, s, next)

	s, err = e.Next(s, "PIZZA, taco")
	require.NoError(t, err)
	assert.Equal(t, ObscuredMessage, s.Kind)
	assert.Equal(t, CustomFilterName, s.Filter)
	require.Len(t, s.Subset, 2)
	assert.Equal(t, "tacos instead", s.Target.Text)

	s, err = e.Next(e.Start(), "D")
	require.NoError(t, err)
	s, err = e.Next(s, "sushi")
	require.NoError(t, err)
	assert.Equal(t, EmptyFilterResult, s.Kind)
}

func TestSeededPickerIsDeterministic(t *testing.T) {
	run := func() []int {
		e, err := New(fixtureIndex(50), nil, rand.New(rand.NewSource(7)), nil)
		require.NoError(t, err)

		s, err := e.Next(e.Start(), "A")
		require.NoError(t, err)
		var picks []int
		for i := 0; i < 10; i++ {
			picks = append(picks, s.Target.Position)
			s, err = e.Next(s, "")
			require.NoError(t, err)
			s, err = e.Next(s, "")
			require.NoError(t, err)
		}
		return picks
	}
	assert.Equal(t, run(), run())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "choose_theme", ChooseTheme.String())
	assert.Equal(t, "revealed_message", RevealedMessage.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

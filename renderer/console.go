package renderer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sat8bit/guesswho/config"
	"github.com/sat8bit/guesswho/engine"
)

const clearScreen = "\033[H\033[2J"

// ConsoleRenderer draws screens on a terminal and reads answers line by line.
type ConsoleRenderer struct {
	in     *bufio.Reader
	out    io.Writer
	clear  bool
	styles map[engine.Emphasis]lipgloss.Style
	option lipgloss.Style
}

// NewConsoleRenderer renders to out and reads from in. With clear set,
// every screen starts on an empty terminal.
func NewConsoleRenderer(in io.Reader, out io.Writer, colors config.Colors, clear bool) *ConsoleRenderer {
	r := lipgloss.NewRenderer(out)
	return &ConsoleRenderer{
		in:    bufio.NewReader(in),
		out:   out,
		clear: clear,
		styles: map[engine.Emphasis]lipgloss.Style{
			engine.Standard:  r.NewStyle().Foreground(lipgloss.Color(colors.Standard)),
			engine.Primary:   r.NewStyle().Foreground(lipgloss.Color(colors.Primary)).Bold(true),
			engine.Secondary: r.NewStyle().Foreground(lipgloss.Color(colors.Secondary)),
		},
		option: r.NewStyle(),
	}
}

// Loading is shown while the exports are parsed.
func (c *ConsoleRenderer) Loading() error {
	c.clearScreen()
	_, err := fmt.Fprintln(c.out, "Loading!")
	return err
}

func (c *ConsoleRenderer) Render(s engine.Screen) error {
	c.clearScreen()

	var sb strings.Builder
	for _, l := range s.Lines {
		style, ok := c.styles[l.Emphasis]
		if !ok {
			style = c.styles[engine.Standard]
		}
		if l.Text == "" {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(style.Render(l.Text))
		sb.WriteString("\n")
	}

	if !s.Terminal() {
		sb.WriteString("\n")
		for _, o := range s.Options {
			sb.WriteString(c.option.Render(o.Label))
			sb.WriteString("\n")
		}
	}

	_, err := io.WriteString(c.out, sb.String())
	return err
}

// Input returns the next line without its line ending. A final line that is
// not terminated by a newline is still returned; io.EOF comes after it.
// Once ctx is done the pending read is abandoned, so the renderer must not
// be read from again.
func (c *ConsoleRenderer) Input(ctx context.Context) (string, error) {
	if _, err := fmt.Fprint(c.out, "\n>>> "); err != nil {
		return "", err
	}

	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := c.in.ReadString('\n')
		ch <- result{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.err != nil && !(errors.Is(r.err, io.EOF) && r.line != "") {
			return "", r.err
		}
		return strings.TrimRight(r.line, "\r\n"), nil
	}
}

func (c *ConsoleRenderer) Reject(input string) error {
	_, err := fmt.Fprintf(c.out, "%s is not a valid choice. Please try again: \n", strings.TrimSpace(input))
	return err
}

func (c *ConsoleRenderer) clearScreen() {
	if c.clear {
		_, _ = io.WriteString(c.out, clearScreen)
	}
}

var _ ScreenRenderer = (*ConsoleRenderer)(nil)

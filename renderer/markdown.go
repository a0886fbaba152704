package renderer

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/sat8bit/guesswho/bus"
	"github.com/sat8bit/guesswho/message"
)

const markdownTemplate = `+++
title = {{ .Title }}
date = {{ .Date }}
tags = {{ .Tags }}
runId = {{ .RunID }}
+++

{{ .Body }}`

const transcriptTimestamp = "2006-01-02 15:04:05"

// MarkdownRenderer writes the rounds of a game as a Hugo-style markdown
// transcript once the bus closes.
type MarkdownRenderer struct {
	outputDir string
	runID     string
	startedAt time.Time
	filePath  string

	mu     sync.Mutex
	events []*bus.Event
}

func NewMarkdownRenderer(outputDir, runID string, startedAt time.Time) *MarkdownRenderer {
	slug := startedAt.Format("20060102-150405")
	return &MarkdownRenderer{
		outputDir: outputDir,
		runID:     runID,
		startedAt: startedAt,
		filePath:  filepath.Join(outputDir, "guesswho-"+slug+".md"),
	}
}

// FilePath is where the transcript is written.
func (r *MarkdownRenderer) FilePath() string {
	return r.filePath
}

func (r *MarkdownRenderer) Render(b bus.Bus, wg *sync.WaitGroup) error {
	ch := b.Subscribe()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for e := range ch {
			r.mu.Lock()
			r.events = append(r.events, e)
			r.mu.Unlock()
		}

		if err := r.write(); err != nil {
			slog.Error("failed to write transcript", "error", err)
		}
	}()

	return nil
}

func (r *MarkdownRenderer) write() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var body strings.Builder
	var themes []string
	seen := make(map[string]struct{})
	round := 0

	for _, e := range r.events {
		switch e.Kind {
		case bus.KindThemeChosen:
			if _, ok := seen[e.Filter]; !ok {
				seen[e.Filter] = struct{}{}
				themes = append(themes, fmt.Sprintf(`"%s"`, e.Filter))
			}
			body.WriteString(fmt.Sprintf("> theme: %s\n\n", e.Filter))
		case bus.KindEmpty:
			body.WriteString(fmt.Sprintf("> no messages for theme %s\n\n", e.Filter))
		case bus.KindRevealed:
			round++
			body.WriteString(fmt.Sprintf("## Round %d\n\n", round))
			body.WriteString(fmt.Sprintf("**%s**\n\n", e.Target.Text))
			for _, m := range e.Context {
				body.WriteString(transcriptLine(m, m.Position == e.Target.Position))
			}
			body.WriteString("\n")
		}
	}

	if round == 0 {
		slog.Info("no rounds played, skipping transcript")
		return nil
	}

	tmpl, err := template.New("markdown").Parse(markdownTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse markdown template: %w", err)
	}

	data := struct {
		Title string
		Date  string
		Tags  string
		RunID string
		Body  string
	}{
		Title: fmt.Sprintf(`"guesswho: %d rounds"`, round),
		Date:  fmt.Sprintf(`"%s"`, r.startedAt.Format(time.RFC3339)),
		Tags:  fmt.Sprintf("[%s]", strings.Join(themes, ", ")),
		RunID: fmt.Sprintf(`"%s"`, r.runID),
		Body:  body.String(),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(r.filePath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write markdown file: %w", err)
	}

	slog.Info("transcript written", "path", r.filePath, "rounds", round)
	return nil
}

func transcriptLine(m message.IndexedMessage, target bool) string {
	line := fmt.Sprintf("%s %s: %s", m.At.Format(transcriptTimestamp), m.From, m.Text)
	if target {
		return fmt.Sprintf("- **%s**\n", line)
	}
	return fmt.Sprintf("- %s\n", line)
}

var _ Recorder = (*MarkdownRenderer)(nil)

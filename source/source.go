package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/viant/afs"

	"github.com/sat8bit/guesswho/message"
	"github.com/sat8bit/guesswho/parser"
)

// Format names a supported export format.
type Format string

const (
	FormatLineLog       Format = "lineLog"
	FormatStructuredLog Format = "structuredLog"
)

var (
	ErrUnknownFormat       = errors.New("unknown source format")
	ErrMissingPath         = errors.New("source path is empty")
	ErrMissingParticipants = errors.New("lineLog source needs participant names")
)

// Source describes one export file to load.
type Source struct {
	Format       Format   `yaml:"format"`
	Path         string   `yaml:"path"`
	Participants []string `yaml:"participants,omitempty"`
}

func (s Source) Validate() error {
	if s.Path == "" {
		return ErrMissingPath
	}
	switch s.Format {
	case FormatLineLog:
		for _, p := range s.Participants {
			if p != "" {
				return nil
			}
		}
		return fmt.Errorf("%s: %w", s.Path, ErrMissingParticipants)
	case FormatStructuredLog:
		return nil
	default:
		return fmt.Errorf("%s: %w %q", s.Path, ErrUnknownFormat, s.Format)
	}
}

// Loader reads configured sources and merges them into one index.
type Loader struct {
	fs     afs.Service
	logger *slog.Logger
}

func NewLoader(fs afs.Service, logger *slog.Logger) *Loader {
	if fs == nil {
		fs = afs.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{fs: fs, logger: logger}
}

// Load parses every source in order and builds the index. The first failing
// source aborts the load.
func (l *Loader) Load(ctx context.Context, sources []Source) (message.Index, error) {
	batches := make([][]message.Message, 0, len(sources))
	for _, s := range sources {
		if err := s.Validate(); err != nil {
			return message.Index{}, err
		}

		p, err := l.parserFor(s)
		if err != nil {
			return message.Index{}, err
		}

		msgs, err := parser.ParseFile(ctx, l.fs, s.Path, p)
		if err != nil {
			return message.Index{}, fmt.Errorf("failed to load %s source %s: %w", s.Format, s.Path, err)
		}
		l.logger.Info("source parsed", "format", s.Format, "path", s.Path, "messages", len(msgs))
		batches = append(batches, msgs)
	}

	idx := message.NewIndex(batches...)
	l.logger.Info("message index built", "sources", len(sources), "messages", idx.Len())
	return idx, nil
}

func (l *Loader) parserFor(s Source) (parser.Parser, error) {
	switch s.Format {
	case FormatLineLog:
		return parser.NewLineLogParser(s.Participants...)
	case FormatStructuredLog:
		return parser.NewStructuredLogParser(l.logger), nil
	default:
		return nil, fmt.Errorf("%s: %w %q", s.Path, ErrUnknownFormat, s.Format)
	}
}

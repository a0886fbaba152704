package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sat8bit/guesswho/message"
)

var months = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

// e.g. "Tuesday, February 10, 2015 at 6:03:00 PM UTC"; the timezone label is ignored.
var createdDateRe = regexp.MustCompile(`(\w+)\s(\d{1,2}),\s(\d{4})\sat\s(\d{1,2}):(\d{2}):(\d{2})\s(AM|PM)`)

type structuredExport struct {
	Messages *[]structuredEntry `json:"messages"`
}

type structuredEntry struct {
	Creator *struct {
		Name  *string `json:"name"`
		Email string  `json:"email"`
	} `json:"creator"`
	CreatedDate *string `json:"created_date"`
	Text        *string `json:"text"`
}

// StructuredLogParser parses JSON exports holding a top-level "messages"
// array. Entries without a "text" field (attachments, system events) are
// skipped silently.
type StructuredLogParser struct {
	logger *slog.Logger
}

func NewStructuredLogParser(logger *slog.Logger) *StructuredLogParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &StructuredLogParser{logger: logger}
}

func (p *StructuredLogParser) Parse(source string, data []byte) ([]message.Message, error) {
	var export structuredExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, &FormatError{Source: source, Value: truncate(string(data), 40), Reason: "invalid JSON: " + err.Error()}
	}
	if export.Messages == nil {
		return nil, &FormatError{Source: source, Value: "messages", Reason: "missing top-level field"}
	}

	var messages []message.Message
	for i, entry := range *export.Messages {
		if entry.Text == nil {
			continue
		}

		msg, err := p.entryMessage(source, i, entry)
		if err != nil {
			var missing *MissingFieldError
			if errors.As(err, &missing) {
				p.logger.Warn("skipping entry", "source", source, "entry", i, "field", missing.Field)
				continue
			}
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

func (p *StructuredLogParser) entryMessage(source string, i int, entry structuredEntry) (message.Message, error) {
	if entry.Creator == nil || entry.Creator.Name == nil {
		return message.Message{}, &MissingFieldError{Source: source, Entry: i, Field: "creator.name"}
	}
	if entry.CreatedDate == nil {
		return message.Message{}, &MissingFieldError{Source: source, Entry: i, Field: "created_date"}
	}

	at, err := ParseCreatedDate(*entry.CreatedDate)
	if err != nil {
		return message.Message{}, &FormatError{
			Source: source,
			Line:   i + 1,
			Value:  *entry.CreatedDate,
			Reason: err.Error(),
		}
	}

	return message.Message{
		At:     at,
		From:   *entry.Creator.Name,
		Text:   *entry.Text,
		Source: source,
	}, nil
}

// ParseCreatedDate parses the free-text timestamp of a structuredLog entry.
// No timezone conversion is done; the result is naive.
func ParseCreatedDate(value string) (time.Time, error) {
	m := createdDateRe.FindStringSubmatch(value)
	if m == nil {
		return time.Time{}, errors.New("does not match expected input")
	}

	month, ok := months[strings.ToLower(m[1])]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown month %q", m[1])
	}
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	second, _ := strconv.Atoi(m[6])

	h24, err := to24Hour(hour, m[7])
	if err != nil {
		return time.Time{}, err
	}
	if minute > 59 || second > 59 {
		return time.Time{}, fmt.Errorf("time %s:%s:%s out of range", m[4], m[5], m[6])
	}
	return naiveDate(year, month, day, h24, minute, second)
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + ".."
}

var _ Parser = (*StructuredLogParser)(nil)

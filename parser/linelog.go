package parser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sat8bit/guesswho/message"
)

// LineLogParser parses line-oriented exports such as
//
//	12/14/19, 1:28 AM - Lou: see you there
//
// Only lines sent by a known participant become messages. Continuation lines
// of multi-line messages are not reattached and are dropped with everything
// else that does not match.
type LineLogParser struct {
	participants []string
	lineRe       *regexp.Regexp
}

// NewLineLogParser builds a parser accepting the given participant names,
// which must match the export exactly.
func NewLineLogParser(participants ...string) (*LineLogParser, error) {
	var names []string
	for _, p := range participants {
		if p == "" {
			continue
		}
		names = append(names, p)
	}
	if len(names) == 0 {
		return nil, errors.New("lineLog parser needs at least one participant name")
	}

	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = regexp.QuoteMeta(n)
	}
	// longest first so a name never loses to its own prefix
	sort.SliceStable(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })

	// newer exports put U+202F between the time and AM/PM
	pattern := `^(\d{1,2})/(\d{1,2})/(\d{2}), (\d{1,2}):(\d{1,2})[ \x{202F}](AM|PM) - (` +
		strings.Join(quoted, "|") + `): (.*)$`

	return &LineLogParser{
		participants: names,
		lineRe:       regexp.MustCompile(pattern),
	}, nil
}

// Participants returns the accepted sender names.
func (p *LineLogParser) Participants() []string {
	return append([]string(nil), p.participants...)
}

func (p *LineLogParser) Parse(source string, data []byte) ([]message.Message, error) {
	var messages []message.Message

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		m := p.lineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		at, err := lineLogTime(m[1], m[2], m[3], m[4], m[5], m[6])
		if err != nil {
			return nil, &FormatError{
				Source: source,
				Line:   lineNo,
				Value:  fmt.Sprintf("%s/%s/%s, %s:%s %s", m[1], m[2], m[3], m[4], m[5], m[6]),
				Reason: err.Error(),
			}
		}

		messages = append(messages, message.Message{
			At:     at,
			From:   m[7],
			Text:   m[8],
			Source: source,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", source, err)
	}

	return messages, nil
}

func lineLogTime(month, day, year, hour, minute, meridiem string) (time.Time, error) {
	mo, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	yy, _ := strconv.Atoi(year)
	h, _ := strconv.Atoi(hour)
	mi, _ := strconv.Atoi(minute)

	if mo < 1 || mo > 12 {
		return time.Time{}, fmt.Errorf("month %d out of range", mo)
	}
	h24, err := to24Hour(h, meridiem)
	if err != nil {
		return time.Time{}, err
	}
	if mi > 59 {
		return time.Time{}, fmt.Errorf("minute %d out of range", mi)
	}
	return naiveDate(2000+yy, time.Month(mo), d, h24, mi, 0)
}

// to24Hour converts a 12-hour clock value.
func to24Hour(h int, meridiem string) (int, error) {
	if h < 1 || h > 12 {
		return 0, fmt.Errorf("hour %d out of range", h)
	}
	h %= 12
	if strings.EqualFold(meridiem, "PM") {
		h += 12
	}
	return h, nil
}

// naiveDate builds a timestamp without timezone conversion and rejects
// days that time.Date would silently roll over, such as February 30.
func naiveDate(year int, month time.Month, day, hour, minute, second int) (time.Time, error) {
	t := time.Date(year, month, day, hour, minute, second, 0, time.UTC)
	if day < 1 || t.Month() != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("day %d out of range for %s %d", day, month, year)
	}
	return t, nil
}

var _ Parser = (*LineLogParser)(nil)

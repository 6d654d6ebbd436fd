// Package dateutil resolves the dates printed in problem headers. Formats use
// readable tokens (YYYY, MMMM, DD...) instead of Go reference layouts.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// ErrInvalidDate indicates a date value that could not be parsed.
var ErrInvalidDate = errors.New("invalid date")

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// DefaultDateFormat is used when "auto" is specified without a format.
const DefaultDateFormat = "YYYY-MM-DD"

// autoPrefix selects the current date.
const autoPrefix = "auto"

// dateTokens maps format tokens to Go layout components, longest first.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"dddd", "Monday"},
	{"ddd", "Mon"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"weekday":  "dddd, MMMM D",
}

// inputLayouts are accepted for dates written in notebook metadata.
var inputLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

// ParseDateFormat converts a token format (or preset name) to a Go layout.
// Text inside brackets is kept literally: "[Due] MMM D" keeps "Due".
// Characters that are not tokens are kept as they are.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}
	if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}

	var b strings.Builder
	b.Grow(len(format) + 10)

	for rest := format; rest != ""; {
		if rest[0] == '[' {
			literal, after, ok := strings.Cut(rest[1:], "]")
			if !ok {
				pos := len(format) - len(rest)
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, pos)
			}
			b.WriteString(literal)
			rest = after
			continue
		}
		n := 1
		lit := rest[:1]
		for _, t := range dateTokens {
			if strings.HasPrefix(rest, t.token) {
				n, lit = len(t.token), t.goFmt
				break
			}
		}
		b.WriteString(lit)
		rest = rest[n:]
	}

	return b.String(), nil
}

// ResolveDate handles "auto" and "auto:FORMAT" values.
//   - "auto" gives now in DefaultDateFormat
//   - "auto:FORMAT" gives now in FORMAT, which may be a preset name
//   - anything else is returned unchanged
func ResolveDate(value string, now time.Time) (string, error) {
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, autoPrefix) {
		return value, nil
	}
	if lower == autoPrefix {
		return Format(now, DefaultDateFormat)
	}

	format, ok := strings.CutPrefix(value[len(autoPrefix):], ":")
	if !ok {
		return "", fmt.Errorf("%w: invalid auto syntax %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
	}
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
	}
	return Format(now, format)
}

// Format renders t with a token format or preset name.
func Format(t time.Time, format string) (string, error) {
	layout, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}

// Reformat parses a date written in notebook metadata and renders it with
// format. The format accepts the same "auto:" prefix as ResolveDate, which
// is ignored here since the date is given.
func Reformat(value, format string) (string, error) {
	value = strings.TrimSpace(value)
	var (
		t   time.Time
		err error
	)
	for _, layout := range inputLayouts {
		if t, err = time.Parse(layout, value); err == nil {
			break
		}
	}
	if err != nil {
		return "", fmt.Errorf("%w: %q (use YYYY-MM-DD)", ErrInvalidDate, value)
	}

	lower := strings.ToLower(format)
	switch {
	case lower == autoPrefix || format == "":
		format = DefaultDateFormat
	case strings.HasPrefix(lower, autoPrefix+":"):
		format = format[len(autoPrefix)+1:]
	}
	return Format(t, format)
}

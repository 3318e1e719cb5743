// Package dateutil resolves the "auto" publication date shorthand.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an unusable "auto:FORMAT" value.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxFormatLength bounds the FORMAT part of "auto:FORMAT".
const MaxFormatLength = 40

// Presets are named layouts accepted after "auto:".
// Layouts stay inside the metadata-safe charset (no slashes).
var Presets = map[string]string{
	"iso":   "2006-01-02",
	"year":  "2006",
	"month": "January 2006",
	"long":  "January 2, 2006",
}

// tokens maps FORMAT tokens to Go layout fragments, longest first.
var tokens = []struct{ token, layout string }{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MM", "01"},
	{"DD", "02"},
	{"D", "2"},
}

// ResolveDate expands date shorthands against now:
//   - "auto"          -> YYYY-MM-DD
//   - "auto:<preset>" -> one of Presets
//   - "auto:<FORMAT>" -> FORMAT built from YYYY, MMMM, MM, DD, D
//
// Any other value is returned unchanged.
func ResolveDate(value string, now time.Time) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(value))
	if lower == "auto" {
		return now.Format(Presets["iso"]), nil
	}
	if !strings.HasPrefix(lower, "auto:") {
		return value, nil
	}

	format := strings.TrimSpace(value)[len("auto:"):]
	if layout, ok := Presets[strings.ToLower(format)]; ok {
		return now.Format(layout), nil
	}
	layout, err := toLayout(format)
	if err != nil {
		return "", err
	}
	return now.Format(layout), nil
}

func toLayout(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: empty format after \"auto:\"", ErrInvalidDateFormat)
	}
	if len(format) > MaxFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxFormatLength)
	}

	var b strings.Builder
	for i := 0; i < len(format); {
		matched := false
		for _, t := range tokens {
			if strings.HasPrefix(format[i:], t.token) {
				b.WriteString(t.layout)
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(format[i])
			i++
		}
	}
	return b.String(), nil
}

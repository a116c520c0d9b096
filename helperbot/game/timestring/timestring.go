// Package timestring converts the game's free-text countdown expressions
// ("1d 23h 59m 58s", "2 horas 5 minutos") into durations and back.
package timestring

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedDuration is returned when non-empty text contains no
// recognizable unit token at all.
var ErrMalformedDuration = errors.New("timestring: no recognizable duration unit")

var tokenPattern = regexp.MustCompile(`(\d+)\s*([a-zá-ú]+)`)

// unitSeconds maps lowercase unit labels for English, Spanish and
// Portuguese to their length. The game itself renders short units in every
// locale, but pasted and edited messages occasionally carry the long forms.
var unitSeconds = map[string]int64{
	"d": 86400, "day": 86400, "days": 86400,
	"día": 86400, "días": 86400, "dia": 86400, "dias": 86400,

	"h": 3600, "hour": 3600, "hours": 3600,
	"hora": 3600, "horas": 3600,

	"m": 60, "min": 60, "mins": 60, "minute": 60, "minutes": 60,
	"minuto": 60, "minutos": 60,

	"s": 1, "sec": 1, "secs": 1, "second": 1, "seconds": 1,
	"segundo": 1, "segundos": 1,
}

// Parse converts a countdown expression into a duration. Empty or
// whitespace-only text parses to zero. Text that contains no known unit
// token fails with ErrMalformedDuration.
func Parse(text string) (time.Duration, error) {
	text = strings.TrimSpace(strings.ToLower(text))
	if text == "" {
		return 0, nil
	}

	var total int64
	matched := false
	for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
		secs, ok := unitSeconds[m[2]]
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		total += n * secs
		matched = true
	}
	if !matched {
		return 0, fmt.Errorf("%w in %q", ErrMalformedDuration, text)
	}
	return time.Duration(total) * time.Second, nil
}

// TimeLeft computes the remaining duration implied by a countdown that was
// rendered at messageTime. The elapsed time since the message is
// subtracted; results in the past clamp to zero so the computed expiry can
// never precede the reference time.
func TimeLeft(text string, messageTime time.Time) (time.Duration, error) {
	return TimeLeftAt(text, messageTime, time.Now())
}

// TimeLeftAt is TimeLeft with an explicit clock.
func TimeLeftAt(text string, messageTime time.Time, now time.Time) (time.Duration, error) {
	d, err := Parse(text)
	if err != nil {
		return 0, err
	}
	left := d - now.Sub(messageTime)
	if left < 0 {
		left = 0
	}
	return left, nil
}

// Format renders a duration in the canonical short form the game uses.
// Zero-valued leading units are elided; a zero duration renders as "0s".
// Format(Parse(x)) is equivalent to x for any canonical input.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || len(parts) > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || len(parts) > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))
	return strings.Join(parts, " ")
}

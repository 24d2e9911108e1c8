package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinutesPerDay = 24 * 60
	Midnight      = "00:00"
)

// Minutes converts an "HH:MM" wall-clock string to minutes since midnight.
// "00:00" is end of day (1440). Anything unparsable resolves to 0.
func Minutes(clock string) int {
	if clock == Midnight {
		return MinutesPerDay
	}
	m, ok := parse(clock)
	if !ok {
		return 0
	}
	return m
}

// Valid reports whether clock is a well-formed 24h "HH:MM" string.
func Valid(clock string) bool {
	_, ok := parse(clock)
	return ok
}

func parse(clock string) (int, bool) {
	h, m, found := strings.Cut(clock, ":")
	if !found || len(h) != 2 || len(m) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	minutes, err := strconv.Atoi(m)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

// Duration is the length of a start/end slot in minutes.
func Duration(start, end string) int {
	return Minutes(end) - Minutes(start)
}

// NowMinutes is the wall-clock minute of t in its own location.
func NowMinutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Clock formats a minute offset back into "HH:MM"; 1440 becomes "00:00".
func Clock(minutes int) string {
	minutes %= MinutesPerDay
	if minutes < 0 {
		minutes += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatMinutes renders a duration like "1 hour 30 minutes".
func FormatMinutes(total int) string {
	if total <= 0 {
		return "0 minutes"
	}
	hours := total / 60
	minutes := total % 60

	var parts []string
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, plural(minutes, "minute"))
	}
	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

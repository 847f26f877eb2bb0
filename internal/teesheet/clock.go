package teesheet

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MidnightFallback is stored for labels that cannot be parsed.
// Existing tee times depend on this value, so it is kept rather than
// replaced with an "unparsed" marker.
const MidnightFallback = "00:00:00"

var clockPattern = regexp.MustCompile(`^\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm)`)

// ParseTime converts a label such as "7:30 am" or "12 pm" to HH:MM:SS.
// Unparseable labels yield MidnightFallback.
func ParseTime(label string) string {
	clock, _ := ParseClock(label)
	return clock
}

// ParseClock is ParseTime that also reports whether the label parsed
func ParseClock(label string) (string, bool) {
	matches := clockPattern.FindStringSubmatch(strings.ToLower(label))
	if matches == nil {
		return MidnightFallback, false
	}

	hours, err := strconv.Atoi(matches[1])
	if err != nil || hours < 1 || hours > 12 {
		return MidnightFallback, false
	}

	minutes := 0
	if matches[2] != "" {
		minutes, err = strconv.Atoi(matches[2])
		if err != nil || minutes > 59 {
			return MidnightFallback, false
		}
	}

	switch {
	case matches[3] == "pm" && hours != 12:
		hours += 12
	case matches[3] == "am" && hours == 12:
		hours = 0
	}

	return fmt.Sprintf("%02d:%02d:00", hours, minutes), true
}

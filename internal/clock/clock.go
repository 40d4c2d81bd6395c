package clock

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrFormat reports a timestamp that does not match HH:MM:SS.ffffff.
var ErrFormat = errors.New("invalid clock format")

// Fields may carry one or two digits, matching strptime's %H/%M/%S.
var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{1,2}):(\d{1,2})\.(\d{1,6})$`)

// Parse converts an HH:MM:SS.ffffff timestamp to milliseconds. Digits below
// millisecond precision are dropped, not rounded.
func Parse(text string) (int64, error) {
	match := clockPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, fmt.Errorf("%w: %q does not match HH:MM:SS.ffffff", ErrFormat, text)
	}
	hours, _ := strconv.ParseInt(match[1], 10, 64)
	minutes, _ := strconv.ParseInt(match[2], 10, 64)
	seconds, _ := strconv.ParseInt(match[3], 10, 64)
	if hours > 23 || minutes > 59 || seconds > 59 {
		return 0, fmt.Errorf("%w: %q is out of range", ErrFormat, text)
	}
	micros, _ := strconv.ParseInt(match[4]+strings.Repeat("0", 6-len(match[4])), 10, 64)
	return (hours*3600+minutes*60+seconds)*1000 + micros/1000, nil
}

// Format renders milliseconds as HH:MM:SS.mmm. Hours are not wrapped.
func Format(ms int64) string {
	if ms < 0 {
		return "-" + Format(-ms)
	}
	seconds, millis := ms/1000, ms%1000
	minutes, seconds := seconds/60, seconds%60
	hours, minutes := minutes/60, minutes%60
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}

// FormatDisplay renders milliseconds as MM:SS, rounding the second up when the
// millisecond remainder exceeds 499. Minutes are not wrapped into hours.
func FormatDisplay(ms int64) string {
	if ms < 0 {
		return "-" + FormatDisplay(-ms)
	}
	seconds, millis := ms/1000, ms%1000
	if millis > 499 {
		seconds++
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

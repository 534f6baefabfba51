package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parse converts a timestamp such as "00:01:02,500" to seconds. At least
// three numeric components (hours, minutes, seconds) are required; a fourth
// component is read as milliseconds. Malformed input yields 0.
func Parse(text string) float64 {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return (r < '0' || r > '9') && r != '-'
	})
	if len(parts) < 3 {
		return 0
	}
	values := make([]int, 0, 4)
	for _, part := range parts[:min(len(parts), 4)] {
		value, err := strconv.Atoi(part)
		if err != nil {
			return 0
		}
		values = append(values, value)
	}
	seconds := float64(3600*values[0] + 60*values[1] + values[2])
	if len(values) == 4 {
		seconds += float64(values[3]) / 1000
	}
	return seconds
}

// Format renders seconds as a zero-padded HH:MM:SS,mmm string. Negative
// values are clamped to zero.
func Format(seconds float64) string {
	millis := totalMillis(seconds)
	h := millis / 3_600_000
	m := (millis / 60_000) % 60
	s := (millis / 1000) % 60
	ms := millis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// FormatHMS renders seconds as HH:MM:SS, dropping milliseconds.
func FormatHMS(seconds float64) string {
	return strings.SplitN(Format(seconds), ",", 2)[0]
}

// ApplyOffset shifts a textual timestamp by offset seconds. A zero offset
// returns the text untouched.
func ApplyOffset(text string, offset float64) string {
	if offset == 0 {
		return text
	}
	return Format(Parse(text) + offset)
}

func totalMillis(seconds float64) int64 {
	if seconds <= 0 || math.IsNaN(seconds) {
		return 0
	}
	return int64(math.Round(seconds * 1000))
}

package exercise

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrTimecode is returned for a checkpoint time that cannot be parsed.
var ErrTimecode = errors.New("invalid timecode")

// ParseTimecode converts "hh:mm:ss,mmm", "mm:ss,mmm", "mm:ss" or plain
// seconds into seconds. A comma or a dot may separate the milliseconds.
func ParseTimecode(s string) (float64, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if clean == "" {
		return 0, fmt.Errorf("%w: empty", ErrTimecode)
	}
	parts := strings.Split(clean, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrTimecode, s)
	}

	var total float64
	for _, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("%w: %q", ErrTimecode, s)
		}
		total = total*60 + f
	}
	return total, nil
}

// FormatTimecode renders seconds as "mm:ss,mmm". Minutes are not wrapped
// into hours.
func FormatTimecode(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMs := int64(math.Round(seconds * 1000))
	minutes := totalMs / 60000
	secs := (totalMs / 1000) % 60
	ms := totalMs % 1000
	return fmt.Sprintf("%02d:%02d,%03d", minutes, secs, ms)
}

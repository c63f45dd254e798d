package service

import (
	"fmt"
	"strconv"
	"strings"
)

// ToMinutes parses a wall-clock "HH:MM" string into minutes since
// midnight. Malformed input is an error rather than a silent zero: a
// defaulted time could mask a real overlap.
func ToMinutes(clock string) (int, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", clock)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", clock)
	}
	return hours*60 + minutes, nil
}

// FormatMinutes renders minutes since midnight back into "HH:MM".
func FormatMinutes(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Overlaps tests two half-open minute intervals. Sessions that merely
// touch at a boundary (aEnd == bStart) do not overlap, so back-to-back
// sessions never conflict.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

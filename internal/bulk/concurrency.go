package bulk

import (
	"strconv"
	"strings"
)

// ClampConcurrency bounds n to [MinConcurrent, MaxConcurrent]
func ClampConcurrency(n int) int {
	if n < MinConcurrent {
		return MinConcurrent
	}
	if n > MaxConcurrent {
		return MaxConcurrent
	}
	return n
}

// ParseConcurrency reads a user supplied bound. Empty or non-numeric input
// yields def; numbers are clamped.
func ParseConcurrency(input string, def int) int {
	input = strings.TrimSpace(input)
	if input == "" {
		return ClampConcurrency(def)
	}
	n, err := strconv.Atoi(input)
	if err != nil {
		return ClampConcurrency(def)
	}
	return ClampConcurrency(n)
}

// ParseYesNo treats anything but "n" (case-insensitive) as yes
func ParseYesNo(input string) bool {
	return strings.ToLower(strings.TrimSpace(input)) != "n"
}

package util

import (
	"strconv"
	"strings"
)

// NormalizeTicker uppercases and trims a ticker symbol. Persistence and
// lookups key on the normalized form.
func NormalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

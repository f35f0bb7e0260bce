// Package helpers provides small formatting and math utilities shared
// across the alerting engines.
package helpers

import (
	"strings"
	"unicode"
)

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampF bounds v to [lo, hi].
func ClampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TitleCase upper-cases the first letter of each word. Alert titles embed
// keywords typed in lower case by users.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := true
	for _, r := range s {
		if prevSpace {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(r)
		}
		prevSpace = unicode.IsSpace(r)
	}
	return b.String()
}

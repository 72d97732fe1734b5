package strength

import (
	"strings"
	"unicode/utf8"
)

// Level is a password strength classification.
type Level string

// The four strength bands, weakest first.
const (
	Weak   Level = "weak"
	Medium Level = "medium"
	Strong Level = "strong"
	Ultra  Level = "ultra"
)

// Levels lists all bands in ascending order of strength. Useful for
// iterating distribution maps in a stable order.
var Levels = []Level{Weak, Medium, Strong, Ultra}

// Symbols is the fixed symbol set recognised by the rubric. It matches
// the set the generator draws from, so generated passwords containing a
// symbol always score the symbol point.
const Symbols = "!@#$%^&*()_+-=[]{}|;:,.<>?"

// Point thresholds for the length conditions.
const (
	lengthBonusAt     = 8
	longLengthBonusAt = 12
)

// Score classifies password using the six-condition additive rubric.
// Length is counted in characters, not bytes, so multi-byte input is
// not over-credited.
func Score(password string) Level {
	points := 0

	length := utf8.RuneCountInString(password)
	if length >= lengthBonusAt {
		points++
	}
	if strings.ContainsFunc(password, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		points++
	}
	if strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		points++
	}
	if strings.ContainsFunc(password, func(r rune) bool { return r >= '0' && r <= '9' }) {
		points++
	}
	if strings.ContainsAny(password, Symbols) {
		points++
	}
	if length >= longLengthBonusAt {
		points++
	}

	return levelFromPoints(points)
}

// levelFromPoints maps a rubric point total to its band.
func levelFromPoints(points int) Level {
	switch {
	case points <= 2:
		return Weak
	case points == 3:
		return Medium
	case points == 4:
		return Strong
	default:
		return Ultra
	}
}

// Valid reports whether l is one of the four defined bands.
func Valid(l Level) bool {
	switch l {
	case Weak, Medium, Strong, Ultra:
		return true
	}
	return false
}

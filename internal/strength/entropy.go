package strength

import "math"

// Character class sizes used for the entropy estimate. Anything outside
// the three ASCII letter/digit ranges is counted as the symbol class.
const (
	digitClassSize  = 10
	letterClassSize = 26
	symbolClassSize = 33
)

// Entropy estimates the password's entropy in bits as
// length * log2(poolSize), where poolSize is the sum of the sizes of the
// character classes actually present in the password. An empty password
// has zero entropy.
func Entropy(password string) float64 {
	pool := observedPoolSize(password)
	if pool == 0 {
		return 0
	}
	return float64(len([]rune(password))) * math.Log2(float64(pool))
}

// observedPoolSize infers the size of the smallest conventional charset
// pool the password could have been drawn from.
func observedPoolSize(password string) int {
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}

	size := 0
	if lower {
		size += letterClassSize
	}
	if upper {
		size += letterClassSize
	}
	if digit {
		size += digitClassSize
	}
	if symbol {
		size += symbolClassSize
	}
	return size
}

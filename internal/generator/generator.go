package generator

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/passmint/passmint/internal/strength"
)

// Character categories the pool is assembled from. The symbol set is
// shared with the strength rubric so generated symbols always score.
const (
	lowercase = "abcdefghijklmnopqrstuvwxyz"
	uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits    = "0123456789"
	symbols   = strength.Symbols
)

// ErrInvalidLength is returned when the requested length is below the
// structural minimum of 1.
var ErrInvalidLength = errors.New("generator: length must be at least 1")

// Options selects the pool categories and output length for one
// generation call. Lowercase letters are always in the pool.
type Options struct {
	Length    int
	Uppercase bool
	Digits    bool
	Symbols   bool
}

// Record is one generated password together with its classification.
// Records are immutable once produced and owned by the caller; the
// transports define their own wire shapes for it.
type Record struct {
	Value     string
	Strength  strength.Level
	Length    int
	CreatedAt time.Time
}

// Generate draws a password of opts.Length characters uniformly from the
// assembled pool and scores it. A length below 1 yields ErrInvalidLength;
// any other error comes from the random source and is fatal for this
// call only; Generate has no side effects, so callers may retry.
func Generate(opts Options) (Record, error) {
	if opts.Length < 1 {
		return Record{}, ErrInvalidLength
	}

	pool := buildPool(opts)

	var sb strings.Builder
	sb.Grow(opts.Length)
	for i := 0; i < opts.Length; i++ {
		idx, err := randInt(len(pool))
		if err != nil {
			return Record{}, fmt.Errorf("generator: random source: %w", err)
		}
		sb.WriteByte(pool[idx])
	}

	value := sb.String()
	return Record{
		Value:     value,
		Strength:  strength.Score(value),
		Length:    opts.Length,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// buildPool assembles the charset pool for opts. Lowercase is
// unconditional, which keeps the pool non-empty by construction.
func buildPool(opts Options) string {
	pool := lowercase
	if opts.Uppercase {
		pool += uppercase
	}
	if opts.Digits {
		pool += digits
	}
	if opts.Symbols {
		pool += symbols
	}
	return pool
}

// randInt returns a uniform random int in [0, max) from crypto/rand.
func randInt(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}

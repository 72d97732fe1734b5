package alerts

import (
	"strconv"
	"strings"

	"github.com/passmint/passmint/internal/store"
	"github.com/passmint/passmint/internal/strength"
)

// evalCondition evaluates a rule condition string against a Snapshot.
//
// Supported expressions (field operator value):
//
//	total_generated > 100000
//	weak_count > 500
//	weak_pct > 50
//	medium_pct < 20
//	strong_pct < 20
//	ultra_pct < 10
//
// Returns (fires bool, triggering value float64).
// Returns (false, 0) if the expression cannot be parsed, the field is
// unknown, or a percentage field is evaluated before anything was
// generated.
func evalCondition(cond string, snap store.Snapshot) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return false, 0
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	threshold, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return false, 0
	}

	v, ok := numericField(field, snap)
	if !ok {
		return false, 0
	}
	return compareFloat(v, op, threshold), v
}

// numericField maps a field name to its value in the snapshot.
func numericField(field string, snap store.Snapshot) (float64, bool) {
	if field == "total_generated" {
		return float64(snap.TotalGenerated), true
	}

	level, kind, found := strings.Cut(field, "_")
	if !found || !strength.Valid(strength.Level(level)) {
		return 0, false
	}
	count := float64(snap.StrengthDistribution[strength.Level(level)])

	switch kind {
	case "count":
		return count, true
	case "pct":
		if snap.TotalGenerated == 0 {
			return 0, false
		}
		return count / float64(snap.TotalGenerated) * 100, true
	default:
		return 0, false
	}
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	default:
		return false
	}
}

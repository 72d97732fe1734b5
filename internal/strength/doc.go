// Package strength implements the password strength rubric.
//
// Score maps a password to one of four Levels using six additive
// conditions: length >= 8, contains a lowercase letter, contains an
// uppercase letter, contains a digit, contains a symbol from the fixed
// symbol set, length >= 12. Each condition is worth one point.
//
// Banding:
//
//	0–2 points → weak
//	3 points   → medium
//	4 points   → strong
//	5–6 points → ultra
//
// Score is a pure function and safe to call from any number of
// goroutines without coordination. Entropy provides a supplementary
// charset-entropy estimate in bits for UI display.
package strength

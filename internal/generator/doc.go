// Package generator builds randomized secrets from a configurable
// character pool.
//
// The pool always contains lowercase letters; uppercase letters, digits
// and the fixed symbol set are appended per the request flags. Each
// output position is drawn independently and uniformly from the pool
// using crypto/rand, so there is no guarantee that every requested
// category actually appears in the output, only that the pool the
// characters were drawn from contained it. Because lowercase cannot be
// disabled, the pool is never empty.
//
// Generate is stateless apart from consuming entropy and is safe for
// concurrent use.
package generator

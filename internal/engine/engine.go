package engine

import (
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/passmint/passmint/internal/alerts"
	"github.com/passmint/passmint/internal/config"
	"github.com/passmint/passmint/internal/generator"
	"github.com/passmint/passmint/internal/metrics"
	"github.com/passmint/passmint/internal/store"
	"github.com/passmint/passmint/internal/strength"
)

// maxAnalyzeLength caps the password accepted by Analyze.
const maxAnalyzeLength = 100

// analyticsCacheKey is the store cache key for the analytics snapshot.
const analyticsCacheKey = "analytics"

// Validation sentinels. Transports map these to client errors; anything
// else coming out of the engine is an internal fault.
var (
	ErrLengthTooSmall  = errors.New("length is below the configured minimum")
	ErrLengthTooLarge  = errors.New("length is above the configured maximum")
	ErrPasswordTooLong = errors.New("password exceeds 100 characters")
)

// IsValidation reports whether err is a client-input validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrLengthTooSmall) ||
		errors.Is(err, ErrLengthTooLarge) ||
		errors.Is(err, ErrPasswordTooLong) ||
		errors.Is(err, generator.ErrInvalidLength)
}

// Request describes one generation call. A zero Length means "use the
// policy default".
type Request struct {
	Length    int
	Uppercase bool
	Digits    bool
	Symbols   bool
}

// AnalyzeResult is the outcome of a standalone strength check.
type AnalyzeResult struct {
	Length   int            `json:"length"`
	Strength strength.Level `json:"strength"`
	Entropy  float64        `json:"entropy_bits"`
}

// Engine is the validated front door to the core components. All methods
// are safe for concurrent use; the only shared state it touches is the
// injected Store and the hot-reloadable policy.
type Engine struct {
	store  *store.Store
	alerts *alerts.Engine

	mu        sync.RWMutex
	policy    config.GenerationConfig
	analytics config.AnalyticsConfig
}

// New creates an Engine around st. alertEngine may be nil when alerting
// is not configured.
func New(st *store.Store, alertEngine *alerts.Engine, cfg config.ServerConfig) *Engine {
	return &Engine{
		store:     st,
		alerts:    alertEngine,
		policy:    cfg.Generation,
		analytics: cfg.Analytics,
	}
}

// UpdatePolicy swaps in the generation and analytics settings from a
// reloaded config. In-flight calls finish under the policy they started
// with.
func (e *Engine) UpdatePolicy(cfg config.ServerConfig) {
	e.mu.Lock()
	e.policy = cfg.Generation
	e.analytics = cfg.Analytics
	e.mu.Unlock()
}

// Policy returns the current generation length policy.
func (e *Engine) Policy() config.GenerationConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.policy
}

// Generate validates req against the length policy, draws a password,
// records the outcome and returns the finished record. The record is
// owned by the caller; the engine keeps only the counters.
func (e *Engine) Generate(req Request) (generator.Record, error) {
	policy := e.Policy()

	length := req.Length
	if length == 0 {
		length = policy.DefaultLength
	}
	if length < policy.MinLength {
		metrics.ValidationErrors.WithLabelValues("generate").Inc()
		return generator.Record{}, fmt.Errorf("length %d: %w (minimum %d)", length, ErrLengthTooSmall, policy.MinLength)
	}
	if length > policy.MaxLength {
		metrics.ValidationErrors.WithLabelValues("generate").Inc()
		return generator.Record{}, fmt.Errorf("length %d: %w (maximum %d)", length, ErrLengthTooLarge, policy.MaxLength)
	}

	rec, err := generator.Generate(generator.Options{
		Length:    length,
		Uppercase: req.Uppercase,
		Digits:    req.Digits,
		Symbols:   req.Symbols,
	})
	if err != nil {
		return generator.Record{}, err
	}

	e.store.Record(rec)
	metrics.GeneratedTotal.WithLabelValues(string(rec.Strength)).Inc()

	if e.alerts != nil {
		e.alerts.Evaluate(e.store.Snapshot())
	}
	return rec, nil
}

// Analyze scores an externally supplied password. Passwords over 100
// characters are rejected; analyzed passwords are never stored or
// counted in the generation analytics. Length is counted in characters,
// not bytes, so multi-byte input is capped and reported consistently
// with the rubric.
func (e *Engine) Analyze(password string) (AnalyzeResult, error) {
	length := utf8.RuneCountInString(password)
	if length > maxAnalyzeLength {
		metrics.ValidationErrors.WithLabelValues("analyze").Inc()
		return AnalyzeResult{}, ErrPasswordTooLong
	}

	metrics.AnalyzedTotal.Inc()
	return AnalyzeResult{
		Length:   length,
		Strength: strength.Score(password),
		Entropy:  strength.Entropy(password),
	}, nil
}

// Analytics returns the current snapshot, served from the TTL cache so
// the counters are copied at most once per configured cache window.
// Stale-but-unexpired reads are acceptable by design.
func (e *Engine) Analytics() store.Snapshot {
	if v, ok := e.store.GetCache(analyticsCacheKey); ok {
		if snap, ok := v.(store.Snapshot); ok {
			return snap
		}
	}

	snap := e.store.Snapshot()
	e.mu.RLock()
	ttl := e.analytics.CacheTTL
	e.mu.RUnlock()
	e.store.PutCache(analyticsCacheKey, snap, ttl)
	return snap
}

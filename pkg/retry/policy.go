package retry

import (
	"log/slog"
	"time"
)

// DefaultBudget is the total time the engine may spend waiting between attempts.
const DefaultBudget = 5 * time.Minute

// Policy defines how aggressively an operation is retried.
// The zero value retries nothing; use one of the presets below.
type Policy struct {
	// Classifier decides which errors are retried. A nil classifier retries nothing.
	Classifier Classifier

	// Budget is the cumulative wait after which the last error is returned.
	// The check happens before each wait, so the final wait may overshoot it.
	Budget time.Duration

	// MinWait is the floor for every individual wait. Zero means DefaultMinWait.
	MinWait time.Duration

	// Logger receives one debug record per failed attempt. Defaults to slog.Default().
	Logger *slog.Logger

	// LogErrors adds the full error text to each failed-attempt record.
	LogErrors bool

	// Sleep replaces time.Sleep. Tests use it to observe waits without blocking.
	Sleep func(time.Duration)
}

// Throttled retries AWS throttling for up to five minutes.
func Throttled() Policy {
	return Policy{
		Classifier: Throttling,
		Budget:     DefaultBudget,
		MinWait:    DefaultMinWait,
	}
}

// KeepTrying retries any error until budget has been spent waiting.
// Permanent failures therefore cost the full budget before surfacing.
func KeepTrying(budget time.Duration) Policy {
	return Policy{
		Classifier: Unconditional,
		Budget:     budget,
		MinWait:    DefaultMinWait,
	}
}

// WithRules retries errors matching any of rules for up to five minutes.
// Malformed rules make every call fail with ErrInvalidRule before the operation runs.
func WithRules(rules ...Rule) Policy {
	return Policy{
		Classifier: RuleSet(rules),
		Budget:     DefaultBudget,
		MinWait:    DefaultMinWait,
	}
}

// WithLogger returns a copy of p that logs to logger.
func (p Policy) WithLogger(logger *slog.Logger) Policy {
	p.Logger = logger
	return p
}

// WithSleep returns a copy of p that waits with sleep.
func (p Policy) WithSleep(sleep func(time.Duration)) Policy {
	p.Sleep = sleep
	return p
}

func (p Policy) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func (p Policy) jitter() *Jitter {
	minWait := p.MinWait
	if minWait <= 0 {
		minWait = DefaultMinWait
	}
	return NewJitter(minWait, p.Sleep)
}

func (p Policy) retryable(err error) bool {
	if p.Classifier == nil {
		return false
	}
	return p.Classifier.Retryable(err)
}

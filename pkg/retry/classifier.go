package retry

import (
	"fmt"
	"strings"
)

// Classifier decides whether a failed attempt may be retried.
type Classifier interface {
	Retryable(err error) bool
}

// ClassifierFunc adapts a plain function to Classifier.
type ClassifierFunc func(err error) bool

func (f ClassifierFunc) Retryable(err error) bool {
	return f(err)
}

// validator is implemented by classifiers that must be checked before the first attempt.
type validator interface {
	Validate() error
}

// Unconditional treats every error as retryable.
var Unconditional = ClassifierFunc(func(error) bool { return true })

// throttlingCodes are matched as substrings of the service error code.
var throttlingCodes = []string{
	"Throttling",
	"RequestLimitExceeded",
	"TooManyRequestsException",
	"ServiceUnavailable",
	"DatabaseResumingException",
}

// Throttling retries AWS throttling responses, read timeouts and waiter failures.
// Any other error is fatal.
var Throttling = ClassifierFunc(isThrottled)

func isThrottled(err error) bool {
	switch KindOf(err) {
	case KindReadTimeout, KindWaiter, KindThrottling:
		return true
	}

	code := CodeOf(err)
	if code == "" {
		return false
	}
	for _, keyword := range throttlingCodes {
		if strings.Contains(code, keyword) {
			return true
		}
	}
	return false
}

// Rule matches errors of Kind. When Messages is non-empty at least one of them must
// appear in the error text.
type Rule struct {
	Kind     ErrorKind
	Messages []string
}

func (r Rule) matches(err error) bool {
	if KindOf(err) != r.Kind {
		return false
	}
	if len(r.Messages) == 0 {
		return true
	}
	text := err.Error()
	for _, m := range r.Messages {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// RuleSet is a declarative classifier: an error is retryable if any rule matches.
type RuleSet []Rule

// Validate rejects rules with an unknown kind or an empty message filter.
func (rs RuleSet) Validate() error {
	for i, r := range rs {
		if !r.Kind.Valid() {
			return fmt.Errorf("%w: rule %d has unknown error kind %q", ErrInvalidRule, i, r.Kind)
		}
		for _, m := range r.Messages {
			if m == "" {
				return fmt.Errorf("%w: rule %d has an empty message filter", ErrInvalidRule, i)
			}
		}
	}
	return nil
}

func (rs RuleSet) Retryable(err error) bool {
	for _, r := range rs {
		if r.matches(err) {
			return true
		}
	}
	return false
}

package retry

import (
	"context"
	"fmt"
	"slices"
	"time"
)

// DefaultWaitTimeout bounds WaitForState when the policy budget is zero.
const DefaultWaitTimeout = 15 * time.Minute

// terminalStates are states from which no resource recovers.
var terminalStates = []string{"failed", "terminated"}

// StateFunc reports the current state of every resource being waited on.
type StateFunc func(ctx context.Context) ([]string, error)

// WaitForState polls describe until every reported state equals expected.
//
// Service errors and errors the policy classifies as retryable are treated as
// transient and polled through. Any resource in a terminal state ends the wait
// immediately with an error matching ErrExpectedTimeout. Once the policy budget has
// been spent waiting the call fails with an error matching ErrTimeout.
func WaitForState(ctx context.Context, p Policy, name string, describe StateFunc, expected string) error {
	timeout := p.Budget
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}

	logger := p.logger().With("operation", name, "expected_state", expected)
	jitter := p.jitter()

	for {
		states, err := describe(ctx)
		switch {
		case err == nil:
			done, failed := evaluateStates(states, expected)
			if done {
				return nil
			}
			if failed {
				return &Error{
					Kind: KindExpectedTimeout,
					Message: fmt.Sprintf("%s: resources entered one of %v after %s waiting for state %s",
						name, terminalStates, jitter.Elapsed(), expected),
				}
			}
			logger.Debug("Resources not yet in expected state", "states", states, "elapsed", jitter.Elapsed())
		case KindOf(err) == KindService || p.retryable(err):
			logger.Debug("Transient error while polling state", "error", err, "elapsed", jitter.Elapsed())
		default:
			return err
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if jitter.Elapsed() >= timeout {
			return &Error{
				Kind:    KindTimeout,
				Message: fmt.Sprintf("%s: timed out waiting for state %s after %s", name, expected, jitter.Elapsed()),
			}
		}

		jitter.Backoff()
	}
}

func evaluateStates(states []string, expected string) (done, failed bool) {
	done = true
	for _, state := range states {
		if state == expected {
			continue
		}
		if slices.Contains(terminalStates, state) {
			return false, true
		}
		done = false
	}
	return done, false
}

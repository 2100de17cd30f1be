package retry

import (
	"bytes"
	"log/slog"
	"time"
)

// recordingSleep captures waits instead of blocking.
type recordingSleep struct {
	waits []time.Duration
}

func (r *recordingSleep) sleep(d time.Duration) {
	r.waits = append(r.waits, d)
}

func (r *recordingSleep) total() time.Duration {
	var sum time.Duration
	for _, w := range r.waits {
		sum += w
	}
	return sum
}

func testPolicy(p Policy) (Policy, *recordingSleep) {
	rec := &recordingSleep{}
	return p.WithSleep(rec.sleep).WithLogger(discardLogger()), rec
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

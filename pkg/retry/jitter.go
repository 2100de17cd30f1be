package retry

import (
	"math/rand/v2"
	"time"
)

const (
	// MaxPollInterval caps any single wait produced by Jitter.
	MaxPollInterval = 60 * time.Second

	// DefaultMinWait is the floor applied to every wait unless a policy overrides it.
	DefaultMinWait = 3 * time.Second
)

// Jitter produces waits following "decorrelated jitter" backoff
// (https://www.awsarchitectureblog.com/2015/03/backoff.html) with one change:
// the random value is drawn from [0, min(MaxPollInterval, previous*3)] instead of
// drawing first and capping afterwards, so waits stay spread out once the cap
// is reached instead of pinning to it.
//
// A Jitter belongs to a single retry sequence and is not safe for concurrent use.
type Jitter struct {
	minWait  time.Duration
	previous time.Duration
	elapsed  time.Duration

	sleep func(time.Duration)
	draw  func(n int64) int64
}

// NewJitter returns a generator whose waits are never shorter than minWait.
// A nil sleep blocks with time.Sleep.
func NewJitter(minWait time.Duration, sleep func(time.Duration)) *Jitter {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Jitter{
		minWait: minWait,
		sleep:   sleep,
		draw:    rand.Int64N,
	}
}

// Backoff blocks for the next wait and returns the cumulative time waited so far.
// The wait is whole seconds and cannot be interrupted.
func (j *Jitter) Backoff() time.Duration {
	wait := j.next()
	j.sleep(wait)

	j.previous = wait
	j.elapsed += wait
	return j.elapsed
}

func (j *Jitter) next() time.Duration {
	candidateMax := min(MaxPollInterval, j.previous*3)

	var drawn time.Duration
	if seconds := int64(candidateMax / time.Second); seconds > 0 {
		drawn = time.Duration(j.draw(seconds+1)) * time.Second
	}

	return max(j.minWait, drawn)
}

// Previous returns the most recent wait, zero before the first Backoff.
func (j *Jitter) Previous() time.Duration {
	return j.previous
}

// Elapsed returns the sum of every wait issued so far.
func (j *Jitter) Elapsed() time.Duration {
	return j.elapsed
}

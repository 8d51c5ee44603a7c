package transport

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// reconnectPolicy implements §4.4's Reconnect policy (F): a fixed
// inter-attempt delay (not exponential) up to a configured attempt budget,
// after which the connection is terminal.
//
// The teacher's own client.go hand-rolls this as a doubling 1s→2min
// backoff loop (reconnectLoop). This spec calls for a constant interval
// instead, so rather than adapt that doubling arithmetic we reach for
// github.com/cenkalti/backoff/v4 — already present in the retrieved
// pack's dependency graph (gonzalop-mq/integration/go.mod, pulled in
// transitively via testcontainers) — and compose its two primitives that
// exactly match the policy: NewConstantBackOff for the fixed interval,
// WithMaxRetries to bound attempts and turn exhaustion into backoff.Stop.
type reconnectPolicy struct {
	maxAttempts uint32
	attempts    uint32
	backoff     backoff.BackOff
}

func newReconnectPolicy(interval time.Duration, maxAttempts uint32) *reconnectPolicy {
	return &reconnectPolicy{
		maxAttempts: maxAttempts,
		backoff:     backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), uint64(maxAttempts)),
	}
}

// next returns the delay before the next attempt, and ok=false once the
// attempt budget (invariant: reconnect_attempts >= max_reconnect_attempts)
// is exhausted.
func (p *reconnectPolicy) next() (delay time.Duration, ok bool) {
	if p.attempts >= p.maxAttempts {
		return 0, false
	}
	d := p.backoff.NextBackOff()
	if d == backoff.Stop {
		return 0, false
	}
	p.attempts++
	return d, true
}

// reset zeroes the attempt counter, per invariant 4: a successful
// Connected transition resets reconnect_attempts to 0.
func (p *reconnectPolicy) reset() {
	p.attempts = 0
	p.backoff.Reset()
}

// attemptCount reports the number of attempts made since the last reset,
// for tests and status observation.
func (p *reconnectPolicy) attemptCount() uint32 {
	return p.attempts
}

package transport

import (
	"context"
	"sync"
)

// ChannelPair is the duplex byte-cell connection between the transport and
// the session logic above it. Both directions are buffered Go channels
// (an explicit capacity bound per §9's Design Note, rather than the
// unbounded queues the abstract spec allows) and survive every reconnect.
// The pair is completed exactly once — by FullShutdown, never by a single
// socket generation going away — which closes the inbound channel and the
// closed signal.
//
// The outbound direction is never closed directly: a session-layer
// goroutine can be blocked inside Send (buffer full, e.g. nothing draining
// while Reconnecting) at the exact moment Close runs, and closing a
// channel out from under a blocked sender panics it. Send guards against
// that with a select on the closed signal instead, so callers only ever
// observe ErrChannelClosed, never a panic.
type ChannelPair struct {
	outbound chan Cell
	inbound  chan Cell

	closeOnce sync.Once
	closed    chan struct{}
}

// NewChannelPair creates a ChannelPair with the given per-direction buffer
// capacity.
func NewChannelPair(capacity int) *ChannelPair {
	return &ChannelPair{
		outbound: make(chan Cell, capacity),
		inbound:  make(chan Cell, capacity),
		closed:   make(chan struct{}),
	}
}

// Send enqueues cell for transmission. It blocks until there is room in
// the outbound buffer, ctx is cancelled, or the connection reaches
// Terminated — whichever comes first — and never panics even if Close
// runs concurrently with a blocked send.
func (cp *ChannelPair) Send(ctx context.Context, cell Cell) error {
	select {
	case <-cp.closed:
		return ErrChannelClosed
	default:
	}
	select {
	case cp.outbound <- cell:
		return nil
	case <-cp.closed:
		return ErrChannelClosed
	case <-ctx.Done():
		return ErrCancelled
	}
}

// Inbound returns the channel of Cells read off the socket. Pending reads
// drain whatever was queued before Close, then observe the channel closed.
func (cp *ChannelPair) Inbound() <-chan Cell {
	return cp.inbound
}

// Close completes the pair exactly once. Safe to call from any number of
// goroutines or more than once; only the first call has any effect,
// matching invariant 2 (channels are never closed except by FullShutdown).
func (cp *ChannelPair) Close() {
	cp.closeOnce.Do(func() {
		close(cp.closed)
		close(cp.inbound)
	})
}

// Done reports whether Close has been called.
func (cp *ChannelPair) Done() <-chan struct{} {
	return cp.closed
}

// terminated is the one-shot<TerminationReason> from §3's data model,
// grounded on the teacher's token.go (sync.Once-guarded single-assignment
// completion) but specialized to carry a TerminationReason instead of an
// arbitrary error — this module's terminal outcome is always exactly one
// of the four reasons in status.go. cause carries the error behind
// ReasonCouldNotConnect/ReasonError, nil for the other two reasons.
type terminated struct {
	done   chan struct{}
	once   sync.Once
	reason TerminationReason
	cause  error
}

func newTerminated() *terminated {
	return &terminated{done: make(chan struct{})}
}

// complete fires the one-shot with reason and its cause. Only the first
// call has any effect; FullShutdown is the only caller.
func (t *terminated) complete(reason TerminationReason, cause error) {
	t.once.Do(func() {
		t.reason = reason
		t.cause = cause
		close(t.done)
	})
}

// Done returns a channel that closes once the connection has reached its
// terminal state.
func (t *terminated) Done() <-chan struct{} {
	return t.done
}

// Reason returns the termination reason. Only meaningful after Done()
// has closed.
func (t *terminated) Reason() TerminationReason {
	return t.reason
}

// Err returns the cause behind the termination reason, or nil if it
// terminated without one (ReasonNormal, ReasonAborted). Only meaningful
// after Done() has closed.
func (t *terminated) Err() error {
	return t.cause
}

package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelPairCloseIsIdempotent(t *testing.T) {
	cp := NewChannelPair(4)

	assert.NotPanics(t, func() {
		cp.Close()
		cp.Close()
		cp.Close()
	})

	select {
	case <-cp.Done():
	default:
		t.Fatal("expected Done to be closed after Close")
	}

	_, ok := <-cp.Inbound()
	assert.False(t, ok, "Inbound should be closed")

	err := cp.Send(context.Background(), Cell{})
	assert.ErrorIs(t, err, ErrChannelClosed)
}

func TestChannelPairSendUnblocksOnClose(t *testing.T) {
	cp := NewChannelPair(1)
	require.NoError(t, cp.Send(context.Background(), Cell{}))

	done := make(chan error, 1)
	go func() {
		done <- cp.Send(context.Background(), Cell{})
	}()

	cp.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrChannelClosed)
	case <-time.After(time.Second):
		t.Fatal("Send did not unblock after Close")
	}
}

func TestChannelPairSendRespectsContextCancellation(t *testing.T) {
	cp := NewChannelPair(1)
	require.NoError(t, cp.Send(context.Background(), Cell{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cp.Send(ctx, Cell{})
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestTerminatedFiresOnce(t *testing.T) {
	term := newTerminated()

	term.complete(ReasonError, ErrReconnectExhausted)
	term.complete(ReasonNormal, nil) // second call must be ignored

	select {
	case <-term.Done():
	default:
		t.Fatal("expected Done to be closed")
	}
	require.Equal(t, ReasonError, term.Reason())
	require.ErrorIs(t, term.Err(), ErrReconnectExhausted)
}

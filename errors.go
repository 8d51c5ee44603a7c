package transport

import (
	"errors"
	"fmt"
)

// Sentinel errors a caller can match with errors.Is, grounded on the
// teacher's errors.go sentinel-plus-wrapped-type pattern, trimmed to the
// transport-layer failure modes this module actually produces (session-level
// refusal reasons like bad credentials live one layer up, decoded out of a
// CONNACK the session layer receives from this transport's Inbound channel).
var (
	// ErrChannelClosed is returned by ChannelPair.Send once the connection
	// has reached Terminated.
	ErrChannelClosed = errors.New("transport: channel closed")

	// ErrReconnectExhausted is the cause Connection.Err reports when
	// ReasonCouldNotConnect ends the connection.
	ErrReconnectExhausted = errors.New("transport: reconnect attempts exhausted")

	// ErrFrameTooLarge is returned by the decoder when an incoming frame's
	// Remaining Length exceeds Config.MaxFrameSize.
	ErrFrameTooLarge = errors.New("transport: incoming frame exceeds MaxFrameSize")

	// ErrCancelled is returned by ChannelPair.Send when the caller's
	// context is cancelled before the cell can be enqueued; it is never
	// logged as an error condition, since it reflects caller-requested
	// shutdown.
	ErrCancelled = errors.New("transport: cancelled")
)

// DialError wraps a failed attempt to establish the underlying socket,
// naming the address that was tried.
type DialError struct {
	Address string
	Err     error
}

func (e *DialError) Error() string {
	return fmt.Sprintf("transport: dial %s: %v", e.Address, e.Err)
}

func (e *DialError) Unwrap() error { return e.Err }

// DecodeError wraps a streaming-decoder fault, naming the packet type byte
// being decoded when the fault was detected (0 if the fault was in the
// fixed header itself, before a type byte could be trusted).
type DecodeError struct {
	PacketType uint8
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("transport: decode packet type %d: %v", e.PacketType, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

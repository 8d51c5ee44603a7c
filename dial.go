package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"syscall"
	"time"
)

// dial establishes the TCP (optionally TLS-wrapped) socket for cfg,
// grounded on the teacher's client.go dialServer but generalized from URL
// scheme parsing to the structured Config this package takes, and
// extended to satisfy §4.4's "try all resolved addresses in order until
// one succeeds or the deadline expires" resolution of the DNS Open
// Question (the teacher leaves this to net.Dialer.DialContext's own
// internal Happy-Eyeballs-ish behavior; here it's made explicit so
// address_family filtering and ordered-attempt semantics are visible).
func dial(ctx context.Context, cfg Config) (net.Conn, error) {
	network := "tcp"
	switch cfg.AddressFamily {
	case AddressFamilyIPv4:
		network = "tcp4"
	case AddressFamilyIPv6:
		network = "tcp6"
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, cfg.Host)
	if err != nil {
		return nil, &DialError{Address: cfg.Host, Err: fmt.Errorf("dns: %w", err)}
	}
	if len(addrs) == 0 {
		return nil, &DialError{Address: cfg.Host, Err: fmt.Errorf("dns: no addresses")}
	}

	dialer := &net.Dialer{Control: setSocketOptions(cfg.MaxFrameSize)}

	var lastErr error
	for _, addr := range addrs {
		target := net.JoinHostPort(addr.String(), strconv.Itoa(int(cfg.Port)))

		var conn net.Conn
		var err error
		if cfg.TLSConfig != nil {
			tlsDialer := &tls.Dialer{NetDialer: dialer, Config: cfg.TLSConfig}
			conn, err = tlsDialer.DialContext(ctx, network, target)
		} else {
			conn, err = dialer.DialContext(ctx, network, target)
		}
		if err == nil {
			return conn, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}
	return nil, &DialError{Address: net.JoinHostPort(cfg.Host, strconv.Itoa(int(cfg.Port))), Err: lastErr}
}

// setSocketOptions returns a net.Dialer.Control callback applying §4.4's
// socket options: TCP_NODELAY, send/receive buffers sized to
// 2×MaxFrameSize, and a 2s SO_LINGER.
func setSocketOptions(maxFrameSize uint32) func(network, address string, c syscall.RawConn) error {
	bufSize := int(2 * maxFrameSize)
	return func(network, address string, c syscall.RawConn) error {
		var sockErr error
		err := c.Control(func(fd uintptr) {
			sockErr = applySocketOptions(fd, bufSize)
		})
		if err != nil {
			return err
		}
		return sockErr
	}
}

// connectDeadline derives the deadline for a single Connect attempt from
// the reconnect interval, per §4.4's "deadline of reconnect_interval" for
// reconnect attempts; the initial attempt instead uses ConnectTimeout
// directly (set by dial's own context).
func connectDeadline(base time.Duration) time.Duration {
	if base <= 0 {
		return 10 * time.Second
	}
	return base
}

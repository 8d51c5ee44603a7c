package transport

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, host string, port uint16, opts ...Option) Config {
	t.Helper()
	defaults := []Option{
		WithConnectTimeout(500 * time.Millisecond),
		WithReconnectInterval(20 * time.Millisecond),
		WithMaxReconnectAttempts(3),
		WithMaxFrameSize(4096),
		WithChannelCapacity(8),
	}
	cfg, err := NewConfig(host, port, append(defaults, opts...)...)
	require.NoError(t, err)
	return cfg
}

func waitForStatus(t *testing.T, conn *Connection, want ConnectionStatus, timeout time.Duration) {
	t.Helper()
	deadline := time.After(timeout)
	ticker := time.NewTicker(2 * time.Millisecond)
	defer ticker.Stop()
	for {
		if conn.Status() == want {
			return
		}
		select {
		case <-ticker.C:
		case <-deadline:
			t.Fatalf("timed out waiting for status %s, last seen %s", want, conn.Status())
		}
	}
}

func listenerAddr(t *testing.T, l net.Listener) (string, uint16) {
	t.Helper()
	addr := l.Addr().(*net.TCPAddr)
	return addr.IP.String(), uint16(addr.Port)
}

func TestConnectionEstablishesAndExchangesBytes(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	go func() {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 5)
		if _, err := conn.Read(buf); err != nil {
			return
		}
		conn.Write(buf)
	}()

	host, port := listenerAddr(t, l)
	cfg := testConfig(t, host, port)
	conn := Dial(cfg)
	defer conn.Close()

	waitForStatus(t, conn, StatusRunning, time.Second)

	pool := NewPool(int(cfg.MaxFrameSize))
	cell := pool.Get(5)
	copy(cell.Buf, []byte("hello"))
	require.NoError(t, conn.Channels().Send(context.Background(), cell))

	select {
	case got := <-conn.Channels().Inbound():
		require.Equal(t, "hello", string(got.Buf[:got.Len]))
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for echoed bytes")
	}
}

func TestConnectionReconnectsAfterServerKick(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	accepted := make(chan struct{}, 2)
	go func() {
		for i := 0; i < 2; i++ {
			c, err := l.Accept()
			if err != nil {
				return
			}
			accepted <- struct{}{}
			if i == 0 {
				c.Close() // kick the first generation
			} else {
				defer c.Close()
				<-time.After(200 * time.Millisecond)
			}
		}
	}()

	host, port := listenerAddr(t, l)
	cfg := testConfig(t, host, port)
	conn := Dial(cfg)
	defer conn.Close()

	<-accepted // first generation connected
	waitForStatus(t, conn, StatusRunning, time.Second)

	<-accepted // second generation connected after the kick
	waitForStatus(t, conn, StatusRunning, time.Second)
}

func TestConnectionExhaustsReconnectAndFails(t *testing.T) {
	// Bind and immediately close: nothing listens on this port afterward.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	host, port := listenerAddr(t, l)
	l.Close()

	cfg := testConfig(t, host, port, WithMaxReconnectAttempts(2))
	conn := Dial(cfg)

	select {
	case <-conn.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for termination")
	}
	require.Equal(t, ReasonCouldNotConnect, conn.Reason())
	require.Equal(t, StatusFailed, conn.Status())
}

func TestConnectionCloseWhileSendBlockedDoesNotPanic(t *testing.T) {
	// Bind and immediately close: nothing listens, so the connection sits
	// in Reconnecting and never drains Outbound.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	host, port := listenerAddr(t, l)
	l.Close()

	cfg := testConfig(t, host, port, WithChannelCapacity(1), WithMaxReconnectAttempts(5))
	conn := Dial(cfg)

	// Fill the buffer, then block a goroutine trying to send a second cell.
	pool := NewPool(int(cfg.MaxFrameSize))
	require.NoError(t, conn.Channels().Send(context.Background(), pool.Get(1)))

	blocked := make(chan error, 1)
	go func() {
		blocked <- conn.Channels().Send(context.Background(), pool.Get(1))
	}()

	require.NotPanics(t, func() {
		conn.Close()
	})

	select {
	case err := <-blocked:
		require.ErrorIs(t, err, ErrChannelClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("blocked Send never unblocked after Close")
	}
}

func TestConnectionCloseIsNormal(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	go func() {
		c, err := l.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		buf := make([]byte, 1)
		c.Read(buf) // block until the connection closes
	}()

	host, port := listenerAddr(t, l)
	cfg := testConfig(t, host, port)
	conn := Dial(cfg)

	waitForStatus(t, conn, StatusRunning, time.Second)
	conn.Close()

	require.Equal(t, ReasonNormal, conn.Reason())
	require.Equal(t, StatusDisconnected, conn.Status())
}

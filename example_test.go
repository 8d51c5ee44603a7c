package transport_test

import (
	"context"
	"fmt"
	"net"
	"time"

	transport "github.com/haldric/mqtt-transport"
	"github.com/haldric/mqtt-transport/internal/packets"
)

// Example demonstrates wiring Connection, Pool, and Decoder together:
// the three pieces a session layer built on this package actually needs.
// It replaces the teacher's examples/auto_reconnect, which round-tripped
// a PUBLISH through a live broker connection; here the "broker" is a
// local listener that echoes a PINGREQ back once, since this package
// never speaks MQTT session semantics itself.
func Example() {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		fmt.Println("listen error:", err)
		return
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 2)
		if _, err := conn.Read(buf); err != nil {
			return
		}
		conn.Write(buf)
	}()

	addr := ln.Addr().(*net.TCPAddr)
	cfg, err := transport.NewConfig(addr.IP.String(), uint16(addr.Port),
		transport.WithConnectTimeout(2*time.Second),
		transport.WithMaxReconnectAttempts(1),
	)
	if err != nil {
		fmt.Println("config error:", err)
		return
	}

	conn := transport.Dial(cfg)
	defer conn.Close()

	deadline := time.After(2 * time.Second)
	for conn.Status() != transport.StatusRunning {
		select {
		case <-deadline:
			fmt.Println("timed out waiting to connect")
			return
		default:
		}
	}

	entry := transport.NewEncodable(&packets.PingreqPacket{})
	size, err := transport.EncodedSize(entry)
	if err != nil {
		fmt.Println("size error:", err)
		return
	}

	pool := transport.NewPool(4096)
	cell := pool.Get(size)
	n, err := transport.EncodeMany([]transport.Encodable{entry}, cell.Buf[:0])
	if err != nil {
		fmt.Println("encode error:", err)
		return
	}
	cell.Buf = cell.Buf[:n]
	cell.Len = n
	if err := conn.Channels().Send(context.Background(), cell); err != nil {
		fmt.Println("send error:", err)
		return
	}

	decoder := transport.NewDecoder(4096)
	select {
	case in := <-conn.Channels().Inbound():
		_, pkts, err := decoder.TryDecode(in.Buf)
		if err != nil {
			fmt.Println("decode error:", err)
			return
		}
		for _, p := range pkts {
			fmt.Printf("received packet type %d\n", p.Type())
		}
	case <-time.After(2 * time.Second):
		fmt.Println("timed out waiting for echo")
	}

	// Output:
	// received packet type 12
}

// Package transport implements the MQTT 3.1.1 wire codec and connection
// lifecycle underneath an MQTT client: a streaming packet decoder and
// encoder, and a reconnecting TCP (optionally TLS) transport state
// machine that exchanges raw byte Cells with the session layer above it
// over a ChannelPair.
//
// This package does not speak MQTT semantics itself — it does not send
// CONNECT, track packet identifiers, or manage subscriptions. A session
// layer built on top of it owns the handshake and protocol state machine,
// reading and writing internal/packets values (or their encoded bytes)
// through the ChannelPair a Connection exposes.
//
// # Connecting
//
//	cfg, err := transport.NewConfig("broker.example.com", 1883,
//	    transport.WithMaxReconnectAttempts(10),
//	    transport.WithReconnectInterval(3*time.Second))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	conn := transport.Dial(cfg)
//	defer conn.Close()
//
//	chans := conn.Channels()
//
// # Sending and receiving
//
// Outbound cells are rented from a Pool sized to Config.MaxFrameSize and
// handed to the ChannelPair's Send. Once a cell is written, whether the
// write succeeded or failed, the write loop releases it into the
// Connection's own internal Pool; it is not returned to the Pool the
// caller rented it from, and the Connection does not expose its internal
// Pool. Inbound
// cells are freshly allocated per read, never pooled, so the session layer
// can hold onto them past the next read without risking the read loop
// overwriting a reused buffer underneath it.
//
//	pool := transport.NewPool(int(cfg.MaxFrameSize))
//	cell := pool.Get(len(wireBytes))
//	copy(cell.Buf, wireBytes)
//	if err := chans.Send(ctx, cell); err != nil {
//	    // ErrChannelClosed: connection reached Terminated
//	}
//
//	for cell := range chans.Inbound() {
//	    // decode cell.Buf[:cell.Len]
//	}
//
// # Decoding a byte stream into packets
//
// Decoder accumulates arbitrary byte chunks and emits every fully-framed
// packet a feed completes, preserving partial headers and partial bodies
// across calls:
//
//	dec := transport.NewDecoder(int(cfg.MaxFrameSize))
//	_, pkts, err := dec.TryDecode(cell.Buf[:cell.Len])
//
// # Lifecycle
//
// A Connection moves through NotStarted, Connecting, Running,
// Reconnecting, and finally one of Disconnected, Failed, or Aborted. Close
// drives a connection that has not already terminated to Disconnected (on
// one that has, its final status is left unchanged); an exhausted reconnect
// budget drives
// it to Failed with Err reporting ErrReconnectExhausted. Status reports
// the current state and Done/Reason/Err report the terminal outcome.
package transport

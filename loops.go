package transport

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"golang.org/x/sync/errgroup"
)

// runGeneration drives one socket generation's read and write loops to
// completion under a single errgroup, grounded on the teacher's readLoop/
// writeLoop pair (client.go) but restructured from packet-level io.Reader
// consumption to raw Cell byte-passing: this package stops at bytes, the
// MQTT packet framing lives in the session layer reading from Inbound.
//
// runGeneration returns the error that ended the generation (nil on a
// clean shutdown-signal cancellation).
func runGeneration(ctx context.Context, conn net.Conn, cfg Config, chans *ChannelPair, pool *Pool, stats *statsCounters, log *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return readLoop(gctx, conn, cfg, chans, stats, log)
	})
	g.Go(func() error {
		return writeLoop(gctx, conn, chans, pool, stats, log)
	})

	<-gctx.Done()
	conn.Close()

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// readLoop copies inbound bytes off conn into freshly-allocated Cells on
// the inbound channel, scratch-buffered to cfg.MaxFrameSize (§9: inbound cells
// are never pooled, to avoid handing the session layer a buffer the next
// read might overwrite underneath it).
func readLoop(ctx context.Context, conn net.Conn, cfg Config, chans *ChannelPair, stats *statsCounters, log *slog.Logger) error {
	scratch := make([]byte, cfg.MaxFrameSize)
	for {
		n, err := conn.Read(scratch)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if n == 0 {
			continue
		}
		stats.bytesReceived.Add(uint64(n))

		cell := Cell{Buf: make([]byte, n), Len: n}
		copy(cell.Buf, scratch[:n])

		select {
		case chans.inbound <- cell:
		case <-ctx.Done():
			return nil
		}
	}
}

// writeLoop dequeues outbound Cells and writes each in full, always
// releasing the cell back to pool whether the write succeeded or failed
// (invariant 6: every outbound cell is released exactly once).
func writeLoop(ctx context.Context, conn net.Conn, chans *ChannelPair, pool *Pool, stats *statsCounters, log *slog.Logger) error {
	for {
		select {
		case cell, ok := <-chans.outbound:
			if !ok {
				return nil
			}
			n, err := conn.Write(cell.Buf[:cell.Len])
			stats.bytesSent.Add(uint64(n))
			pool.Put(cell)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		case <-ctx.Done():
			return nil
		}
	}
}

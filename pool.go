package transport

import "sync"

// Cell is an owned byte region plus a usable-prefix length, exchanged
// across the duplex channels. Ownership transfers on enqueue. The write
// loop releases every outbound Cell it dequeues into its Connection's own
// internal Pool, not into the Pool the Cell was rented from (inbound cells
// are never pooled, see Pool's doc comment).
type Cell struct {
	Buf []byte
	Len int
}

// Pool rents fixed-size buffers for outbound cells, grounded on the
// teacher's internal/packets/pool.go sync.Pool wrapper (GetBuffer/
// PutBuffer), generalized from a hardcoded 4096-byte size to the
// connection's configured MaxFrameSize. Session logic above this package
// rents from a Pool when assembling outbound cells. Each Connection also
// holds an internal Pool of its own, which it does not expose; the write
// loop releases every cell it dequeues into that internal Pool, whether
// the write succeeded or failed, and never into the Pool the cell was
// rented from.
//
// Inbound cells are deliberately never pooled: handing a session layer a
// slice that the read loop might concurrently overwrite through a reused
// buffer is exactly the aliasing hazard §9 calls out, so every inbound
// read allocates fresh.
type Pool struct {
	size int
	pool sync.Pool
}

// NewPool creates a Pool renting buffers of exactly size bytes.
func NewPool(size int) *Pool {
	return &Pool{
		size: size,
		pool: sync.Pool{
			New: func() any {
				buf := make([]byte, size)
				return &buf
			},
		},
	}
}

// Get returns a Cell with capacity for at least n bytes. Requests larger
// than the pool's configured size bypass the pool entirely (the teacher's
// GetBuffer does the same for oversized requests).
func (p *Pool) Get(n int) Cell {
	if n > p.size {
		return Cell{Buf: make([]byte, n), Len: n}
	}
	bufPtr := p.pool.Get().(*[]byte)
	return Cell{Buf: (*bufPtr)[:cap(*bufPtr)], Len: n}
}

// Put returns a Cell's buffer to the pool. Buffers that didn't come from
// this pool (oversized Get calls) are simply dropped, mirroring PutBuffer's
// cap(*bufPtr) != size guard.
func (p *Pool) Put(c Cell) {
	if cap(c.Buf) != p.size {
		return
	}
	buf := c.Buf[:cap(c.Buf)]
	p.pool.Put(&buf)
}

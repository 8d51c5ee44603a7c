package transport

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type eventKind int

const (
	eventConnectResult eventKind = iota
	eventGenerationEnded
	eventReconnectTimer
	eventCloseRequested
)

type connEvent struct {
	kind       eventKind
	generation uint64
	conn       net.Conn
	err        error
}

// Connection is the transport state machine (component D of this
// package): a single-owner actor goroutine drives it through
// NotStarted -> Connecting -> Running -> Reconnecting -> Terminated,
// owning at most one live socket at a time (invariant 1) while exposing a
// ChannelPair that survives every reconnect (invariant 2). Grounded on the
// teacher's Client (client.go), whose connect/readLoop/writeLoop/
// reconnectLoop are scattered across atomics, mutexes, and a handful of
// unbuffered signal channels; here the same responsibilities are
// collapsed into one serialized event loop so the state transitions
// themselves need no locking.
type Connection struct {
	cfg    Config
	logger *slog.Logger

	channels   *ChannelPair
	pool       *Pool
	reconnect  *reconnectPolicy
	terminated *terminated
	stats      statsCounters

	status atomic.Int32

	events chan connEvent

	rootCtx    context.Context
	rootCancel context.CancelFunc

	startOnce sync.Once
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewConnection builds a Connection in NotStarted. Call Start to issue
// the Create event and begin connecting.
func NewConnection(cfg Config) *Connection {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "transport")
	rootCtx, rootCancel := context.WithCancel(context.Background())
	c := &Connection{
		cfg:        cfg,
		logger:     logger,
		channels:   NewChannelPair(cfg.ChannelCapacity),
		pool:       NewPool(int(cfg.MaxFrameSize)),
		reconnect:  newReconnectPolicy(cfg.ReconnectInterval, cfg.MaxReconnectAttempts),
		terminated: newTerminated(),
		events:     make(chan connEvent, 8),
		rootCtx:    rootCtx,
		rootCancel: rootCancel,
	}
	c.status.Store(int32(StatusNotStarted))
	return c
}

// Dial is a convenience wrapper matching the teacher's Dial: it builds a
// Connection and immediately starts it.
func Dial(cfg Config) *Connection {
	c := NewConnection(cfg)
	c.Start()
	return c
}

// Channels returns the duplex byte-cell connection to the session layer
// above this package. It is valid for the lifetime of the Connection,
// including across reconnects, and is only ever closed by FullShutdown.
func (c *Connection) Channels() *ChannelPair { return c.channels }

// Status reports the current externally observable lifecycle state.
func (c *Connection) Status() ConnectionStatus {
	return ConnectionStatus(c.status.Load())
}

// Done returns a channel that closes once the connection reaches its
// terminal state.
func (c *Connection) Done() <-chan struct{} { return c.terminated.Done() }

// Reason reports why the connection terminated. Only meaningful after
// Done has closed.
func (c *Connection) Reason() TerminationReason { return c.terminated.Reason() }

// Err reports the cause behind Reason, or nil if it terminated without
// one. Only meaningful after Done has closed.
func (c *Connection) Err() error { return c.terminated.Err() }

// Stats reports cumulative byte and reconnect counters.
func (c *Connection) Stats() Stats { return c.stats.snapshot() }

// Start issues the Create event (§4.4: NotStarted -> Connecting) and
// launches the owning actor goroutine. Idempotent; only the first call
// has any effect.
func (c *Connection) Start() {
	c.startOnce.Do(func() {
		c.status.Store(int32(StatusConnecting))
		c.wg.Add(1)
		go c.run()
	})
}

// Close requests a clean shutdown (FullShutdown(Normal)). It blocks until
// the connection has reached Terminated. Idempotent.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		select {
		case c.events <- connEvent{kind: eventCloseRequested}:
		case <-c.terminated.Done():
		}
	})
	<-c.terminated.Done()
}

// run is the single owning actor: every state transition happens on this
// goroutine, so the fields it touches (generation, genCancel, genDone)
// need no synchronization of their own.
func (c *Connection) run() {
	defer c.wg.Done()

	var generation uint64
	var genCancel context.CancelFunc
	var genDone chan struct{}

	startConnect := func(initial bool) {
		generation++
		gen := generation
		timeout := c.cfg.ConnectTimeout
		if !initial {
			timeout = connectDeadline(c.cfg.ReconnectInterval)
		}
		log := c.logger.With("generation", uuid.NewString())
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.connectAttempt(gen, timeout, log)
		}()
	}

	startConnect(true)

	for {
		ev := <-c.events
		switch ev.kind {
		case eventConnectResult:
			if ev.generation != generation {
				continue
			}
			if ev.err != nil {
				c.logger.Debug("connect attempt failed", "error", ev.err)
				if !c.enterReconnecting() {
					c.fullShutdown(ReasonCouldNotConnect, ErrReconnectExhausted)
					return
				}
				continue
			}

			c.reconnect.reset()
			c.status.Store(int32(StatusRunning))

			genCtx, cancel := context.WithCancel(c.rootCtx)
			genCancel = cancel
			genDone = make(chan struct{})
			conn := ev.conn
			gen := ev.generation
			log := c.logger.With("generation", gen)

			c.wg.Add(1)
			go func() {
				defer c.wg.Done()
				err := runGeneration(genCtx, conn, c.cfg, c.channels, c.pool, &c.stats, log)
				close(genDone)
				select {
				case c.events <- connEvent{kind: eventGenerationEnded, generation: gen, err: err}:
				case <-c.terminated.Done():
				}
			}()

		case eventGenerationEnded:
			if ev.generation != generation || ev.err == nil {
				continue
			}
			if genCancel != nil {
				genCancel()
			}
			c.logger.Debug("connection lost", "error", ev.err)
			if !c.enterReconnecting() {
				c.fullShutdown(ReasonCouldNotConnect, ErrReconnectExhausted)
				return
			}

		case eventReconnectTimer:
			startConnect(false)

		case eventCloseRequested:
			c.rootCancel()
			if genCancel != nil {
				genCancel()
			}
			if genDone != nil {
				<-genDone
			}
			c.fullShutdown(ReasonNormal, nil)
			return
		}
	}
}

// connectAttempt dials cfg in isolation and reports the outcome as a
// ConnectResult event, per §4.4. It never touches Connection state
// directly, so it is safe to run concurrently with the actor loop.
func (c *Connection) connectAttempt(generation uint64, timeout time.Duration, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(c.rootCtx, timeout)
	defer cancel()

	log.Debug("connecting", "host", c.cfg.Host, "port", c.cfg.Port)
	conn, err := dial(ctx, c.cfg)

	select {
	case c.events <- connEvent{kind: eventConnectResult, generation: generation, conn: conn, err: err}:
	case <-c.rootCtx.Done():
		if conn != nil {
			conn.Close()
		}
	}
}

// enterReconnecting applies the reconnect policy (component F):
// Running/Connecting -> Reconnecting on failure, scheduling the next
// attempt after the policy's delay, or reporting exhaustion.
func (c *Connection) enterReconnecting() bool {
	delay, ok := c.reconnect.next()
	if !ok {
		return false
	}
	c.status.Store(int32(StatusReconnecting))
	c.stats.reconnectCount.Add(1)
	c.logger.Debug("reconnecting", "attempt", c.reconnect.attemptCount(), "delay", delay)
	time.AfterFunc(delay, func() {
		select {
		case c.events <- connEvent{kind: eventReconnectTimer}:
		case <-c.terminated.Done():
		}
	})
	return true
}

// fullShutdown is the single path to Terminated (§4.4's FullShutdown): it
// tears down the root context, closes the channel pair exactly once (before
// draining, so a Send blocked on a full buffer returns ErrChannelClosed
// rather than taking a slot the drain frees), drains and releases any
// outbound cells still queued (invariant 6 holds even on shutdown), and
// fires the terminated one-shot.
func (c *Connection) fullShutdown(reason TerminationReason, cause error) {
	c.rootCancel()
	c.channels.Close()

drain:
	for {
		select {
		case cell, ok := <-c.channels.outbound:
			if !ok {
				break drain
			}
			c.pool.Put(cell)
		default:
			break drain
		}
	}

	c.status.Store(int32(reason.Status()))
	c.terminated.complete(reason, cause)
}

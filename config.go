package transport

import (
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// AddressFamily constrains which IP family DNS resolution may return.
type AddressFamily int

const (
	AddressFamilyUnspecified AddressFamily = iota
	AddressFamilyIPv4
	AddressFamilyIPv6
)

// Config is the immutable configuration for a Connection, built with
// functional options the same way the teacher's clientOptions/Option
// pattern does (options.go), trimmed to exactly the fields the transport
// layer itself needs — session-layer concerns (client ID, credentials,
// will message, keep-alive ping cadence) belong to the collaborator above
// this package.
type Config struct {
	Host          string
	Port          uint16
	AddressFamily AddressFamily

	// MaxFrameSize bounds both the read-loop scratch buffer and the
	// decoder's accumulator growth (§9's recommended cap on oversized
	// incoming frames).
	MaxFrameSize uint32

	MaxReconnectAttempts uint32
	ReconnectInterval    time.Duration

	// ConnectTimeout bounds a single connect attempt (including DNS
	// resolution); it is the deadline named in the Connect(deadline) event.
	ConnectTimeout time.Duration

	// TLSConfig, if non-nil, wraps the socket in TLS after a successful
	// TCP connect. Certificate validation is the caller's concern via the
	// standard tls.Config verification hooks.
	TLSConfig *tls.Config

	// ChannelCapacity bounds each direction's duplex channel (§9's
	// "advisable but not mandated" explicit backpressure bound).
	ChannelCapacity int

	Logger *slog.Logger
}

// Option mutates a Config during construction, following the teacher's
// functional-options convention (options.go's WithXxx functions closing
// over *clientOptions).
type Option func(*Config)

func WithAddressFamily(f AddressFamily) Option {
	return func(c *Config) { c.AddressFamily = f }
}

func WithMaxFrameSize(n uint32) Option {
	return func(c *Config) { c.MaxFrameSize = n }
}

func WithMaxReconnectAttempts(n uint32) Option {
	return func(c *Config) { c.MaxReconnectAttempts = n }
}

func WithReconnectInterval(d time.Duration) Option {
	return func(c *Config) { c.ReconnectInterval = d }
}

func WithConnectTimeout(d time.Duration) Option {
	return func(c *Config) { c.ConnectTimeout = d }
}

func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Config) { c.TLSConfig = cfg }
}

func WithChannelCapacity(n int) Option {
	return func(c *Config) { c.ChannelCapacity = n }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// NewConfig builds a Config for host:port with the teacher's default
// values, then applies opts in order.
func NewConfig(host string, port uint16, opts ...Option) (Config, error) {
	if host == "" {
		return Config{}, fmt.Errorf("transport: host must not be empty")
	}
	cfg := Config{
		Host:                 host,
		Port:                 port,
		AddressFamily:        AddressFamilyUnspecified,
		MaxFrameSize:         256 * 1024,
		MaxReconnectAttempts: 5,
		ReconnectInterval:    2 * time.Second,
		ConnectTimeout:       10 * time.Second,
		ChannelCapacity:      256,
		Logger:               slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxFrameSize == 0 {
		return Config{}, fmt.Errorf("transport: MaxFrameSize must be > 0")
	}
	return cfg, nil
}

package network

import (
	"time"
)

// Config holds network configuration
type Config struct {
	// Address to bind, host:port
	Address string

	// Connection limits, per role
	MaxPeers int

	// Timing
	ReadTimeout       time.Duration // refreshed by every frame and pong
	WriteTimeout      time.Duration
	HeartbeatInterval time.Duration // ping period, must be below ReadTimeout
	ShutdownTimeout   time.Duration

	// Buffer sizes
	ReadBufferSize  int
	WriteBufferSize int
	SendQueueSize   int
	MaxMessageSize  int64

	// SnapshotEvery sends a viewer frame every N ticks
	SnapshotEvery int
}

// DefaultConfig returns production-safe defaults
func DefaultConfig() *Config {
	return &Config{
		Address:           "127.0.0.1:8080",
		MaxPeers:          16,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Second,
		HeartbeatInterval: 10 * time.Second,
		ShutdownTimeout:   2 * time.Second,
		ReadBufferSize:    4 * 1024,
		WriteBufferSize:   16 * 1024,
		SendQueueSize:     64,
		MaxMessageSize:    4 * 1024,
		SnapshotEvery:     2,
	}
}

// DebugConfig returns config bound to addr with short timeouts for local testing
func DebugConfig(addr string) *Config {
	cfg := DefaultConfig()
	cfg.Address = addr
	cfg.ReadTimeout = 5 * time.Second
	cfg.HeartbeatInterval = time.Second
	return cfg
}

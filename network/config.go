package network

import (
	"time"

	"github.com/lixenwraith/orbit-runner/parameter"
)

// Config holds spectator server configuration
type Config struct {
	// Connection limits
	MaxPeers int

	// WriteTimeout bounds one websocket write; a peer that misses it is dropped
	WriteTimeout time.Duration
	// PongWait is how long a silent peer is kept before the read side gives up
	PongWait time.Duration

	// Buffer sizes
	SendQueueSize int
	ReadLimit     int64
}

// DefaultConfig returns production-safe defaults
func DefaultConfig() *Config {
	return &Config{
		MaxPeers:      32,
		WriteTimeout:  parameter.SpectatorWriteTimeout,
		PongWait:      30 * time.Second,
		SendQueueSize: parameter.SnapshotBuffer,
		ReadLimit:     4 * 1024,
	}
}

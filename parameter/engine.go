package parameter

import "time"

// Simulation Timing
const (
	// TickInterval is the fixed simulation step (60 Hz)
	TickInterval = time.Second / 60

	// FrameUpdateInterval is the terminal render interval (~30 FPS)
	FrameUpdateInterval = 33 * time.Millisecond

	// MaxTickDelta caps a single step so a stalled host cannot tunnel obstacles through the player
	MaxTickDelta = 0.1
)

// Event Queue
const (
	// EventQueueSize is the fixed capacity of the event ring buffer
	EventQueueSize = 1024

	// EventBufferMask is the bitmask for fast modulo operations (1024 - 1)
	EventBufferMask = 1023
)

// Snapshot Stream
const (
	// SnapshotInterval is how often the spectator stream publishes a snapshot
	SnapshotInterval = 100 * time.Millisecond

	// SnapshotBuffer is the per-client outbound queue depth
	SnapshotBuffer = 8

	// SpectatorWriteTimeout bounds a single websocket write
	SpectatorWriteTimeout = 2 * time.Second

	// DefaultServeAddr is the listen address for the spectator server
	DefaultServeAddr = ":8080"
)

// Package network streams engine snapshots to websocket spectators
package network

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/lixenwraith/orbit-runner/engine"
	"github.com/lixenwraith/orbit-runner/event"
	"github.com/lixenwraith/orbit-runner/status"
)

// ErrFull is returned when the peer limit is reached
var ErrFull = errors.New("max peers reached")

// Hub owns every spectator connection and fans payloads out to them
type Hub struct {
	mu     sync.RWMutex
	peers  map[PeerID]*Peer
	nextID atomic.Uint32
	config *Config
	logger *zap.Logger

	upgrader websocket.Upgrader

	// last is replayed to new peers so they render before the next publish
	last atomic.Pointer[[]byte]

	statPeers     *atomic.Int64
	statPublished *atomic.Int64
	statDropped   *atomic.Int64
}

// NewHub creates an empty hub; reg may be nil
func NewHub(cfg *Config, reg *status.Registry, logger *zap.Logger) *Hub {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Hub{
		peers:  make(map[PeerID]*Peer),
		config: cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		statPeers:     reg.Ints.Get("network.peers"),
		statPublished: reg.Ints.Get("network.published"),
		statDropped:   reg.Ints.Get("network.dropped"),
	}
}

// ServeHTTP upgrades the request and registers the spectator
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	full := len(h.peers) >= h.config.MaxPeers
	h.mu.RUnlock()
	if full {
		http.Error(w, ErrFull.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}
	if _, err := h.AddConnection(conn); err != nil {
		msg := websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error())
		_ = conn.WriteMessage(websocket.CloseMessage, msg)
		conn.Close()
	}
}

// AddConnection registers an upgraded connection and starts its I/O loops
func (h *Hub) AddConnection(conn *websocket.Conn) (PeerID, error) {
	h.mu.Lock()
	if len(h.peers) >= h.config.MaxPeers {
		h.mu.Unlock()
		return 0, ErrFull
	}
	id := PeerID(h.nextID.Add(1))
	peer := newPeer(id, conn, h.config)
	h.peers[id] = peer
	h.statPeers.Store(int64(len(h.peers)))
	h.mu.Unlock()

	if hello, err := (Message{Type: MsgHello, Peer: id}).Encode(); err == nil {
		peer.Send(hello)
	}
	if last := h.last.Load(); last != nil {
		peer.Send(*last)
	}

	go peer.readLoop()
	go peer.writeLoop()
	go h.monitorPeer(peer)

	h.logger.Info("spectator connected", zap.Uint32("peer", uint32(id)), zap.String("remote", peer.Addr))
	return id, nil
}

// monitorPeer removes the peer once it closes
func (h *Hub) monitorPeer(peer *Peer) {
	<-peer.Done()

	h.mu.Lock()
	delete(h.peers, peer.ID)
	h.statPeers.Store(int64(len(h.peers)))
	h.mu.Unlock()

	h.logger.Info("spectator disconnected",
		zap.Uint32("peer", uint32(peer.ID)),
		zap.Uint64("sent", peer.Sent.Load()),
		zap.Uint64("dropped", peer.Dropped.Load()))
}

// Broadcast queues data on every peer and returns how many accepted it
// Slow peers drop the payload instead of stalling the caller
func (h *Hub) Broadcast(data []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, peer := range h.peers {
		if peer.Send(data) {
			delivered++
		} else {
			h.statDropped.Add(1)
		}
	}
	return delivered
}

// Publish encodes a snapshot, remembers it for late joiners and broadcasts it
func (h *Hub) Publish(snap engine.Snapshot) error {
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	h.last.Store(&data)
	h.statPublished.Add(1)
	h.Broadcast(data)
	return nil
}

// TickPublisher returns a loop callback that publishes one snapshot per interval of simulated time
func (h *Hub) TickPublisher(interval, tick time.Duration) func(*engine.Simulation) {
	every := int64(1)
	if tick > 0 && interval > tick {
		every = int64(interval / tick)
	}
	return func(sim *engine.Simulation) {
		if sim.Ticks()%every != 0 {
			return
		}
		if err := h.Publish(sim.Snapshot()); err != nil {
			h.logger.Warn("snapshot encode failed", zap.Error(err))
		}
	}
}

// PublishEvent sends a named event to every peer
func (h *Hub) PublishEvent(tick int64, name string) error {
	data, err := Message{Type: MsgEvent, Tick: tick, Event: name}.Encode()
	if err != nil {
		return err
	}
	h.Broadcast(data)
	return nil
}

// GetPeer retrieves a peer by ID
func (h *Hub) GetPeer(id PeerID) (*Peer, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	p, ok := h.peers[id]
	return p, ok
}

// PeerCount returns current connected peer count
func (h *Hub) PeerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Close disconnects all peers
func (h *Hub) Close() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, peer := range h.peers {
		peer.Close()
	}
}

// StatusHandler serves the registry as JSON
func StatusHandler(reg *status.Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(reg.Snapshot()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// EventTypes lists the events forwarded to spectators
func (h *Hub) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventNearMiss,
		event.EventWaveWarning,
		event.EventWaveStarted,
		event.EventWaveEnded,
		event.EventPlayerHit,
		event.EventGameOver,
		event.EventRevived,
		event.EventTierUnlocked,
	}
}

// HandleEvent forwards ev by name; it runs on the simulation goroutine and never blocks
func (h *Hub) HandleEvent(ev event.GameEvent) {
	if err := h.PublishEvent(ev.Tick, ev.Type.String()); err != nil {
		h.logger.Warn("event encode failed", zap.Stringer("event", ev.Type), zap.Error(err))
	}
}

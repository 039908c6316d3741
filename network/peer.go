package network

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// PeerID uniquely identifies a connected spectator
type PeerID uint32

// ConnState represents connection lifecycle state
type ConnState uint8

const (
	StateDisconnected ConnState = iota
	StateConnected
	StateDisconnecting
)

// Peer is one spectator connection
type Peer struct {
	ID       PeerID
	Addr     string
	State    atomic.Uint32 // ConnState
	LastSeen atomic.Int64  // UnixNano

	Sent    atomic.Uint64
	Dropped atomic.Uint64

	conn *websocket.Conn
	cfg  *Config

	// Send queue
	sendCh chan []byte

	// Lifecycle
	closeCh   chan struct{}
	closeOnce sync.Once
}

// newPeer wraps an upgraded connection
func newPeer(id PeerID, conn *websocket.Conn, cfg *Config) *Peer {
	p := &Peer{
		ID:      id,
		Addr:    conn.RemoteAddr().String(),
		conn:    conn,
		cfg:     cfg,
		sendCh:  make(chan []byte, cfg.SendQueueSize),
		closeCh: make(chan struct{}),
	}
	p.State.Store(uint32(StateConnected))
	p.LastSeen.Store(time.Now().UnixNano())
	return p
}

// Send queues a payload for transmission
// Returns false if the peer is disconnected or its queue is full; the payload is dropped
func (p *Peer) Send(data []byte) bool {
	if ConnState(p.State.Load()) != StateConnected {
		return false
	}
	select {
	case p.sendCh <- data:
		return true
	default:
		p.Dropped.Add(1)
		return false
	}
}

// Close initiates shutdown; safe to call more than once
// The write loop sends the close frame and releases the connection
func (p *Peer) Close() {
	p.closeOnce.Do(func() {
		p.State.Store(uint32(StateDisconnecting))
		close(p.closeCh)
	})
}

// Done is closed when the peer shuts down
func (p *Peer) Done() <-chan struct{} { return p.closeCh }

// readLoop discards inbound frames and tracks liveness; a read error ends the peer
func (p *Peer) readLoop() {
	defer p.Close()

	p.conn.SetReadLimit(p.cfg.ReadLimit)
	_ = p.conn.SetReadDeadline(time.Now().Add(p.cfg.PongWait))
	p.conn.SetPongHandler(func(string) error {
		p.LastSeen.Store(time.Now().UnixNano())
		return p.conn.SetReadDeadline(time.Now().Add(p.cfg.PongWait))
	})

	for {
		if _, _, err := p.conn.ReadMessage(); err != nil {
			return
		}
		p.LastSeen.Store(time.Now().UnixNano())
		_ = p.conn.SetReadDeadline(time.Now().Add(p.cfg.PongWait))
	}
}

// writeLoop sends queued payloads and pings while idle
func (p *Peer) writeLoop() {
	defer p.conn.Close()
	defer p.Close()

	ping := time.NewTicker(p.cfg.PongWait / 2)
	defer ping.Stop()

	for {
		select {
		case <-p.closeCh:
			deadline := time.Now().Add(p.cfg.WriteTimeout)
			_ = p.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), deadline)
			return
		case data := <-p.sendCh:
			_ = p.conn.SetWriteDeadline(time.Now().Add(p.cfg.WriteTimeout))
			if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
			p.Sent.Add(1)
		case <-ping.C:
			if err := p.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(p.cfg.WriteTimeout)); err != nil {
				return
			}
		}
	}
}

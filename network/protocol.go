package network

import (
	"encoding/json"

	"github.com/lixenwraith/orbit-runner/engine"
)

// ProtocolVersion is stamped on every outbound message
const ProtocolVersion = 1

// MessageType identifies the semantic meaning of a message
type MessageType string

const (
	// MsgHello is the first message a peer receives
	MsgHello MessageType = "hello"
	// MsgSnapshot carries one engine tick
	MsgSnapshot MessageType = "snapshot"
	// MsgEvent carries a gameplay event worth surfacing to spectators
	MsgEvent MessageType = "event"
)

// Message is the JSON envelope on the wire
type Message struct {
	Ver  int         `json:"ver"`
	Type MessageType `json:"type"`
	Tick int64       `json:"tick,omitempty"`

	Peer     PeerID           `json:"peer,omitempty"`
	Snapshot *engine.Snapshot `json:"snapshot,omitempty"`
	Event    string           `json:"event,omitempty"`
}

// Encode marshals the message with the protocol version set
func (m Message) Encode() ([]byte, error) {
	m.Ver = ProtocolVersion
	return json.Marshal(m)
}

// EncodeSnapshot wraps a snapshot in an envelope
func EncodeSnapshot(snap engine.Snapshot) ([]byte, error) {
	return Message{Type: MsgSnapshot, Tick: snap.Tick, Snapshot: &snap}.Encode()
}

// Decode parses an envelope
func Decode(data []byte) (Message, error) {
	var m Message
	err := json.Unmarshal(data, &m)
	return m, err
}

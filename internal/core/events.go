package core

import (
	"encoding/json"

	"github.com/dkeye/Hearth/internal/domain"
	"github.com/pion/webrtc/v4"
)

type EventType string

// Inbound events.
const (
	EventCreateRoom      EventType = "createRoom"
	EventJoinRoom        EventType = "joinRoom"
	EventLeaveRoom       EventType = "leaveRoom"
	EventSetName         EventType = "setName"
	EventGetRoomUserList EventType = "getRoomUserList"
	EventWhoAmI          EventType = "whoami"
	EventPing            EventType = "ping"
)

// Outbound events.
const (
	EventWelcome             EventType = "welcome"
	EventRoomsList           EventType = "roomsList"
	EventRoomCreationFailed  EventType = "roomCreationFailed"
	EventRoomCreationPending EventType = "roomCreationPending"
	EventRoomCreationDone    EventType = "roomCreationDone"
	EventRoomJoined          EventType = "roomJoined"
	EventRoomJoinFailed      EventType = "roomJoinFailed"
	EventRoomLeft            EventType = "roomLeft"
	EventPeerConnect         EventType = "peerConnect"
	EventUserList            EventType = "userList"
	EventPeerDisconnect      EventType = "peerDisconnect"
	EventRoomUserPreview     EventType = "roomUserPreview"
	EventPong                EventType = "pong"
	EventError               EventType = "error"
)

// EventSignal travels both ways.
const EventSignal EventType = "signal"

// Envelope is the inbound frame shape. Data is decoded per Type.
type Envelope struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type outEnvelope struct {
	Type EventType `json:"type"`
	Data any       `json:"data,omitempty"`
}

// Encode builds an outbound frame.
func Encode(t EventType, data any) (Frame, error) {
	return json.Marshal(outEnvelope{Type: t, Data: data})
}

type CreateRoomRequest struct {
	RoomName string `json:"roomName"`
	Prompt   string `json:"prompt,omitempty"`
}

// SignalMessage is used for both directions of the relay. PeerID is the
// target on the way in and the sender on the way out. Signal is opaque.
type SignalMessage struct {
	Signal json.RawMessage  `json:"signal"`
	PeerID domain.SessionID `json:"peerId"`
}

type Welcome struct {
	PeerID     domain.SessionID   `json:"peerId"`
	ICEServers []webrtc.ICEServer `json:"iceServers"`
}

type RoomJoined struct {
	RoomName domain.SafeName `json:"roomName"`
	ImageURL string          `json:"imageURL"`
	UserList []domain.Member `json:"userList"`
}

type RoomRef struct {
	RoomName domain.SafeName `json:"roomName"`
}

type PeerConnect struct {
	PeerID domain.SessionID `json:"peerId"`
	Name   string           `json:"name"`
}

type PeerDisconnect struct {
	PeerID domain.SessionID `json:"peerId"`
}

type WhoAmI struct {
	PeerID domain.SessionID `json:"peerId"`
	Name   string           `json:"name"`
	Room   domain.SafeName  `json:"room,omitempty"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

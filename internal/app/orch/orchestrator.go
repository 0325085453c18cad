package orch

import (
	"context"
	"path"
	"path/filepath"
	"sync"

	"github.com/dkeye/Hearth/internal/app"
	"github.com/dkeye/Hearth/internal/core"
	"github.com/dkeye/Hearth/internal/domain"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBackgroundURL = "/default_background.png"
	DefaultRoomsURL      = "/rooms"
)

// Settings are the orchestrator's knobs that come from config.
type Settings struct {
	// RoomsURL is where the rooms directory is served over HTTP.
	RoomsURL string
	// DefaultBackgroundURL is handed out when a room has no background file.
	DefaultBackgroundURL string
	ICEServers           []webrtc.ICEServer
	// ReportJoinFailures answers a join for an unknown room with
	// roomJoinFailed instead of staying silent.
	ReportJoinFailures bool
}

// Orchestrator handles every inbound event to completion under one lock
// spanning both registries, so no event observes the other half-applied.
type Orchestrator struct {
	mu sync.Mutex

	Sessions *app.Registry
	Rooms    *app.RoomRegistry
	Presence *app.Presence
	Relay    *app.SignalRelay
	Store    core.RoomStore
	Persist  core.Persister
	Settings Settings
}

// New wires the registries, broadcaster and relay around a store.
func New(store core.RoomStore, persist core.Persister, settings Settings, opts ...app.RoomOption) *Orchestrator {
	sessions := app.NewRegistry()
	rooms := app.NewRoomRegistry(store, sessions, opts...)
	presence := &app.Presence{Sessions: sessions, Rooms: rooms, Policy: app.KickSlowConsumers{}}
	return &Orchestrator{
		Sessions: sessions,
		Rooms:    rooms,
		Presence: presence,
		Relay:    &app.SignalRelay{Presence: presence},
		Store:    store,
		Persist:  persist,
		Settings: settings,
	}
}

// LoadRooms seeds the room registry from the store. It runs once at startup.
func (o *Orchestrator) LoadRooms() error {
	records, err := o.Store.LoadAll()
	if err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	n := o.Rooms.Seed(records)
	log.Info().Str("module", "orch").Int("rooms", n).Msg("rooms seeded")
	return nil
}

// Connect registers a new session and sends it the welcome and room list.
func (o *Orchestrator) Connect(sid domain.SessionID, conn core.SignalConnection, cancel context.CancelFunc) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, err := o.Sessions.Create(sid, conn, cancel); err != nil {
		return err
	}
	o.Presence.SendTo(sid, core.EventWelcome, core.Welcome{PeerID: sid, ICEServers: o.iceServers()})
	o.Presence.SendTo(sid, core.EventRoomsList, o.Rooms.ListSummaries())
	log.Info().Str("module", "orch").Str("sid", string(sid)).Msg("connected")
	return nil
}

// Disconnect removes the session from its room, tells everyone the peer
// is gone and drops the session last. Unknown sessions are ignored.
func (o *Orchestrator) Disconnect(sid domain.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, ok := o.Sessions.Get(sid)
	if !ok {
		return
	}
	room := sess.CurrentRoom
	if room != "" {
		o.detach(sid, room)
	}

	if room != "" {
		o.Presence.BroadcastRoomMembers(room)
		o.persist(room)
	}
	o.Presence.BroadcastAll(core.EventPeerDisconnect, core.PeerDisconnect{PeerID: sid}, sid)
	o.Presence.BroadcastRoomSummaries(sid)

	_, _ = o.Sessions.Remove(sid)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room)).Msg("disconnected")
}

// RoomSummaries is the read side used by the HTTP API.
func (o *Orchestrator) RoomSummaries() []domain.RoomSummary {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Rooms.ListSummaries()
}

// RoomMembers returns the member list of a room, false if it does not exist.
func (o *Orchestrator) RoomMembers(name domain.SafeName) ([]domain.Member, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.Rooms.Exists(name) {
		return nil, false
	}
	return o.Rooms.MemberList(name), true
}

func (o *Orchestrator) ICEServers() []webrtc.ICEServer {
	return o.iceServers()
}

func (o *Orchestrator) iceServers() []webrtc.ICEServer {
	if o.Settings.ICEServers == nil {
		return []webrtc.ICEServer{}
	}
	return o.Settings.ICEServers
}

// detach clears both sides of a membership.
func (o *Orchestrator) detach(sid domain.SessionID, room domain.SafeName) {
	_ = o.Rooms.RemoveMember(room, sid)
	_ = o.Sessions.SetRoom(sid, "")
}

// persist rewrites the room record in the background.
func (o *Orchestrator) persist(room domain.SafeName) {
	if o.Persist == nil {
		return
	}
	if rec, ok := o.Rooms.Record(room); ok {
		o.Persist.Enqueue(rec)
	}
}

func (o *Orchestrator) backgroundURL(room domain.SafeName) string {
	if o.Store != nil {
		if p, ok := o.Store.BackgroundAssetPath(room); ok {
			prefix := o.Settings.RoomsURL
			if prefix == "" {
				prefix = DefaultRoomsURL
			}
			return path.Join(prefix, string(room), filepath.Base(p))
		}
	}
	if o.Settings.DefaultBackgroundURL != "" {
		return o.Settings.DefaultBackgroundURL
	}
	return DefaultBackgroundURL
}

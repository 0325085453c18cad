package app

import (
	"slices"

	"github.com/dkeye/Hearth/internal/core"
	"github.com/dkeye/Hearth/internal/domain"
	"github.com/rs/zerolog/log"
)

// Presence fans snapshots and notifications out to sessions. It only reads
// the registries; callers finish their mutations before calling it.
type Presence struct {
	Sessions *Registry
	Rooms    *RoomRegistry
	Policy   Policy
}

// SendTo delivers one event to one session. It reports false when the
// session is unknown or its connection refused the frame.
func (p *Presence) SendTo(sid domain.SessionID, t core.EventType, data any) bool {
	conn, ok := p.Sessions.Conn(sid)
	if !ok {
		return false
	}
	frame, err := core.Encode(t, data)
	if err != nil {
		log.Error().Err(err).Str("module", "app.presence").Str("type", string(t)).Msg("encode event")
		return false
	}
	return p.deliver(sid, conn, frame)
}

// BroadcastRoomSummaries sends the room list to every connected session
// except the ones in skip.
func (p *Presence) BroadcastRoomSummaries(skip ...domain.SessionID) {
	p.BroadcastAll(core.EventRoomsList, p.Rooms.ListSummaries(), skip...)
}

// BroadcastRoomMembers sends the member list of a room to its members only.
func (p *Presence) BroadcastRoomMembers(name domain.SafeName) {
	ids := p.Rooms.MemberIDs(name)
	if len(ids) == 0 {
		return
	}
	frame, err := core.Encode(core.EventUserList, p.Rooms.MemberList(name))
	if err != nil {
		log.Error().Err(err).Str("module", "app.presence").Msg("encode user list")
		return
	}
	for _, sid := range ids {
		if conn, ok := p.Sessions.Conn(sid); ok {
			p.deliver(sid, conn, frame)
		}
	}
	log.Debug().Str("module", "app.presence").Str("room", string(name)).Int("members", len(ids)).Msg("broadcast user list")
}

// BroadcastAll sends one event to every connected session except skip.
func (p *Presence) BroadcastAll(t core.EventType, data any, skip ...domain.SessionID) {
	frame, err := core.Encode(t, data)
	if err != nil {
		log.Error().Err(err).Str("module", "app.presence").Str("type", string(t)).Msg("encode event")
		return
	}
	sent := 0
	p.Sessions.Range(func(s domain.Session, conn core.SignalConnection) {
		if slices.Contains(skip, s.ID) {
			return
		}
		if p.deliver(s.ID, conn, frame) {
			sent++
		}
	})
	log.Debug().Str("module", "app.presence").Str("type", string(t)).Int("sent_to", sent).Msg("broadcast")
}

func (p *Presence) deliver(sid domain.SessionID, conn core.SignalConnection, frame core.Frame) bool {
	err := conn.TrySend(frame)
	if err == nil {
		return true
	}
	log.Warn().Err(err).Str("module", "app.presence").Str("sid", string(sid)).Msg("send refused")
	if p.Policy != nil && p.Policy.OnBackPressure(sid, err) == KickMember {
		p.Sessions.Cancel(sid)
	}
	return false
}

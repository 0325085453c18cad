package orch

import (
	"errors"
	"strings"

	"github.com/dkeye/Hearth/internal/core"
	"github.com/dkeye/Hearth/internal/domain"
	"github.com/rs/zerolog/log"
)

const collisionMessage = "A room with that name already exists (collision)."

// CreateRoom registers a new room for the requester. A collision or an
// invalid name is answered with roomCreationFailed and changes nothing.
// A failed metadata write is logged; the room stays usable in memory.
func (o *Orchestrator) CreateRoom(sid domain.SessionID, displayName, prompt string) (domain.SafeName, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	name := strings.TrimSpace(displayName)
	if err := domain.ValidateRoomName(name); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("room creation rejected")
		o.Presence.SendTo(sid, core.EventRoomCreationFailed, err.Error())
		return "", err
	}

	room, err := o.Rooms.Create(name, prompt)
	switch {
	case errors.Is(err, domain.ErrRoomExists):
		log.Error().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("room creation failed")
		o.Presence.SendTo(sid, core.EventRoomCreationFailed, collisionMessage)
		return "", err
	case err != nil:
		log.Error().Err(err).Str("module", "orch").Str("room", string(room.SafeName)).Msg("room created but not persisted")
	}

	o.Presence.SendTo(sid, core.EventRoomCreationPending, room.SafeName)
	o.Presence.BroadcastRoomSummaries()
	o.Presence.SendTo(sid, core.EventRoomCreationDone, room.SafeName)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room.SafeName)).Msg("room creation done")
	return room.SafeName, err
}

// Join runs the join sequence: leave the previous room, enter the new one,
// acknowledge, introduce every existing member to the newcomer and back,
// then rebroadcast. A join for an unknown room changes nothing.
func (o *Orchestrator) Join(sid domain.SessionID, name domain.SafeName) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, ok := o.Sessions.Get(sid)
	if !ok {
		return
	}
	if !o.Rooms.Exists(name) {
		log.Warn().Str("module", "orch").Str("sid", string(sid)).Str("room", string(name)).Msg("join for non-existent room")
		if o.Settings.ReportJoinFailures {
			o.Presence.SendTo(sid, core.EventRoomJoinFailed, core.RoomRef{RoomName: name})
		}
		return
	}

	prev := sess.CurrentRoom
	rejoin := prev == name
	left := prev != "" && !rejoin
	if left {
		o.detach(sid, prev)
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("from_room", string(prev)).Msg("left previous room")
	}
	if err := o.Rooms.AddMember(name, sid); err != nil {
		log.Error().Err(err).Str("module", "orch").Str("room", string(name)).Msg("add member")
		return
	}
	_ = o.Sessions.SetRoom(sid, name)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(name)).Bool("rejoin", rejoin).Msg("joined room")

	if left {
		o.Presence.BroadcastRoomMembers(prev)
		o.persist(prev)
	}

	members := o.Rooms.MemberList(name)
	o.Presence.SendTo(sid, core.EventRoomJoined, core.RoomJoined{
		RoomName: name,
		ImageURL: o.backgroundURL(name),
		UserList: members,
	})

	// A rejoin keeps the links the session already has.
	if !rejoin {
		newcomer := o.Sessions.DisplayName(sid)
		for _, m := range members {
			if m.ID == sid {
				continue
			}
			o.Presence.SendTo(m.ID, core.EventPeerConnect, core.PeerConnect{PeerID: sid, Name: newcomer})
		}
		for _, m := range members {
			if m.ID == sid {
				continue
			}
			o.Presence.SendTo(sid, core.EventPeerConnect, core.PeerConnect{PeerID: m.ID, Name: m.Name})
		}
	}

	o.Presence.BroadcastRoomMembers(name)
	o.Presence.BroadcastRoomSummaries()
}

// Leave takes the session back to the lobby. Former room mates get a
// peerDisconnect so they can drop their links to it.
func (o *Orchestrator) Leave(sid domain.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, ok := o.Sessions.Get(sid)
	if !ok {
		return
	}
	room := sess.CurrentRoom
	if room == "" {
		o.Presence.SendTo(sid, core.EventRoomLeft, core.RoomRef{})
		return
	}
	o.detach(sid, room)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room)).Msg("left room")

	o.Presence.BroadcastRoomMembers(room)
	for _, id := range o.Rooms.MemberIDs(room) {
		o.Presence.SendTo(id, core.EventPeerDisconnect, core.PeerDisconnect{PeerID: sid})
	}
	o.persist(room)
	o.Presence.SendTo(sid, core.EventRoomLeft, core.RoomRef{RoomName: room})
	o.Presence.BroadcastRoomSummaries()
}

// RoomUserPreview answers with the room's members, empty if it is unknown.
func (o *Orchestrator) RoomUserPreview(sid domain.SessionID, name domain.SafeName) {
	o.mu.Lock()
	defer o.mu.Unlock()
	log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("room", string(name)).Msg("preview requested")
	o.Presence.SendTo(sid, core.EventRoomUserPreview, o.Rooms.MemberList(name))
}

package orch

import (
	"github.com/dkeye/Hearth/internal/core"
	"github.com/dkeye/Hearth/internal/domain"
	"github.com/rs/zerolog/log"
)

// SetName renames the session and refreshes its room's member list.
func (o *Orchestrator) SetName(sid domain.SessionID, name string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.Sessions.SetName(sid, domain.NormalizeDisplayName(name)); err != nil {
		return
	}
	sess, _ := o.Sessions.Get(sid)
	if sess.InRoom() {
		o.Presence.BroadcastRoomMembers(sess.CurrentRoom)
	}
}

func (o *Orchestrator) WhoAmI(sid domain.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, ok := o.Sessions.Get(sid)
	if !ok {
		return
	}
	o.Presence.SendTo(sid, core.EventWhoAmI, core.WhoAmI{
		PeerID: sid,
		Name:   sess.DisplayName,
		Room:   sess.CurrentRoom,
	})
}

// Signal forwards a handshake payload. An absent target drops it silently.
func (o *Orchestrator) Signal(from domain.SessionID, msg core.SignalMessage) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.Relay.Relay(from, msg.PeerID, msg.Signal); err != nil {
		log.Debug().Err(err).Str("module", "orch").Str("sid", string(from)).Str("peer", string(msg.PeerID)).Msg("signal dropped")
	}
}

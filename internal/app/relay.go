package app

import (
	"encoding/json"

	"github.com/dkeye/Hearth/internal/core"
	"github.com/dkeye/Hearth/internal/domain"
	"github.com/rs/zerolog/log"
)

// SignalRelay forwards opaque handshake payloads between two sessions.
// Delivery is at most once; the payload is never inspected.
type SignalRelay struct {
	Presence *Presence
}

// Relay returns domain.ErrSessionNotFound when the target is gone. Callers
// drop the message without telling the sender.
func (r *SignalRelay) Relay(from, to domain.SessionID, payload json.RawMessage) error {
	if _, ok := r.Presence.Sessions.Get(to); !ok {
		log.Debug().Str("module", "app.relay").Str("from", string(from)).Str("to", string(to)).Msg("relay target absent")
		return domain.ErrSessionNotFound
	}
	r.Presence.SendTo(to, core.EventSignal, core.SignalMessage{Signal: payload, PeerID: from})
	log.Debug().Str("module", "app.relay").Str("from", string(from)).Str("to", string(to)).Msg("forwarded signal")
	return nil
}

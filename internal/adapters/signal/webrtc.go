package signal

import (
	"github.com/dkeye/Hearth/internal/core"
	"github.com/rs/zerolog/log"
)

// handleRelay forwards a peer handshake blob. Offers, answers and
// candidates all travel this way; the server never looks inside.
func (ctl *SignalWSController) handleRelay(cl client, env core.Envelope) {
	msg, err := decodeData[core.SignalMessage](env)
	if err != nil || msg.PeerID == "" {
		log.Error().Err(err).Str("module", "signal").Str("sid", string(cl.sid)).Msg("bad signal payload")
		ctl.sendError(cl.conn, "bad_payload")
		return
	}
	ctl.Orch.Signal(cl.sid, msg)
}

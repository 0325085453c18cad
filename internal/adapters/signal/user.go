package signal

import (
	"github.com/dkeye/Hearth/internal/core"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleSetName(cl client, env core.Envelope) {
	name, err := decodeData[string](env)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad setName payload")
		ctl.sendError(cl.conn, "bad_payload")
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(cl.sid)).Str("name", name).Msg("rename")
	ctl.Orch.SetName(cl.sid, name)
}

func (ctl *SignalWSController) handleWhoAmI(cl client) {
	ctl.Orch.WhoAmI(cl.sid)
}

package signal

import (
	"github.com/dkeye/Hearth/internal/core"
	"github.com/dkeye/Hearth/internal/domain"
	"github.com/rs/zerolog/log"
)

const rateLimitedMessage = "Too many rooms created, try again later."

func (ctl *SignalWSController) handleCreateRoom(cl client, env core.Envelope) {
	p, err := decodeData[core.CreateRoomRequest](env)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad createRoom payload")
		ctl.sendError(cl.conn, "bad_payload")
		return
	}
	key := cl.token
	if key == "" {
		key = string(cl.sid)
	}
	if ok, retry := ctl.Limiter.Reserve(key); !ok {
		log.Warn().Str("module", "signal").Str("sid", string(cl.sid)).Str("client", cl.token).Dur("retry_in", retry).Msg("room creation rate limited")
		ctl.sendJSON(cl.conn, core.EventRoomCreationFailed, rateLimitedMessage)
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(cl.sid)).Str("name", p.RoomName).Msg("create room")
	_, _ = ctl.Orch.CreateRoom(cl.sid, p.RoomName, p.Prompt)
}

func (ctl *SignalWSController) handleJoin(cl client, env core.Envelope) {
	name, err := decodeData[string](env)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad joinRoom payload")
		ctl.sendError(cl.conn, "bad_payload")
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(cl.sid)).Str("room", name).Msg("join")
	ctl.Orch.Join(cl.sid, domain.SafeName(name))
}

// handleLeave returns the session to the lobby; the connection stays open.
func (ctl *SignalWSController) handleLeave(cl client) {
	log.Info().Str("module", "signal").Str("sid", string(cl.sid)).Msg("leave")
	ctl.Orch.Leave(cl.sid)
}

func (ctl *SignalWSController) handlePreview(cl client, env core.Envelope) {
	name, err := decodeData[string](env)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad getRoomUserList payload")
		ctl.sendError(cl.conn, "bad_payload")
		return
	}
	ctl.Orch.RoomUserPreview(cl.sid, domain.SafeName(name))
}

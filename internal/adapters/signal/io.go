package signal

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dkeye/Hearth/internal/core"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var errMissingData = errors.New("missing data")

func (ctl *SignalWSController) pingPeriod() time.Duration {
	if ctl.PingPeriod <= 0 {
		return defaultPingPeriod
	}
	return ctl.PingPeriod
}

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.pingPeriod())
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, cl client) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(cl.sid)).Msg("readPump closing")
		cancel()
		ctl.Orch.Disconnect(cl.sid)
		cl.conn.Close()
	}()

	pongWait := ctl.pingPeriod() * 10 / 9
	if ctl.ReadLimit > 0 {
		cl.conn.conn.SetReadLimit(ctl.ReadLimit)
	}
	_ = cl.conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.conn.SetPongHandler(func(string) error {
		return cl.conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", string(cl.sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := cl.conn.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Error().Err(err).Str("module", "signal").Str("sid", string(cl.sid)).Msg("readPump read error")
				}
				return
			}
			_ = cl.conn.conn.SetReadDeadline(time.Now().Add(pongWait))
			ctl.handleSignal(cl, data)
		}
	}
}

func (ctl *SignalWSController) handleSignal(cl client, data []byte) {
	var env core.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", string(cl.sid)).Msg("bad json")
		ctl.sendError(cl.conn, "bad_json")
		return
	}

	switch env.Type {
	case core.EventCreateRoom:
		ctl.handleCreateRoom(cl, env)
	case core.EventJoinRoom:
		ctl.handleJoin(cl, env)
	case core.EventLeaveRoom:
		ctl.handleLeave(cl)
	case core.EventGetRoomUserList:
		ctl.handlePreview(cl, env)
	case core.EventSetName:
		ctl.handleSetName(cl, env)
	case core.EventWhoAmI:
		ctl.handleWhoAmI(cl)
	case core.EventSignal:
		ctl.handleRelay(cl, env)
	case core.EventPing:
		ctl.handlePing(cl.conn)
	default:
		log.Warn().Str("module", "signal").Str("type", string(env.Type)).Msg("unknown signal")
		ctl.sendError(cl.conn, "unknown_type")
	}
}

// decodeData unmarshals the envelope payload into T.
func decodeData[T any](env core.Envelope) (T, error) {
	var v T
	if len(env.Data) == 0 {
		return v, errMissingData
	}
	if err := json.Unmarshal(env.Data, &v); err != nil {
		return v, err
	}
	return v, nil
}

func (ctl *SignalWSController) sendJSON(c *WsSignalConn, t core.EventType, v any) {
	b, err := core.Encode(t, v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *SignalWSController) sendError(c *WsSignalConn, code string) {
	ctl.sendJSON(c, core.EventError, core.ErrorPayload{Error: code})
}

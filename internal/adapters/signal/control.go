package signal

import "github.com/dkeye/Hearth/internal/core"

// handlePing answers application-level keepalives. Websocket pings are
// handled by the pumps.
func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	ctl.sendJSON(conn, core.EventPong, nil)
}

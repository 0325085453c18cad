package app

import (
	"errors"

	"github.com/dkeye/Hearth/internal/core"
	"github.com/dkeye/Hearth/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
)

// Policy decides what happens to a session whose outbound frame was refused.
type Policy interface {
	OnBackPressure(sid domain.SessionID, err error) BackpressureAction
}

// KickSlowConsumers disconnects sessions that cannot keep up. A connection
// that is already closed is left to its own teardown.
type KickSlowConsumers struct{}

func (KickSlowConsumers) OnBackPressure(_ domain.SessionID, err error) BackpressureAction {
	if errors.Is(err, core.ErrBackpressure) {
		return KickMember
	}
	return NoAction
}

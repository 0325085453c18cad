package app

import (
	"context"

	"github.com/dkeye/Hearth/internal/core"
	"github.com/dkeye/Hearth/internal/domain"
	"github.com/rs/zerolog/log"
)

type sessionEntry struct {
	Session domain.Session
	Conn    core.SignalConnection
	Cancel  context.CancelFunc
}

// Registry tracks connected sessions. It is not safe for concurrent use;
// the orchestrator serializes every event that touches it.
type Registry struct {
	sessions map[domain.SessionID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[domain.SessionID]*sessionEntry),
	}
}

func (r *Registry) Create(sid domain.SessionID, conn core.SignalConnection, cancel context.CancelFunc) (domain.Session, error) {
	if _, ok := r.sessions[sid]; ok {
		return domain.Session{}, domain.ErrSessionExists
	}
	e := &sessionEntry{
		Session: domain.Session{ID: sid},
		Conn:    conn,
		Cancel:  cancel,
	}
	r.sessions[sid] = e
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("created session")
	return e.Session, nil
}

func (r *Registry) Get(sid domain.SessionID) (domain.Session, bool) {
	e, ok := r.sessions[sid]
	if !ok {
		return domain.Session{}, false
	}
	return e.Session, true
}

func (r *Registry) Conn(sid domain.SessionID) (core.SignalConnection, bool) {
	e, ok := r.sessions[sid]
	if !ok {
		return nil, false
	}
	return e.Conn, true
}

func (r *Registry) SetName(sid domain.SessionID, name string) error {
	e, ok := r.sessions[sid]
	if !ok {
		return domain.ErrSessionNotFound
	}
	e.Session.DisplayName = name
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("name", name).Msg("updated name")
	return nil
}

// SetRoom records the current room; an empty name means no room.
func (r *Registry) SetRoom(sid domain.SessionID, room domain.SafeName) error {
	e, ok := r.sessions[sid]
	if !ok {
		return domain.ErrSessionNotFound
	}
	e.Session.CurrentRoom = room
	log.Debug().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(room)).Msg("updated room")
	return nil
}

func (r *Registry) Remove(sid domain.SessionID) (domain.Session, error) {
	e, ok := r.sessions[sid]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	delete(r.sessions, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("removed session")
	return e.Session, nil
}

// DisplayName resolves the name others see, with the placeholder for
// unnamed or unknown sessions.
func (r *Registry) DisplayName(sid domain.SessionID) string {
	e, ok := r.sessions[sid]
	if !ok {
		return domain.AnonymousName
	}
	return e.Session.NameOrPlaceholder()
}

func (r *Registry) Len() int { return len(r.sessions) }

// Range calls fn for every session, in no particular order.
func (r *Registry) Range(fn func(s domain.Session, conn core.SignalConnection)) {
	for _, e := range r.sessions {
		fn(e.Session, e.Conn)
	}
}

// Cancel ends the session's connection context; the transport then runs
// the normal disconnect path.
func (r *Registry) Cancel(sid domain.SessionID) bool {
	e, ok := r.sessions[sid]
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("canceled session")
	return true
}

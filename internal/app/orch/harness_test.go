package orch

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/Hearth/internal/app"
	"github.com/dkeye/Hearth/internal/core"
	"github.com/dkeye/Hearth/internal/domain"
	"github.com/dkeye/Hearth/internal/store/fs"
	"github.com/stretchr/testify/require"
)

type event struct {
	Type core.EventType  `json:"type"`
	Data json.RawMessage `json:"data"`
}

type fakeConn struct {
	mu     sync.Mutex
	events []event
}

func (c *fakeConn) TrySend(f core.Frame) error {
	var e event
	if err := json.Unmarshal(f, &e); err != nil {
		return err
	}
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) Close() {}

func (c *fakeConn) all() []event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]event(nil), c.events...)
}

func (c *fakeConn) types() []core.EventType {
	var out []core.EventType
	for _, e := range c.all() {
		out = append(out, e.Type)
	}
	return out
}

func (c *fakeConn) ofType(t core.EventType) []json.RawMessage {
	var out []json.RawMessage
	for _, e := range c.all() {
		if e.Type == t {
			out = append(out, e.Data)
		}
	}
	return out
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	c.events = nil
	c.mu.Unlock()
}

type recordingPersister struct {
	mu      sync.Mutex
	records []domain.RoomRecord
}

func (p *recordingPersister) Enqueue(rec domain.RoomRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, rec)
}

func (p *recordingPersister) all() []domain.RoomRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.RoomRecord(nil), p.records...)
}

type harness struct {
	t       *testing.T
	o       *Orchestrator
	store   *fs.Store
	persist *recordingPersister
	conns   map[domain.SessionID]*fakeConn
}

func tickingClock() func() time.Time {
	now := time.UnixMilli(1_700_000_000_000)
	return func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	}
}

func newHarness(t *testing.T, settings Settings, opts ...app.RoomOption) *harness {
	t.Helper()
	store, err := fs.New(t.TempDir(), "")
	require.NoError(t, err)
	if len(opts) == 0 {
		opts = []app.RoomOption{app.WithClock(tickingClock())}
	}
	persist := &recordingPersister{}
	return &harness{
		t:       t,
		o:       New(store, persist, settings, opts...),
		store:   store,
		persist: persist,
		conns:   map[domain.SessionID]*fakeConn{},
	}
}

func (h *harness) connect(sids ...domain.SessionID) {
	h.t.Helper()
	for _, sid := range sids {
		c := &fakeConn{}
		require.NoError(h.t, h.o.Connect(sid, c, nil))
		h.conns[sid] = c
	}
}

func (h *harness) create(sid domain.SessionID, name string) domain.SafeName {
	h.t.Helper()
	safe, err := h.o.CreateRoom(sid, name, "")
	require.NoError(h.t, err)
	return safe
}

func (h *harness) resetAll() {
	for _, c := range h.conns {
		c.reset()
	}
}

// checkConsistency asserts that session.CurrentRoom and room membership
// describe the same relation.
func (h *harness) checkConsistency() {
	h.t.Helper()
	h.o.mu.Lock()
	defer h.o.mu.Unlock()

	h.o.Sessions.Range(func(s domain.Session, _ core.SignalConnection) {
		if s.CurrentRoom == "" {
			return
		}
		require.Contains(h.t, h.o.Rooms.MemberIDs(s.CurrentRoom), s.ID, "session %s claims room %s", s.ID, s.CurrentRoom)
	})
	for _, sum := range h.o.Rooms.ListSummaries() {
		for _, id := range h.o.Rooms.MemberIDs(sum.SafeName) {
			s, ok := h.o.Sessions.Get(id)
			require.True(h.t, ok, "room %s holds unknown session %s", sum.SafeName, id)
			require.Equal(h.t, sum.SafeName, s.CurrentRoom)
		}
	}
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

package orch

import (
	"encoding/json"
	"testing"

	"github.com/dkeye/Hearth/internal/core"
	"github.com/dkeye/Hearth/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisconnectOutsideRoom(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Settings{})
	h.connect("a", "b")
	x := h.create("a", "X")
	h.o.Join("b", x)
	h.resetAll()
	before := h.o.RoomSummaries()

	h.o.Disconnect("a")

	assert.Equal(t, []core.EventType{core.EventPeerDisconnect, core.EventRoomsList}, h.conns["b"].types())
	assert.Equal(t, before, h.o.RoomSummaries())
	assert.Empty(t, h.persist.all())

	// second disconnect is ignored
	h.resetAll()
	h.o.Disconnect("a")
	assert.Empty(t, h.conns["b"].all())
	h.checkConsistency()
}

func TestLeaveRoom(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Settings{})
	h.connect("a", "b", "c")
	x := h.create("a", "X")
	h.o.Join("a", x)
	h.o.Join("b", x)
	h.resetAll()

	h.o.Leave("b")
	h.checkConsistency()

	left := h.conns["b"].ofType(core.EventRoomLeft)
	require.Len(t, left, 1)
	assert.Equal(t, core.RoomRef{RoomName: x}, decode[core.RoomRef](t, left[0]))

	pd := h.conns["a"].ofType(core.EventPeerDisconnect)
	require.Len(t, pd, 1)
	assert.Equal(t, domain.SessionID("b"), decode[core.PeerDisconnect](t, pd[0]).PeerID)
	assert.Empty(t, h.conns["c"].ofType(core.EventPeerDisconnect))
	assert.Len(t, h.conns["c"].ofType(core.EventRoomsList), 1)

	s, ok := h.o.Sessions.Get("b")
	require.True(t, ok)
	assert.False(t, s.InRoom())
	assert.Equal(t, []domain.RoomRecord{{SafeName: x, DisplayName: "X"}}, h.persist.all())

	// leaving from the lobby only acknowledges
	h.resetAll()
	h.o.Leave("b")
	assert.Equal(t, []core.EventType{core.EventRoomLeft}, h.conns["b"].types())
	assert.Empty(t, h.conns["a"].all())
}

func TestSetNameRebroadcastsRoom(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Settings{})
	h.connect("a", "b", "c")
	x := h.create("a", "X")
	h.o.Join("a", x)
	h.o.Join("b", x)
	h.resetAll()

	h.o.SetName("b", "  Bob  ")

	for _, sid := range []domain.SessionID{"a", "b"} {
		ul := h.conns[sid].ofType(core.EventUserList)
		require.Len(t, ul, 1, sid)
		assert.Equal(t, []domain.Member{
			{ID: "a", Name: domain.AnonymousName},
			{ID: "b", Name: "Bob"},
		}, decode[[]domain.Member](t, ul[0]))
	}
	assert.Empty(t, h.conns["c"].all())

	// lobby rename is silent
	h.resetAll()
	h.o.SetName("c", "Carol")
	assert.Empty(t, h.conns["a"].all())
	assert.Empty(t, h.conns["c"].all())
	assert.Equal(t, "Carol", h.o.Sessions.DisplayName("c"))
}

func TestWhoAmI(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Settings{})
	h.connect("a")
	x := h.create("a", "X")
	h.o.SetName("a", "Alice")
	h.o.Join("a", x)
	h.resetAll()

	h.o.WhoAmI("a")
	got := h.conns["a"].ofType(core.EventWhoAmI)
	require.Len(t, got, 1)
	assert.Equal(t, core.WhoAmI{PeerID: "a", Name: "Alice", Room: x}, decode[core.WhoAmI](t, got[0]))
}

func TestSignalRelay(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Settings{})
	h.connect("a", "b")
	h.resetAll()

	payload := json.RawMessage(`{"type":"offer","sdp":"v=0"}`)
	h.o.Signal("a", core.SignalMessage{Signal: payload, PeerID: "b"})

	got := h.conns["b"].ofType(core.EventSignal)
	require.Len(t, got, 1)
	msg := decode[core.SignalMessage](t, got[0])
	assert.Equal(t, domain.SessionID("a"), msg.PeerID)
	assert.JSONEq(t, string(payload), string(msg.Signal))
	assert.Empty(t, h.conns["a"].all())

	// absent target: nothing either side
	h.o.Signal("a", core.SignalMessage{Signal: payload, PeerID: "gone"})
	assert.Empty(t, h.conns["a"].all())
	assert.Len(t, h.conns["b"].all(), 1)
}

func TestRoomUserPreview(t *testing.T) {
	t.Parallel()

	h := newHarness(t, Settings{})
	h.connect("a", "b")
	x := h.create("a", "X")
	h.o.Join("a", x)
	h.resetAll()

	h.o.RoomUserPreview("b", x)
	h.o.RoomUserPreview("b", "nope")

	got := h.conns["b"].ofType(core.EventRoomUserPreview)
	require.Len(t, got, 2)
	assert.Equal(t, []domain.Member{{ID: "a", Name: domain.AnonymousName}}, decode[[]domain.Member](t, got[0]))
	assert.JSONEq(t, `[]`, string(got[1]))
	assert.Empty(t, h.conns["a"].all())
}

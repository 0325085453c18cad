package app

import (
	"testing"

	"github.com/dkeye/Hearth/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCreateRejectsDuplicate(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	s, err := r.Create("a", &fakeConn{}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionID("a"), s.ID)
	assert.Empty(t, s.DisplayName)
	assert.False(t, s.InRoom())

	_, err = r.Create("a", &fakeConn{}, nil)
	assert.ErrorIs(t, err, domain.ErrSessionExists)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryUnknownSessionIsNotFound(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	assert.ErrorIs(t, r.SetName("ghost", "x"), domain.ErrSessionNotFound)
	assert.ErrorIs(t, r.SetRoom("ghost", "room"), domain.ErrSessionNotFound)
	_, err := r.Remove("ghost")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, ok := r.Get("ghost")
	assert.False(t, ok)
	assert.False(t, r.Cancel("ghost"))
	assert.Equal(t, domain.AnonymousName, r.DisplayName("ghost"))
}

func TestRegistryNameAndRoom(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	_, err := r.Create("a", &fakeConn{}, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.AnonymousName, r.DisplayName("a"))
	require.NoError(t, r.SetName("a", "Alice"))
	require.NoError(t, r.SetRoom("a", "den_1"))

	s, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "Alice", s.DisplayName)
	assert.Equal(t, domain.SafeName("den_1"), s.CurrentRoom)
	assert.Equal(t, "Alice", r.DisplayName("a"))

	removed, err := r.Remove("a")
	require.NoError(t, err)
	assert.Equal(t, "Alice", removed.DisplayName)
	assert.Zero(t, r.Len())
}

func TestRegistryCancelCallsCancelFunc(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	called := false
	_, err := r.Create("a", &fakeConn{}, func() { called = true })
	require.NoError(t, err)

	assert.True(t, r.Cancel("a"))
	assert.True(t, called)
}

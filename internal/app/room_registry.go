package app

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dkeye/Hearth/internal/core"
	"github.com/dkeye/Hearth/internal/domain"
	"github.com/rs/zerolog/log"
)

var unsafeChars = regexp.MustCompile(`[^a-z0-9_-]`)

// NameResolver maps a session id to the name shown in member lists.
type NameResolver interface {
	DisplayName(sid domain.SessionID) string
}

type RoomOption func(*RoomRegistry)

// WithClock replaces the wall clock used for safe-name disambiguators.
func WithClock(now func() time.Time) RoomOption {
	return func(r *RoomRegistry) { r.now = now }
}

// RoomRegistry is the in-memory set of rooms and their live membership.
// Like Registry it relies on the orchestrator for serialization.
type RoomRegistry struct {
	store core.RoomStore
	names NameResolver
	now   func() time.Time

	rooms map[domain.SafeName]*domain.Room
	order []domain.SafeName
}

func NewRoomRegistry(store core.RoomStore, names NameResolver, opts ...RoomOption) *RoomRegistry {
	r := &RoomRegistry{
		store: store,
		names: names,
		now:   time.Now,
		rooms: make(map[domain.SafeName]*domain.Room),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Seed adds persisted rooms with empty membership. Duplicates are ignored.
func (r *RoomRegistry) Seed(records []domain.RoomRecord) int {
	n := 0
	for _, rec := range records {
		if _, ok := r.rooms[rec.SafeName]; ok {
			continue
		}
		r.insert(&domain.Room{SafeName: rec.SafeName, DisplayName: rec.DisplayName, Prompt: rec.Prompt})
		n++
	}
	return n
}

// GenerateSafeName lowercases, joins whitespace runs with "_", drops
// everything outside [a-z0-9_-] and appends the current unix millis.
func (r *RoomRegistry) GenerateSafeName(displayName string) domain.SafeName {
	base := strings.Join(strings.Fields(strings.ToLower(displayName)), "_")
	base = unsafeChars.ReplaceAllString(base, "")
	name := domain.SafeName(fmt.Sprintf("%s_%d", base, r.now().UnixMilli()))
	log.Debug().Str("module", "app.rooms").Str("room", string(name)).Msg("generated safe name")
	return name
}

// Create registers a room and writes its record. A persistence failure is
// returned wrapped in domain.ErrNotPersisted together with the room, which
// stays registered.
func (r *RoomRegistry) Create(displayName, prompt string) (domain.Room, error) {
	name := r.GenerateSafeName(displayName)
	if _, ok := r.rooms[name]; ok {
		log.Warn().Str("module", "app.rooms").Str("room", string(name)).Msg("safe name collision")
		return domain.Room{}, fmt.Errorf("%w: %s", domain.ErrRoomExists, name)
	}
	room := &domain.Room{SafeName: name, DisplayName: displayName, Prompt: prompt}
	r.insert(room)
	log.Info().Str("module", "app.rooms").Str("room", string(name)).Str("display_name", displayName).Msg("room created")

	if r.store != nil {
		if err := r.store.Save(room.Record()); err != nil {
			return room.Clone(), fmt.Errorf("%w: %w", domain.ErrNotPersisted, err)
		}
	}
	return room.Clone(), nil
}

func (r *RoomRegistry) insert(room *domain.Room) {
	r.rooms[room.SafeName] = room
	r.order = append(r.order, room.SafeName)
}

func (r *RoomRegistry) Get(name domain.SafeName) (domain.Room, bool) {
	room, ok := r.rooms[name]
	if !ok {
		return domain.Room{}, false
	}
	return room.Clone(), true
}

func (r *RoomRegistry) Exists(name domain.SafeName) bool {
	_, ok := r.rooms[name]
	return ok
}

func (r *RoomRegistry) Len() int { return len(r.rooms) }

// ListSummaries returns rooms in creation order (load order for seeded rooms).
func (r *RoomRegistry) ListSummaries() []domain.RoomSummary {
	out := make([]domain.RoomSummary, 0, len(r.order))
	for _, name := range r.order {
		room := r.rooms[name]
		out = append(out, domain.RoomSummary{
			SafeName:    room.SafeName,
			DisplayName: room.DisplayName,
			Count:       len(room.MemberIDs),
		})
	}
	return out
}

// AddMember appends sid unless it is already a member.
func (r *RoomRegistry) AddMember(name domain.SafeName, sid domain.SessionID) error {
	room, ok := r.rooms[name]
	if !ok {
		return domain.ErrRoomNotFound
	}
	if room.HasMember(sid) {
		return nil
	}
	room.MemberIDs = append(room.MemberIDs, sid)
	log.Info().Str("module", "app.rooms").Str("room", string(name)).Str("sid", string(sid)).Msg("member added")
	return nil
}

// RemoveMember is a no-op when sid is not a member.
func (r *RoomRegistry) RemoveMember(name domain.SafeName, sid domain.SessionID) error {
	room, ok := r.rooms[name]
	if !ok {
		return domain.ErrRoomNotFound
	}
	for i, id := range room.MemberIDs {
		if id == sid {
			room.MemberIDs = append(room.MemberIDs[:i], room.MemberIDs[i+1:]...)
			log.Info().Str("module", "app.rooms").Str("room", string(name)).Str("sid", string(sid)).Msg("member removed")
			break
		}
	}
	return nil
}

// MemberIDs returns a copy of the membership in join order.
func (r *RoomRegistry) MemberIDs(name domain.SafeName) []domain.SessionID {
	room, ok := r.rooms[name]
	if !ok {
		return nil
	}
	return room.Clone().MemberIDs
}

// MemberList resolves names in join order. Unknown rooms give an empty list.
func (r *RoomRegistry) MemberList(name domain.SafeName) []domain.Member {
	room, ok := r.rooms[name]
	if !ok {
		return []domain.Member{}
	}
	out := make([]domain.Member, 0, len(room.MemberIDs))
	for _, sid := range room.MemberIDs {
		out = append(out, domain.Member{ID: sid, Name: r.names.DisplayName(sid)})
	}
	return out
}

func (r *RoomRegistry) Record(name domain.SafeName) (domain.RoomRecord, bool) {
	room, ok := r.rooms[name]
	if !ok {
		return domain.RoomRecord{}, false
	}
	return room.Record(), true
}

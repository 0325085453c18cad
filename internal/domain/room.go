package domain

import (
	"slices"
	"strings"
	"unicode/utf8"
)

const MaxRoomNameLen = 64

// SafeName is the immutable filesystem- and URL-safe room identifier.
type SafeName string

// Valid reports whether the name can be used as a single path element.
func (n SafeName) Valid() bool {
	s := string(n)
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, `/\`)
}

type Room struct {
	SafeName    SafeName
	DisplayName string
	Prompt      string
	// MemberIDs is in join order and never holds duplicates.
	MemberIDs []SessionID
}

func (r *Room) HasMember(id SessionID) bool {
	return slices.Contains(r.MemberIDs, id)
}

// Record is the durable subset of the room.
func (r *Room) Record() RoomRecord {
	return RoomRecord{SafeName: r.SafeName, DisplayName: r.DisplayName, Prompt: r.Prompt}
}

// Clone returns a copy that does not share the membership slice.
func (r *Room) Clone() Room {
	c := *r
	c.MemberIDs = slices.Clone(r.MemberIDs)
	return c
}

// RoomRecord is what gets written to disk. Membership is never persisted.
type RoomRecord struct {
	SafeName    SafeName `json:"-"`
	DisplayName string   `json:"displayName"`
	Prompt      string   `json:"prompt"`
}

type RoomSummary struct {
	SafeName    SafeName `json:"safeName"`
	DisplayName string   `json:"displayName"`
	Count       int      `json:"count"`
}

// Member is the public view of a room occupant.
type Member struct {
	ID   SessionID `json:"id"`
	Name string    `json:"name"`
}

// ValidateRoomName checks a trimmed display name for a new room.
func ValidateRoomName(name string) error {
	if name == "" {
		return ErrRoomNameEmpty
	}
	if utf8.RuneCountInString(name) > MaxRoomNameLen {
		return ErrRoomNameTooLong
	}
	return nil
}

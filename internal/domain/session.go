// Package domain contains entity without logic, just meta-data
package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxDisplayNameLen = 36
	AnonymousName     = "Anonymous"
)

// SessionID is assigned by the transport layer and is unique for the
// lifetime of one connection.
type SessionID string

// Session is one connected participant.
// CurrentRoom is empty while the session is in the lobby.
type Session struct {
	ID          SessionID
	DisplayName string
	CurrentRoom SafeName
}

// InRoom reports whether the session currently belongs to a room.
func (s Session) InRoom() bool { return s.CurrentRoom != "" }

// NameOrPlaceholder is the name other participants see.
func (s Session) NameOrPlaceholder() string {
	if s.DisplayName == "" {
		return AnonymousName
	}
	return s.DisplayName
}

// NormalizeDisplayName trims surrounding whitespace and caps the length
// at MaxDisplayNameLen runes. An empty result is allowed.
func NormalizeDisplayName(name string) string {
	return truncateRunes(strings.TrimSpace(name), MaxDisplayNameLen)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

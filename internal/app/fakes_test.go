package app

import (
	"encoding/json"
	"sync"

	"github.com/dkeye/Hearth/internal/core"
	"github.com/dkeye/Hearth/internal/domain"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	refuse bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.refuse {
		return core.ErrBackpressure
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {}

type event struct {
	Type core.EventType `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (c *fakeConn) events() []event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]event, 0, len(c.frames))
	for _, f := range c.frames {
		var e event
		if err := json.Unmarshal(f, &e); err == nil {
			out = append(out, e)
		}
	}
	return out
}

type memStore struct {
	saved []domain.RoomRecord
	err   error
}

func (s *memStore) LoadAll() ([]domain.RoomRecord, error) { return s.saved, nil }

func (s *memStore) Save(rec domain.RoomRecord) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, rec)
	return nil
}

func (s *memStore) BackgroundAssetPath(domain.SafeName) (string, bool) { return "", false }

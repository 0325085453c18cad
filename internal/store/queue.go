// Package store holds persistence plumbing shared by the room stores.
package store

import (
	"context"
	"sync"

	"github.com/dkeye/Hearth/internal/core"
	"github.com/dkeye/Hearth/internal/domain"
	"github.com/rs/zerolog/log"
)

const DefaultQueueSize = 256

type Saver interface {
	Save(rec domain.RoomRecord) error
}

// Queue serializes metadata writes on one goroutine, so writes for the
// same room land in the order they were enqueued.
type Queue struct {
	saver Saver
	ch    chan domain.RoomRecord
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

var _ core.Persister = (*Queue)(nil)

func NewQueue(saver Saver, size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	q := &Queue{
		saver: saver,
		ch:    make(chan domain.RoomRecord, size),
		done:  make(chan struct{}),
	}
	go q.loop()
	return q
}

func (q *Queue) loop() {
	defer close(q.done)
	for rec := range q.ch {
		if err := q.saver.Save(rec); err != nil {
			log.Error().Err(err).Str("module", "store.queue").Str("room", string(rec.SafeName)).Msg("metadata write failed")
		}
	}
}

// Enqueue never blocks. A full queue drops the write with a warning.
func (q *Queue) Enqueue(rec domain.RoomRecord) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		log.Warn().Str("module", "store.queue").Str("room", string(rec.SafeName)).Msg("queue closed, write dropped")
		return
	}
	select {
	case q.ch <- rec:
	default:
		log.Warn().Str("module", "store.queue").Str("room", string(rec.SafeName)).Msg("queue full, write dropped")
	}
}

// Close stops accepting writes and waits for pending ones until ctx ends.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Package store owns the in-memory snapshot of all upstream messages.
//
// The snapshot is populated exactly once at startup and is immutable
// afterwards, so any number of concurrent readers may scan it without locking.
package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/november7/message-search/internal/model"
)

// Source returns the full message collection from the upstream API.
// Implemented by upstream.Client; tests supply fakes.
type Source interface {
	FetchAll(ctx context.Context) ([]model.Message, error)
}

// Store holds the canonical message snapshot.
type Store struct {
	// snapshot is nil until Load succeeds. Published with a single atomic
	// store, so readers observe either nothing or the complete collection.
	snapshot atomic.Pointer[[]model.Message]

	loadMu sync.Mutex
	log    zerolog.Logger
}

// New creates an empty, not-ready store.
func New(log zerolog.Logger) *Store {
	return &Store{log: log}
}

// Load drains src completely and publishes the result. All-or-nothing: on any
// failure the store stays empty and not-ready. The contract is one successful
// Load per process lifetime; a second call is rejected.
func (s *Store) Load(ctx context.Context, src Source) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.snapshot.Load() != nil {
		return fmt.Errorf("store already loaded")
	}

	msgs, err := src.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}

	s.snapshot.Store(&msgs)
	s.log.Info().Int("messages", len(msgs)).Msg("message cache populated")
	return nil
}

// All returns the full snapshot in stored order, or ErrNotReady before a
// successful Load. Callers must treat the returned slice as read-only.
func (s *Store) All() ([]model.Message, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, model.ErrNotReady
	}
	return *snap, nil
}

// Ready reports whether Load has succeeded.
func (s *Store) Ready() bool {
	return s.snapshot.Load() != nil
}

// Len returns the number of cached messages, 0 when not ready.
func (s *Store) Len() int {
	snap := s.snapshot.Load()
	if snap == nil {
		return 0
	}
	return len(*snap)
}

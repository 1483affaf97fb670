// Package store owns the single in-memory copy of the briefing state and its
// persistence.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/Raimguhinov/briefing-go/internal/briefing"
	"github.com/Raimguhinov/briefing-go/internal/observability/metrics"
	"github.com/Raimguhinov/briefing-go/pkg/logger"
)

// Repository persists the state record as one atomic unit.
type Repository interface {
	// Load returns the persisted state, or an empty state when nothing has
	// been written yet.
	Load(ctx context.Context) (briefing.State, error)
	Save(ctx context.Context, st briefing.State) error
	Close() error
}

// Store is the single source of truth for alarms and notifications.
type Store struct {
	mu    sync.Mutex
	repo  Repository
	state briefing.State
	log   *logger.Logger
}

// Open loads the persisted state from repo.
func Open(ctx context.Context, repo Repository, l *logger.Logger) (*Store, error) {
	st, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("store - Open - repo.Load: %w", err)
	}
	l = l.Component("store")
	l.Info("state loaded",
		"next_id", st.NextID,
		"pending", len(st.Pending),
		"fired", len(st.Fired),
		"notifications", len(st.Notifications),
	)
	return &Store{
		repo:  repo,
		state: st.Clone(),
		log:   l,
	}, nil
}

// Apply runs fn against a copy of the state. When the returned intents ask
// for persistence the copy is saved and, only once the save succeeded,
// becomes the current state. On a save failure the current state is left
// untouched and a persistence error is returned.
func (s *Store) Apply(ctx context.Context, op string, fn func(*briefing.State) []briefing.Intent) ([]briefing.Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	intents := fn(&next)
	if !briefing.NeedsPersist(intents) {
		return intents, nil
	}

	if err := s.repo.Save(ctx, next); err != nil {
		metrics.IncPersistenceFailure(op)
		s.log.Error("save state", "operation", op, logger.Err(err))
		return nil, briefing.Wrap(err, briefing.ErrPersistence, op+": state was not saved")
	}

	s.state = next
	return intents, nil
}

// Reset replaces the state with an empty one and restarts ids at zero.
func (s *Store) Reset(ctx context.Context) ([]briefing.Intent, error) {
	return s.Apply(ctx, "reset", func(st *briefing.State) []briefing.Intent {
		return st.Reset()
	})
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() briefing.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Clone()
}

// Close releases the repository.
func (s *Store) Close() error {
	return s.repo.Close()
}

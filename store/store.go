// Package store keeps the signed-in user's rounds in memory, synchronized with a persistence backend
package store

import (
	"context"
	"sync"

	"github.com/go-generalize/golf-score-memo/model"
	"github.com/go-generalize/golf-score-memo/repository"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

// Persistence is the remote collection of one user's rounds
type Persistence interface {
	Watch(ctx context.Context, fn func([]*model.Round)) (func(), error)
	Upsert(ctx context.Context, id string, doc repository.Document) error
	Delete(ctx context.Context, id string) error
}

var (
	// ErrAlreadyStarted is returned when a second remote subscription is requested
	ErrAlreadyStarted = xerrors.New("round store is already subscribed")
	// ErrNotFound is returned for an unknown round id
	ErrNotFound = xerrors.New("round not found")
)

// Store is the in-memory round list. Remote snapshots always replace local state.
type Store struct {
	persistence Persistence
	logger      *zap.Logger

	mu        sync.RWMutex
	rounds    []*model.Round
	synced    bool
	syncedCh  chan struct{}
	listeners map[int]func([]*model.Round)
	nextID    int

	// running is set from Start until Stop. stop stays nil while Watch is being opened.
	running       bool
	stop          func()
	stopRequested bool
}

// New returns a store backed by p
func New(p Persistence, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{
		persistence: p,
		logger:      logger,
		syncedCh:    make(chan struct{}),
		listeners:   make(map[int]func([]*model.Round)),
	}
}

// Start opens the remote subscription. Only one may be active; Stop must be called when the session ends.
func (s *Store) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.running = true
	s.stopRequested = false
	s.mu.Unlock()

	stop, err := s.persistence.Watch(ctx, s.apply)

	s.mu.Lock()
	if err != nil {
		s.running = false
		s.mu.Unlock()
		return xerrors.Errorf("failed to watch rounds: %w", err)
	}
	if s.stopRequested {
		// Watch の途中で Stop された
		s.running = false
		s.stopRequested = false
		s.mu.Unlock()

		stop()
		return nil
	}
	s.stop = stop
	s.mu.Unlock()

	return nil
}

// Stop closes the remote subscription and waits for in-flight deliveries.
// Called while Start is still opening the subscription, it makes Start close it.
func (s *Store) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	stop := s.stop
	if stop == nil {
		s.stopRequested = true
		s.mu.Unlock()
		return
	}
	s.stop = nil
	s.running = false
	s.mu.Unlock()

	stop()
}

func cloneAll(rounds []*model.Round) []*model.Round {
	res := make([]*model.Round, len(rounds))
	for i, r := range rounds {
		res[i] = r.Clone()
	}
	return res
}

// apply replaces the local list with a remote snapshot
func (s *Store) apply(rounds []*model.Round) {
	rounds = cloneAll(rounds)
	repository.SortRounds(rounds)

	s.mu.Lock()
	s.rounds = rounds
	if !s.synced {
		s.synced = true
		close(s.syncedCh)
	}
	s.mu.Unlock()

	s.logger.Debug("rounds synced", zap.Int("count", len(rounds)))
	s.publish()
}

func (s *Store) publish() {
	s.mu.RLock()
	fns := make([]func([]*model.Round), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(s.Rounds())
	}
}

// Subscribe registers fn for every change of the list. The current list is delivered first if already synced.
func (s *Store) Subscribe(fn func([]*model.Round)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	synced := s.synced
	s.mu.Unlock()

	if synced {
		fn(s.Rounds())
	}

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Rounds returns a copy of the list, most recently updated first
func (s *Store) Rounds() []*model.Round {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.rounds)
}

// Get returns a copy of the round with the given id
func (s *Store) Get(id string) (*model.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.rounds {
		if r.ID == id {
			return r.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

// InProgress returns the round being played, or nil
func (s *Store) InProgress() *model.Round {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.rounds {
		if r.InProgress {
			return r.Clone()
		}
	}
	return nil
}

// Synced reports whether the first remote snapshot has arrived
func (s *Store) Synced() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.synced
}

// WaitSynced blocks until the first remote snapshot has arrived or ctx is done
func (s *Store) WaitSynced(ctx context.Context) error {
	select {
	case <-s.syncedCh:
		return nil
	case <-ctx.Done():
		return xerrors.Errorf("failed to wait for first sync: %w", ctx.Err())
	}
}

// Save updates the local list optimistically and writes the whole round through.
// A failed write is returned but the local update is kept.
func (s *Store) Save(ctx context.Context, r *model.Round) error {
	if r == nil || r.ID == "" {
		return xerrors.New("round must have an id")
	}
	local := r.Clone()

	s.mu.Lock()
	replaced := false
	for i, cur := range s.rounds {
		if cur.ID == local.ID {
			s.rounds[i] = local
			replaced = true
			break
		}
	}
	if !replaced {
		s.rounds = append(s.rounds, local)
	}
	repository.SortRounds(s.rounds)
	s.mu.Unlock()

	s.publish()

	if err := s.persistence.Upsert(ctx, r.ID, repository.EncodeRound(r)); err != nil {
		s.logger.Error("failed to save round", zap.String("id", r.ID), zap.Error(err))
		return xerrors.Errorf("failed to save round: %w", err)
	}

	return nil
}

// Remove deletes the round remotely and then from the local list
func (s *Store) Remove(ctx context.Context, id string) error {
	if err := s.persistence.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete round", zap.String("id", id), zap.Error(err))
		return xerrors.Errorf("failed to delete round: %w", err)
	}

	s.mu.Lock()
	kept := s.rounds[:0]
	for _, r := range s.rounds {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.rounds = kept
	s.mu.Unlock()

	s.publish()

	return nil
}

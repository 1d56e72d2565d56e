package database

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/lawnchairsociety/questcore/internal/quest"
)

// ProgressStore caches loaded player progress in front of the database.
// Saves write through; completion records go straight to the database so
// the engine can treat them as committed.
type ProgressStore struct {
	db    *Database
	cache *lru.Cache
}

// NewProgressStore creates a store that keeps up to size characters in memory.
func NewProgressStore(db *Database, size int) (*ProgressStore, error) {
	if size <= 0 {
		size = 256
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create progress cache: %w", err)
	}
	return &ProgressStore{db: db, cache: cache}, nil
}

// Load returns a character's progress, from the cache when possible.
func (s *ProgressStore) Load(ctx context.Context, characterID int) (*PlayerProgress, error) {
	if cached, ok := s.cache.Get(characterID); ok {
		return cached.(*PlayerProgress), nil
	}
	p, err := s.db.LoadPlayerProgress(ctx, characterID)
	if err != nil {
		return nil, err
	}
	s.cache.Add(characterID, p)
	return p, nil
}

// Save caches a character's progress and writes it to the database.
func (s *ProgressStore) Save(ctx context.Context, characterID int, p *PlayerProgress) error {
	s.cache.Add(characterID, p)
	return s.db.SavePlayerProgress(ctx, characterID, p)
}

// SaveCompletion implements engine.CompletionStore.
func (s *ProgressStore) SaveCompletion(ctx context.Context, characterID int, rec *quest.Completion) error {
	return s.db.SaveCompletion(ctx, characterID, rec)
}

// Evict drops a character from the cache, e.g. on logout.
func (s *ProgressStore) Evict(characterID int) {
	s.cache.Remove(characterID)
}

// Len returns the number of cached characters.
func (s *ProgressStore) Len() int {
	return s.cache.Len()
}

// Package memory is an in-process session store used in tests and when the
// service runs without Redis.
package memory

import (
	"context"
	"sync"

	"vrf-raffle-backend/internal/features/session/models"
	"vrf-raffle-backend/internal/features/session/repository"
)

type memoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]*models.CommitRevealRecord
}

func NewMemorySessionRepository() repository.Repository {
	return &memoryRepository{sessions: make(map[string]*models.CommitRevealRecord)}
}

func (r *memoryRepository) Create(_ context.Context, record *models.CommitRevealRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[record.SessionID]; exists {
		return repository.ErrSessionExists
	}
	clone := *record
	r.sessions[record.SessionID] = &clone
	return nil
}

func (r *memoryRepository) Get(_ context.Context, sessionID string) (*models.CommitRevealRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.sessions[sessionID]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	clone := *record
	return &clone, nil
}

func (r *memoryRepository) MarkRevealed(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.sessions[sessionID]
	if !ok {
		return repository.ErrSessionNotFound
	}
	if record.Revealed {
		return repository.ErrAlreadyRevealed
	}
	record.Revealed = true
	return nil
}

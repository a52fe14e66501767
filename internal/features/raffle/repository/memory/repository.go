// Package memory is an in-process raffle store used in tests and when the
// service runs without Redis.
package memory

import (
	"context"
	"sync"
	"time"

	attmodels "vrf-raffle-backend/internal/features/attestation/models"
	"vrf-raffle-backend/internal/features/raffle/models"
	"vrf-raffle-backend/internal/features/raffle/repository"
)

type memoryRepository struct {
	mu           sync.RWMutex
	scores       map[string][]models.DailyScore
	attestations map[string][]attmodels.ScoreAttestationRecord
	results      map[string]*models.RaffleResult
	entries      map[string][]models.QualifiedEntry
	locks        map[string]time.Time
}

func NewMemoryRaffleRepository() repository.Repository {
	return &memoryRepository{
		scores:       make(map[string][]models.DailyScore),
		attestations: make(map[string][]attmodels.ScoreAttestationRecord),
		results:      make(map[string]*models.RaffleResult),
		entries:      make(map[string][]models.QualifiedEntry),
		locks:        make(map[string]time.Time),
	}
}

func (r *memoryRepository) SaveScore(_ context.Context, score *models.DailyScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	day := score.Timestamp.UTC().Format("2006-01-02")
	r.scores[day] = append(r.scores[day], *score)
	return nil
}

func (r *memoryRepository) LoadDayScores(_ context.Context, day string) ([]models.DailyScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.DailyScore, len(r.scores[day]))
	copy(out, r.scores[day])
	return out, nil
}

func (r *memoryRepository) SaveAttestation(_ context.Context, day string, record *attmodels.ScoreAttestationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.attestations[day] = append(r.attestations[day], *record)
	return nil
}

func (r *memoryRepository) StoreRaffleResult(_ context.Context, result *models.RaffleResult, entries []models.QualifiedEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.results[result.Day]; exists {
		return repository.ErrResultExists
	}
	clone := *result
	r.results[result.Day] = &clone
	r.entries[result.Day] = append([]models.QualifiedEntry(nil), entries...)
	return nil
}

func (r *memoryRepository) GetRaffleResult(_ context.Context, day string) (*models.RaffleResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result, ok := r.results[day]
	if !ok {
		return nil, repository.ErrRaffleNotFound
	}
	clone := *result
	return &clone, nil
}

func (r *memoryRepository) GetQualifiedEntries(_ context.Context, day string) ([]models.QualifiedEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, ok := r.entries[day]
	if !ok {
		return nil, repository.ErrRaffleNotFound
	}
	return append([]models.QualifiedEntry(nil), entries...), nil
}

func (r *memoryRepository) AcquireLock(_ context.Context, key string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if expiry, held := r.locks[key]; held && time.Now().Before(expiry) {
		return repository.ErrAlreadyLocked
	}
	r.locks[key] = time.Now().Add(ttl)
	return nil
}

func (r *memoryRepository) ReleaseLock(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.locks, key)
	return nil
}

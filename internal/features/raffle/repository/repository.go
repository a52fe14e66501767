package repository

import (
	"context"
	"errors"
	"time"

	attmodels "vrf-raffle-backend/internal/features/attestation/models"
	"vrf-raffle-backend/internal/features/raffle/models"
)

var (
	ErrRaffleNotFound = errors.New("raffle result not found")
	ErrResultExists   = errors.New("raffle result already stored for this day")
	ErrAlreadyLocked  = errors.New("resource is already locked")
)

// Repository is the persistence collaborator of the raffle core. The core
// reads a day's scores and writes the qualified entries and the result;
// storage engine details stay behind this interface.
type Repository interface {
	SaveScore(ctx context.Context, score *models.DailyScore) error
	LoadDayScores(ctx context.Context, day string) ([]models.DailyScore, error)

	SaveAttestation(ctx context.Context, day string, record *attmodels.ScoreAttestationRecord) error

	// StoreRaffleResult persists the audit record and its qualified entries
	// atomically. A result for a day is written once and never overwritten.
	StoreRaffleResult(ctx context.Context, result *models.RaffleResult, entries []models.QualifiedEntry) error
	GetRaffleResult(ctx context.Context, day string) (*models.RaffleResult, error)
	GetQualifiedEntries(ctx context.Context, day string) ([]models.QualifiedEntry, error)

	AcquireLock(ctx context.Context, key string, ttl time.Duration) error
	ReleaseLock(ctx context.Context, key string) error
}

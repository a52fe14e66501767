package repository

import (
	"context"
	"errors"

	"vrf-raffle-backend/internal/features/session/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already committed")
	ErrAlreadyRevealed = errors.New("session already revealed")
)

// Repository stores commit-reveal records. Implementations must support
// concurrent commits from simultaneous game sessions; records are keyed by
// session ID and never deleted within the commit-reveal window.
type Repository interface {
	Create(ctx context.Context, record *models.CommitRevealRecord) error
	Get(ctx context.Context, sessionID string) (*models.CommitRevealRecord, error)

	// MarkRevealed flips the one-shot revealed flag. It returns
	// ErrAlreadyRevealed if another caller got there first.
	MarkRevealed(ctx context.Context, sessionID string) error
}

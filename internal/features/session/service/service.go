package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "vrf-raffle-backend/internal/common/errors"
	"vrf-raffle-backend/internal/common/logger"
	randomness "vrf-raffle-backend/internal/features/randomness/service"
	"vrf-raffle-backend/internal/features/session/models"
	"vrf-raffle-backend/internal/features/session/repository"
	"vrf-raffle-backend/internal/platform/metrics"
)

// SessionService runs the commit-reveal protocol for game sessions. The only
// legal transition is Committed -> Revealed; there is no cancel or expire
// state here, cleanup is a storage lifecycle concern.
type SessionService interface {
	// Commit derives a round seed for (wallet, sessionID), stores it, and
	// returns only its hash. An empty sessionID gets a generated one.
	Commit(ctx context.Context, wallet, sessionID string) (*models.CommitResult, error)

	// Reveal returns the plaintext seed exactly once. ok is false when no
	// commitment exists or it was already revealed.
	Reveal(ctx context.Context, sessionID string) (seed string, ok bool, err error)
}

type sessionService struct {
	repo    repository.Repository
	seeds   *randomness.SeedManager
	metrics *metrics.Metrics
}

func NewSessionService(repo repository.Repository, seeds *randomness.SeedManager, m *metrics.Metrics) SessionService {
	return &sessionService{repo: repo, seeds: seeds, metrics: m}
}

func (s *sessionService) Commit(ctx context.Context, wallet, sessionID string) (*models.CommitResult, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	seed, err := s.seeds.DeriveRoundSeed(ctx, wallet, sessionID)
	if err != nil {
		return nil, err
	}
	hash := sha256.Sum256(seed[:])

	record := &models.CommitRevealRecord{
		SessionID: sessionID,
		Wallet:    wallet,
		SeedHash:  hex.EncodeToString(hash[:]),
		Seed:      hex.EncodeToString(seed[:]),
		Revealed:  false,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SessionsCommitted.Inc()
	}
	return &models.CommitResult{SessionID: sessionID, SeedHash: record.SeedHash}, nil
}

func (s *sessionService) Reveal(ctx context.Context, sessionID string) (string, bool, error) {
	record, err := s.repo.Get(ctx, sessionID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if record.Revealed {
		return "", false, nil
	}

	// Recheck the commitment before handing out the seed; a mismatch means
	// the stored record is corrupt and the session is unusable.
	seedBytes, err := hex.DecodeString(record.Seed)
	if err != nil {
		return "", false, apperrors.Wrap(err, apperrors.ErrCodeSeedVerificationFailed, "stored seed is not valid hex")
	}
	sum := sha256.Sum256(seedBytes)
	if hex.EncodeToString(sum[:]) != record.SeedHash {
		logger.Error().Str("session_id", sessionID).Msg("revealed seed does not match commitment")
		return "", false, apperrors.New(apperrors.ErrCodeSeedVerificationFailed, "revealed seed does not hash to the committed value").
			WithDetail("session_id", sessionID)
	}

	if err := s.repo.MarkRevealed(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrAlreadyRevealed) {
			return "", false, nil
		}
		return "", false, err
	}

	if s.metrics != nil {
		s.metrics.SessionsRevealed.Inc()
	}
	return record.Seed, true, nil
}

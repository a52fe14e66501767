package service

import (
	"context"
	"errors"
	"time"

	"github.com/xssnick/tonutils-go/address"

	apperrors "vrf-raffle-backend/internal/common/errors"
	attmodels "vrf-raffle-backend/internal/features/attestation/models"
	attestation "vrf-raffle-backend/internal/features/attestation/service"
	"vrf-raffle-backend/internal/features/raffle/models"
	"vrf-raffle-backend/internal/features/raffle/repository"
	sessionrepo "vrf-raffle-backend/internal/features/session/repository"
	"vrf-raffle-backend/internal/platform/metrics"
)

// RaffleService is the score-submission and audit surface of the raffle.
type RaffleService interface {
	// SubmitScore validates the wallet and the session commitment, records
	// the play, and returns the signed attestation.
	SubmitScore(ctx context.Context, req *attmodels.ScoreSubmissionRequest) (*attmodels.ScoreAttestationRecord, error)

	GetResult(ctx context.Context, day string) (*models.RaffleResult, error)
	GetProof(ctx context.Context, day, wallet string) (*models.ProofResponse, error)
	VerifyEntry(ctx context.Context, day, wallet string) (bool, error)
}

type raffleService struct {
	repo     repository.Repository
	sessions sessionrepo.Repository
	attest   *attestation.Service
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewRaffleService(
	repo repository.Repository,
	sessions sessionrepo.Repository,
	attest *attestation.Service,
	m *metrics.Metrics,
) RaffleService {
	return &raffleService{
		repo:     repo,
		sessions: sessions,
		attest:   attest,
		metrics:  m,
		now:      time.Now,
	}
}

func (s *raffleService) SubmitScore(ctx context.Context, req *attmodels.ScoreSubmissionRequest) (*attmodels.ScoreAttestationRecord, error) {
	if _, err := address.ParseAddr(req.Wallet); err != nil {
		s.reject()
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidWallet, "wallet is not a valid TON address")
	}

	sess, err := s.sessions.Get(ctx, req.SessionID)
	if errors.Is(err, sessionrepo.ErrSessionNotFound) {
		s.reject()
		return nil, apperrors.New(apperrors.ErrCodeSessionNotFound, "no committed session for this submission").
			WithDetail("session_id", req.SessionID)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeStorageError, "failed to load session")
	}
	if sess.Wallet != req.Wallet || sess.SeedHash != req.SeedHash {
		s.reject()
		return nil, apperrors.New(apperrors.ErrCodeValidation, "submission does not match the committed session").
			WithDetail("session_id", req.SessionID)
	}

	record := s.attest.Sign(req.Wallet, req.Score, req.SeedHash, req.MoveCount)

	// Verify our own signature before persisting; a mismatch here means the
	// canonical serialization broke, which must never reach storage.
	if !s.attest.Verify(record) {
		s.reject()
		return nil, apperrors.New(apperrors.ErrCodeSignatureVerificationFailed, "freshly signed attestation failed verification")
	}

	score := &models.DailyScore{
		Wallet:    req.Wallet,
		Score:     req.Score,
		Timestamp: s.now().UTC(),
		SeedHash:  req.SeedHash,
	}
	if err := s.repo.SaveScore(ctx, score); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeStorageError, "failed to store score")
	}
	day := score.Timestamp.Format("2006-01-02")
	if err := s.repo.SaveAttestation(ctx, day, record); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeStorageError, "failed to store attestation")
	}

	if s.metrics != nil {
		s.metrics.ScoreSubmissions.Inc()
	}
	return record, nil
}

func (s *raffleService) GetResult(ctx context.Context, day string) (*models.RaffleResult, error) {
	result, err := s.repo.GetRaffleResult(ctx, day)
	if errors.Is(err, repository.ErrRaffleNotFound) {
		return nil, apperrors.NewRaffleNotFoundError(day)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeStorageError, "failed to load raffle result")
	}
	return result, nil
}

func (s *raffleService) GetProof(ctx context.Context, day, wallet string) (*models.ProofResponse, error) {
	entries, err := s.repo.GetQualifiedEntries(ctx, day)
	if errors.Is(err, repository.ErrRaffleNotFound) {
		return nil, apperrors.NewRaffleNotFoundError(day)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeStorageError, "failed to load qualified entries")
	}

	tree := BuildTree(entries)
	for i, e := range entries {
		if e.Wallet != wallet {
			continue
		}
		proof, err := tree.ProofFor(i)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to build proof")
		}
		return &models.ProofResponse{
			Entry:      e,
			Proof:      ProofHex(proof),
			MerkleRoot: tree.RootHex(),
		}, nil
	}

	return nil, apperrors.New(apperrors.ErrCodeProofNotFound, "wallet did not qualify on this day").
		WithDetail("day", day).
		WithDetail("wallet", wallet)
}

func (s *raffleService) VerifyEntry(ctx context.Context, day, wallet string) (bool, error) {
	resp, err := s.GetProof(ctx, day, wallet)
	if err != nil {
		return false, err
	}
	proof, err := ParseProofHex(resp.Proof)
	if err != nil {
		return false, err
	}

	result, err := s.GetResult(ctx, day)
	if err != nil {
		return false, err
	}
	root, err := ParseProofHex([]string{result.MerkleRoot})
	if err != nil {
		return false, err
	}
	return VerifyProof(resp.Entry, proof, root[0]), nil
}

func (s *raffleService) reject() {
	if s.metrics != nil {
		s.metrics.ScoresRejected.Inc()
	}
}

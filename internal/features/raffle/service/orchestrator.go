package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "vrf-raffle-backend/internal/common/errors"
	"vrf-raffle-backend/internal/common/logger"
	"vrf-raffle-backend/internal/features/notifications"
	randmodels "vrf-raffle-backend/internal/features/randomness/models"
	randomness "vrf-raffle-backend/internal/features/randomness/service"
	"vrf-raffle-backend/internal/features/raffle/models"
	"vrf-raffle-backend/internal/features/raffle/repository"
	"vrf-raffle-backend/internal/platform/metrics"
)

// OrchestratorConfig carries the draw parameters of a daily run.
type OrchestratorConfig struct {
	SlicePercent int
	TierConfig   models.TierConfig
	WinnersCount int
	Prizes       []string // prize label per draw position, optional
}

// Orchestrator sequences one daily raffle run: qualify, build the audit tree,
// obtain the VRF seed, draw, re-check every invariant, persist, announce.
// The steps execute sequentially; the only suspension point is the VRF
// fulfillment wait inside the seed manager, and the only cancellable step is
// that wait.
type Orchestrator struct {
	repo     repository.Repository
	seeds    *randomness.SeedManager
	notifier notifications.Notifier
	metrics  *metrics.Metrics
	cfg      OrchestratorConfig
	now      func() time.Time
}

func NewOrchestrator(
	repo repository.Repository,
	seeds *randomness.SeedManager,
	notifier notifications.Notifier,
	m *metrics.Metrics,
	cfg OrchestratorConfig,
) *Orchestrator {
	return &Orchestrator{
		repo:     repo,
		seeds:    seeds,
		notifier: notifier,
		metrics:  m,
		cfg:      cfg,
		now:      time.Now,
	}
}

// RunDaily executes the raffle for one UTC day. It returns (nil, nil) when no
// scores were recorded: a legitimately empty day is announced as a no-winner
// run, not an error. Integrity failures block publication and surface as
// typed errors.
func (o *Orchestrator) RunDaily(ctx context.Context, day string) (*models.RaffleResult, error) {
	started := o.now()

	scores, err := o.repo.LoadDayScores(ctx, day)
	if err != nil {
		o.fail(ctx, day, fmt.Sprintf("loading scores: %v", err))
		return nil, apperrors.Wrap(err, apperrors.ErrCodeStorageError, "failed to load daily scores")
	}
	if len(scores) == 0 {
		logger.Info().Str("day", day).Msg("no scores recorded, skipping draw")
		o.notifier.NotifyDrawComplete(ctx, notifications.DrawComplete{Day: day, Winners: 0})
		return nil, nil
	}

	entries := Qualify(scores, o.cfg.SlicePercent, o.cfg.TierConfig)
	if len(entries) == 0 {
		logger.Info().Str("day", day).Msg("no qualified entries, skipping draw")
		o.notifier.NotifyDrawComplete(ctx, notifications.DrawComplete{Day: day, Winners: 0})
		return nil, nil
	}

	tree := BuildTree(entries)
	totalTickets := TotalTickets(entries)

	seed, err := o.seeds.CurrentSeed(ctx)
	if err != nil {
		o.fail(ctx, day, fmt.Sprintf("obtaining seed: %v", err))
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to obtain draw seed")
	}
	if seed.Source == randmodels.SeedSourceLocal && o.metrics != nil {
		o.metrics.VRFFallbacks.Inc()
	}

	o.notifier.NotifyDrawStarting(ctx, notifications.DrawStarting{
		Day:            day,
		QualifiedCount: len(entries),
		TotalTickets:   totalTickets,
	})

	winners, err := Draw(entries, o.cfg.WinnersCount, seed.Seed)
	if err != nil {
		o.fail(ctx, day, fmt.Sprintf("draw: %v", err))
		return nil, err
	}
	for i := range winners {
		if i < len(o.cfg.Prizes) {
			winners[i].Prize = o.cfg.Prizes[i]
		}
	}

	result := &models.RaffleResult{
		Day:           day,
		Winners:       winners,
		VRFSeed:       seed.Seed,
		VRFSignature:  seed.Proof,
		SeedSource:    seed.Source,
		TotalTickets:  totalTickets,
		MerkleRoot:    tree.RootHex(),
		DrawTimestamp: o.now().UTC(),
		Verified:      true,
	}

	// Defensive re-check: do not trust the components that just ran.
	if verr := o.validate(result, entries, tree); verr != nil {
		if o.metrics != nil {
			o.metrics.DrawsFailed.Inc()
		}
		o.fail(ctx, day, verr.Error())
		return nil, verr
	}

	if err := o.repo.StoreRaffleResult(ctx, result, entries); err != nil {
		if errors.Is(err, repository.ErrResultExists) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeConflict, "raffle result already stored for this day").
				WithDetail("day", day)
		}
		if o.metrics != nil {
			o.metrics.DrawsFailed.Inc()
		}
		o.fail(ctx, day, fmt.Sprintf("storing result: %v", err))
		return nil, apperrors.Wrap(err, apperrors.ErrCodeStorageError, "failed to store raffle result")
	}

	for _, w := range result.Winners {
		o.notifier.NotifyWinnerRevealed(ctx, notifications.WinnerRevealed{
			Day:      day,
			Position: w.Place,
			Wallet:   w.Wallet,
			Prize:    w.Prize,
		})
	}
	o.notifier.NotifyDrawComplete(ctx, notifications.DrawComplete{
		Day:        day,
		Winners:    len(result.Winners),
		MerkleRoot: result.MerkleRoot,
		SeedSource: string(result.SeedSource),
	})

	if o.metrics != nil {
		o.metrics.DrawsRun.Inc()
		o.metrics.DrawDuration.Observe(o.now().Sub(started).Seconds())
	}

	logger.Info().
		Str("day", day).
		Int("winners", len(result.Winners)).
		Str("seed_source", string(result.SeedSource)).
		Msg("daily raffle completed")
	return result, nil
}

func (o *Orchestrator) validate(result *models.RaffleResult, entries []models.QualifiedEntry, tree *MerkleTree) *apperrors.AppError {
	if sum := TotalTickets(entries); sum != result.TotalTickets {
		return apperrors.NewInvariantViolationError("ticket-sum",
			fmt.Sprintf("entries sum to %d tickets, result says %d", sum, result.TotalTickets))
	}

	byWallet := make(map[string]bool, len(entries))
	for _, e := range entries {
		byWallet[e.Wallet] = true
	}
	seen := make(map[string]bool, len(result.Winners))
	for _, w := range result.Winners {
		if !byWallet[w.Wallet] {
			return apperrors.NewInvariantViolationError("winner-membership",
				fmt.Sprintf("winner %s is not a qualified wallet", w.Wallet))
		}
		if seen[w.Wallet] {
			return apperrors.NewInvariantViolationError("winner-uniqueness",
				fmt.Sprintf("wallet %s appears twice in winners", w.Wallet))
		}
		seen[w.Wallet] = true
	}

	root := tree.Root()
	for i, e := range entries {
		proof, err := tree.ProofFor(i)
		if err != nil {
			return apperrors.NewInvariantViolationError("merkle-proof", err.Error())
		}
		if !VerifyProof(e, proof, root) {
			return apperrors.NewInvariantViolationError("merkle-proof",
				fmt.Sprintf("proof for rank %d does not verify", e.Rank))
		}
	}
	return nil
}

func (o *Orchestrator) fail(ctx context.Context, day, reason string) {
	o.notifier.NotifyDrawFailed(ctx, notifications.DrawFailed{Day: day, Reason: reason})
}

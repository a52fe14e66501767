package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "vrf-raffle-backend/internal/common/errors"
	"vrf-raffle-backend/internal/features/notifications"
	randmodels "vrf-raffle-backend/internal/features/randomness/models"
	randomness "vrf-raffle-backend/internal/features/randomness/service"
	"vrf-raffle-backend/internal/features/raffle/models"
	"vrf-raffle-backend/internal/features/raffle/repository"
	"vrf-raffle-backend/internal/features/raffle/repository/memory"
)

// recordingNotifier captures events in arrival order.
type recordingNotifier struct {
	starting  []notifications.DrawStarting
	winners   []notifications.WinnerRevealed
	completed []notifications.DrawComplete
	failed    []notifications.DrawFailed
}

func (n *recordingNotifier) NotifyDrawStarting(_ context.Context, e notifications.DrawStarting) {
	n.starting = append(n.starting, e)
}

func (n *recordingNotifier) NotifyWinnerRevealed(_ context.Context, e notifications.WinnerRevealed) {
	n.winners = append(n.winners, e)
}

func (n *recordingNotifier) NotifyDrawComplete(_ context.Context, e notifications.DrawComplete) {
	n.completed = append(n.completed, e)
}

func (n *recordingNotifier) NotifyDrawFailed(_ context.Context, e notifications.DrawFailed) {
	n.failed = append(n.failed, e)
}

func testOrchestrator(repo repository.Repository, notifier notifications.Notifier) *Orchestrator {
	seeds := randomness.NewSeedManager(randomness.NewLocalSource("test-secret"), time.Hour, time.Second)
	return NewOrchestrator(repo, seeds, notifier, nil, OrchestratorConfig{
		SlicePercent: 25,
		TierConfig:   defaultTiers,
		WinnersCount: 3,
		Prizes:       []string{"gold", "silver", "bronze"},
	})
}

func seedDay(t *testing.T, repo repository.Repository, day string, wallets int) {
	t.Helper()
	ctx := context.Background()
	date, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	base := date.Add(12 * time.Hour)
	for w := 0; w < wallets; w++ {
		require.NoError(t, repo.SaveScore(ctx, &models.DailyScore{
			Wallet:    walletName(w),
			Score:     int64(100 * (w + 1)),
			Timestamp: base.Add(time.Duration(w) * time.Minute),
		}))
	}
}

func walletName(i int) string {
	return merkleEntries(i + 1)[i].Wallet
}

func TestRunDailyEndToEnd(t *testing.T) {
	repo := memory.NewMemoryRaffleRepository()
	notifier := &recordingNotifier{}
	orch := testOrchestrator(repo, notifier)
	ctx := context.Background()

	seedDay(t, repo, "2026-08-28", 40)

	result, err := orch.RunDaily(ctx, "2026-08-28")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "2026-08-28", result.Day)
	assert.Len(t, result.Winners, 3)
	assert.Equal(t, 135, result.TotalTickets)
	assert.True(t, result.Verified)
	assert.Equal(t, randmodels.SeedSourceLocal, result.SeedSource)
	assert.NotEmpty(t, result.VRFSeed)
	assert.Regexp(t, "^0x[0-9a-f]{64}$", result.MerkleRoot)

	for i, w := range result.Winners {
		assert.Equal(t, i+1, w.Place)
	}
	assert.Equal(t, "gold", result.Winners[0].Prize)
	assert.Equal(t, "silver", result.Winners[1].Prize)
	assert.Equal(t, "bronze", result.Winners[2].Prize)

	// Persisted record matches the returned one.
	stored, err := repo.GetRaffleResult(ctx, "2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, result.Winners, stored.Winners)
	assert.Equal(t, result.MerkleRoot, stored.MerkleRoot)

	entries, err := repo.GetQualifiedEntries(ctx, "2026-08-28")
	require.NoError(t, err)
	assert.Len(t, entries, 10)

	// Every stored entry's proof verifies against the published root.
	tree := BuildTree(entries)
	assert.Equal(t, result.MerkleRoot, tree.RootHex())
	for i, e := range entries {
		proof, err := tree.ProofFor(i)
		require.NoError(t, err)
		assert.True(t, VerifyProof(e, proof, tree.Root()))
	}
}

func TestRunDailyEventOrder(t *testing.T) {
	repo := memory.NewMemoryRaffleRepository()
	notifier := &recordingNotifier{}
	orch := testOrchestrator(repo, notifier)

	seedDay(t, repo, "2026-08-28", 40)

	result, err := orch.RunDaily(context.Background(), "2026-08-28")
	require.NoError(t, err)

	require.Len(t, notifier.starting, 1)
	assert.Equal(t, 10, notifier.starting[0].QualifiedCount)
	assert.Equal(t, 135, notifier.starting[0].TotalTickets)

	require.Len(t, notifier.winners, 3)
	for i, e := range notifier.winners {
		assert.Equal(t, i+1, e.Position)
		assert.Equal(t, result.Winners[i].Wallet, e.Wallet)
	}

	require.Len(t, notifier.completed, 1)
	assert.Equal(t, 3, notifier.completed[0].Winners)
	assert.Equal(t, result.MerkleRoot, notifier.completed[0].MerkleRoot)
	assert.Empty(t, notifier.failed)
}

func TestRunDailyEmptyDayShortCircuits(t *testing.T) {
	repo := memory.NewMemoryRaffleRepository()
	notifier := &recordingNotifier{}
	orch := testOrchestrator(repo, notifier)

	result, err := orch.RunDaily(context.Background(), "2026-08-28")
	require.NoError(t, err)
	assert.Nil(t, result)

	// A no-winner completion is still announced; nothing is stored.
	require.Len(t, notifier.completed, 1)
	assert.Equal(t, 0, notifier.completed[0].Winners)
	assert.Empty(t, notifier.starting)

	_, err = repo.GetRaffleResult(context.Background(), "2026-08-28")
	assert.ErrorIs(t, err, repository.ErrRaffleNotFound)
}

func TestRunDailyResultIsWriteOnce(t *testing.T) {
	repo := memory.NewMemoryRaffleRepository()
	orch := testOrchestrator(repo, &recordingNotifier{})
	ctx := context.Background()

	seedDay(t, repo, "2026-08-28", 40)

	first, err := orch.RunDaily(ctx, "2026-08-28")
	require.NoError(t, err)
	require.NotNil(t, first)

	_, err = orch.RunDaily(ctx, "2026-08-28")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeConflict, appErr.Code)

	stored, err := repo.GetRaffleResult(ctx, "2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, first.Winners, stored.Winners)
}

func TestRunDailyFewWalletsStillDraws(t *testing.T) {
	repo := memory.NewMemoryRaffleRepository()
	orch := testOrchestrator(repo, &recordingNotifier{})
	ctx := context.Background()

	// Two wallets, 25% slice: ceil(0.5) = 1 qualified, 1 winner.
	seedDay(t, repo, "2026-08-28", 2)

	result, err := orch.RunDaily(ctx, "2026-08-28")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Len(t, result.Winners, 1)
	assert.Equal(t, 25, result.TotalTickets)
}

func TestRunDailyIsReproducibleAcrossDays(t *testing.T) {
	// Two repos seeded identically, same local seed secret: the draws agree.
	repoA := memory.NewMemoryRaffleRepository()
	repoB := memory.NewMemoryRaffleRepository()
	seedDay(t, repoA, "2026-08-28", 40)
	seedDay(t, repoB, "2026-08-28", 40)

	a, err := testOrchestrator(repoA, &recordingNotifier{}).RunDaily(context.Background(), "2026-08-28")
	require.NoError(t, err)
	b, err := testOrchestrator(repoB, &recordingNotifier{}).RunDaily(context.Background(), "2026-08-28")
	require.NoError(t, err)

	assert.Equal(t, a.Winners, b.Winners)
	assert.Equal(t, a.MerkleRoot, b.MerkleRoot)
	assert.Equal(t, a.VRFSeed, b.VRFSeed)
}

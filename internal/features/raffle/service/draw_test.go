package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "vrf-raffle-backend/internal/common/errors"
	"vrf-raffle-backend/internal/features/raffle/models"
)

func TestDrawIsDeterministic(t *testing.T) {
	entries := merkleEntries(10)

	first, err := Draw(entries, 3, "test-seed")
	require.NoError(t, err)
	require.Len(t, first, 3)

	second, err := Draw(entries, 3, "test-seed")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDrawDifferentSeedsDiverge(t *testing.T) {
	entries := merkleEntries(10)

	a, err := Draw(entries, 3, "seed-a")
	require.NoError(t, err)
	b, err := Draw(entries, 3, "seed-b")
	require.NoError(t, err)

	// Ten wallets, three picks: distinct seeds yielding the exact same
	// ordered winner list would mean the seed is not feeding the generator.
	assert.NotEqual(t, a, b)
}

func TestDrawNoDuplicateWinners(t *testing.T) {
	entries := merkleEntries(10)

	winners, err := Draw(entries, 10, "test-seed")
	require.NoError(t, err)
	require.Len(t, winners, 10)

	seen := make(map[string]bool)
	for i, w := range winners {
		assert.Equal(t, i+1, w.Place)
		assert.False(t, seen[w.Wallet], "wallet %s drawn twice", w.Wallet)
		seen[w.Wallet] = true
	}
}

func TestDrawWinnerCountClampedToUniqueWallets(t *testing.T) {
	entries := merkleEntries(4)

	winners, err := Draw(entries, 10, "test-seed")
	require.NoError(t, err)
	assert.Len(t, winners, 4)
}

func TestDrawRejectsInvalidInput(t *testing.T) {
	entries := merkleEntries(5)

	_, err := Draw(nil, 3, "test-seed")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeInvalidDrawInput, appErr.Code)

	_, err = Draw(entries, 0, "test-seed")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeInvalidDrawInput, appErr.Code)

	_, err = Draw(entries, -1, "test-seed")
	assert.Error(t, err)
}

func TestDrawZeroTicketEntriesYieldEmptyPool(t *testing.T) {
	entries := []models.QualifiedEntry{
		{Wallet: "EQa", Score: 10, Rank: 1, Tickets: 0},
		{Wallet: "EQb", Score: 9, Rank: 2, Tickets: 0},
	}

	_, err := Draw(entries, 1, "test-seed")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeInvalidDrawInput, appErr.Code)
}

func TestDrawSingleEntryAlwaysWins(t *testing.T) {
	entries := []models.QualifiedEntry{
		{Wallet: "EQonly", Score: 42, Rank: 1, Tickets: 25},
	}

	winners, err := Draw(entries, 1, "any-seed")
	require.NoError(t, err)
	require.Len(t, winners, 1)
	assert.Equal(t, "EQonly", winners[0].Wallet)
	assert.Equal(t, 1, winners[0].Place)
}

func TestDrawWinnersComeFromEntrySet(t *testing.T) {
	entries := merkleEntries(10)
	byWallet := make(map[string]bool, len(entries))
	for _, e := range entries {
		byWallet[e.Wallet] = true
	}

	winners, err := Draw(entries, 5, "membership-seed")
	require.NoError(t, err)
	for _, w := range winners {
		assert.True(t, byWallet[w.Wallet])
	}
}

// The full-day scenario drawn twice with the pinned seed must agree run to
// run, including winner order.
func TestDrawFullDayScenarioReproducible(t *testing.T) {
	entries := Qualify(dayScores(40, 2), 25, defaultTiers)
	require.Len(t, entries, 10)
	require.Equal(t, 135, TotalTickets(entries))

	first, err := Draw(entries, 3, "test-seed")
	require.NoError(t, err)
	require.Len(t, first, 3)

	second, err := Draw(entries, 3, "test-seed")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

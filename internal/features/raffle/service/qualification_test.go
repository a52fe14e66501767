package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vrf-raffle-backend/internal/features/raffle/models"
)

var defaultTiers = models.TierConfig{
	Rank1:               25,
	Ranks2To5:           15,
	Ranks6To10:          10,
	Remaining:           1,
	MaxTicketsPerWallet: 50,
}

func dayScores(wallets int, playsPerWallet int) []models.DailyScore {
	base := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	var scores []models.DailyScore
	for w := 0; w < wallets; w++ {
		for p := 0; p < playsPerWallet; p++ {
			scores = append(scores, models.DailyScore{
				Wallet:    fmt.Sprintf("EQwallet%03d", w),
				Score:     int64(100*w + 10*p),
				Timestamp: base.Add(time.Duration(w*playsPerWallet+p) * time.Minute),
			})
		}
	}
	return scores
}

func TestQualifyBestScorePerWallet(t *testing.T) {
	base := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	scores := []models.DailyScore{
		{Wallet: "EQalice", Score: 50, Timestamp: base},
		{Wallet: "EQalice", Score: 90, Timestamp: base.Add(time.Hour)},
		{Wallet: "EQbob", Score: 70, Timestamp: base.Add(2 * time.Hour)},
		{Wallet: "EQalice", Score: 60, Timestamp: base.Add(3 * time.Hour)},
	}

	entries := Qualify(scores, 100, defaultTiers)
	require.Len(t, entries, 2)
	assert.Equal(t, "EQalice", entries[0].Wallet)
	assert.Equal(t, int64(90), entries[0].Score)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "EQbob", entries[1].Wallet)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestQualifyEqualScoresEarlierTimestampRanksHigher(t *testing.T) {
	base := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	scores := []models.DailyScore{
		{Wallet: "EQlate", Score: 100, Timestamp: base.Add(time.Hour)},
		{Wallet: "EQearly", Score: 100, Timestamp: base},
	}

	entries := Qualify(scores, 100, defaultTiers)
	require.Len(t, entries, 2)
	assert.Equal(t, "EQearly", entries[0].Wallet)
	assert.Equal(t, "EQlate", entries[1].Wallet)
}

func TestQualifySliceSizeRoundsUp(t *testing.T) {
	cases := []struct {
		wallets int
		want    int
	}{
		{1, 1},   // ceil(0.25) = 1
		{4, 1},   // exactly 25%
		{5, 2},   // ceil(1.25) = 2
		{40, 10}, // exactly 25%
		{41, 11}, // ceil(10.25) = 11
	}
	for _, tc := range cases {
		entries := Qualify(dayScores(tc.wallets, 1), 25, defaultTiers)
		assert.Len(t, entries, tc.want, "wallets=%d", tc.wallets)
	}
}

func TestQualifyTierAssignment(t *testing.T) {
	entries := Qualify(dayScores(12, 1), 100, defaultTiers)
	require.Len(t, entries, 12)

	assert.Equal(t, models.TierRank1, entries[0].Tier)
	assert.Equal(t, 25, entries[0].Tickets)
	for i := 1; i < 5; i++ {
		assert.Equal(t, models.TierRanks2To5, entries[i].Tier)
		assert.Equal(t, 15, entries[i].Tickets)
	}
	for i := 5; i < 10; i++ {
		assert.Equal(t, models.TierRanks6To10, entries[i].Tier)
		assert.Equal(t, 10, entries[i].Tickets)
	}
	for i := 10; i < 12; i++ {
		assert.Equal(t, models.TierRemaining, entries[i].Tier)
		assert.Equal(t, 1, entries[i].Tickets)
	}
}

func TestQualifyTicketCap(t *testing.T) {
	capped := defaultTiers
	capped.MaxTicketsPerWallet = 12

	entries := Qualify(dayScores(10, 1), 100, capped)
	require.Len(t, entries, 10)
	assert.Equal(t, 12, entries[0].Tickets)
	assert.Equal(t, 12, entries[1].Tickets)
	assert.Equal(t, 10, entries[5].Tickets)
}

func TestQualifyEmptyInput(t *testing.T) {
	assert.Nil(t, Qualify(nil, 25, defaultTiers))
	assert.Nil(t, Qualify([]models.DailyScore{}, 25, defaultTiers))
}

// 100 plays across 40 wallets with a 25% slice: 10 qualified entries holding
// 25 + 4*15 + 5*10 = 135 tickets in total.
func TestQualifyFullDayScenario(t *testing.T) {
	scores := dayScores(40, 2)
	scores = append(scores, dayScores(20, 1)...) // repeat plays for 20 wallets
	require.Len(t, scores, 100)

	entries := Qualify(scores, 25, defaultTiers)
	require.Len(t, entries, 10)
	assert.Equal(t, 135, TotalTickets(entries))

	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, entries[i-1].Score, e.Score)
		}
	}
}

package service

import (
	"sort"

	"vrf-raffle-backend/internal/features/raffle/models"
)

// Qualify reduces a day's plays to the ranked qualifying slice.
//
// Every wallet keeps only its best score (earliest timestamp wins rank
// priority on equal scores), the survivors are sorted descending, and the top
// ceil(uniqueWallets * slicePercent / 100) receive ranks, tiers and tickets.
// Zero input yields an empty slice; callers must short-circuit and skip the
// draw entirely.
func Qualify(scores []models.DailyScore, slicePercent int, cfg models.TierConfig) []models.QualifiedEntry {
	if len(scores) == 0 || slicePercent <= 0 {
		return nil
	}

	best := make(map[string]models.DailyScore)
	for _, s := range scores {
		prev, seen := best[s.Wallet]
		if !seen {
			best[s.Wallet] = s
			continue
		}
		if s.Score > prev.Score || (s.Score == prev.Score && s.Timestamp.Before(prev.Timestamp)) {
			best[s.Wallet] = s
		}
	}

	ranked := make([]models.DailyScore, 0, len(best))
	for _, s := range best {
		ranked = append(ranked, s)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if !ranked[i].Timestamp.Equal(ranked[j].Timestamp) {
			return ranked[i].Timestamp.Before(ranked[j].Timestamp)
		}
		// Stable order for identical score and timestamp.
		return ranked[i].Wallet < ranked[j].Wallet
	})

	qualifyingCount := (len(ranked)*slicePercent + 99) / 100 // ceil
	if qualifyingCount > len(ranked) {
		qualifyingCount = len(ranked)
	}

	entries := make([]models.QualifiedEntry, 0, qualifyingCount)
	for i := 0; i < qualifyingCount; i++ {
		rank := i + 1
		entries = append(entries, models.QualifiedEntry{
			Wallet:  ranked[i].Wallet,
			Score:   ranked[i].Score,
			Rank:    rank,
			Tickets: cfg.TicketsForRank(rank),
			Tier:    models.TierForRank(rank),
		})
	}
	return entries
}

// TotalTickets sums the ticket counts of the qualified entries.
func TotalTickets(entries []models.QualifiedEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Tickets
	}
	return total
}

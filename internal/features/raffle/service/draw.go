package service

import (
	"crypto/sha256"
	"encoding/binary"

	apperrors "vrf-raffle-backend/internal/common/errors"
	"vrf-raffle-backend/internal/common/logger"
	"vrf-raffle-backend/internal/features/raffle/models"
)

// drawRNG is a splitmix64 generator seeded from SHA-256 of the seed string.
// The algorithm is pinned: every run with the same seed must reproduce the
// same winner sequence bit for bit.
type drawRNG struct {
	state uint64
}

func newDrawRNG(seed string) *drawRNG {
	sum := sha256.Sum256([]byte(seed))
	return &drawRNG{state: binary.BigEndian.Uint64(sum[:8])}
}

func (r *drawRNG) next() uint64 {
	r.state += 0x9e3779b97f4a7c15
	z := r.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Draw expands the qualified entries into a weighted ticket pool and selects
// numberOfWinners distinct wallets with a deterministic rejection-sampling
// loop. A pool slot is consumed when its ticket wins; picks landing on a
// consumed slot or an already-winning wallet are rejected. The loop gives up
// after poolLength*3 attempts and returns however many winners it found;
// that is a documented degraded outcome, not an error.
func Draw(entries []models.QualifiedEntry, numberOfWinners int, vrfSeed string) ([]models.Winner, error) {
	if len(entries) == 0 || numberOfWinners <= 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidDrawInput, "no qualified entries or non-positive winner count").
			WithDetail("entries", len(entries)).
			WithDetail("winners", numberOfWinners)
	}

	pool := make([]string, 0, TotalTickets(entries))
	for _, e := range entries {
		for i := 0; i < e.Tickets; i++ {
			pool = append(pool, e.Wallet)
		}
	}
	if len(pool) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidDrawInput, "ticket pool is empty")
	}

	uniqueWallets := len(entries)
	if numberOfWinners > uniqueWallets {
		numberOfWinners = uniqueWallets
	}

	rng := newDrawRNG(vrfSeed)
	consumed := make([]bool, len(pool))
	selected := make(map[string]bool, numberOfWinners)
	winners := make([]models.Winner, 0, numberOfWinners)

	budget := len(pool) * 3
	for attempt := 0; attempt < budget && len(winners) < numberOfWinners; attempt++ {
		index := int(rng.next() % uint64(len(pool)))
		if consumed[index] || selected[pool[index]] {
			continue
		}
		consumed[index] = true
		selected[pool[index]] = true
		winners = append(winners, models.Winner{
			Place:  len(winners) + 1,
			Wallet: pool[index],
		})
	}

	if len(winners) < numberOfWinners {
		logger.Warn().
			Int("requested", numberOfWinners).
			Int("selected", len(winners)).
			Msg("draw attempt budget exhausted, returning partial winner set")
	}

	return winners, nil
}

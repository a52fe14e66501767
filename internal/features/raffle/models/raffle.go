package models

import (
	"time"

	randmodels "vrf-raffle-backend/internal/features/randomness/models"
)

// Tier is the rank bucket that decides a wallet's ticket count.
type Tier string

const (
	TierRank1      Tier = "rank1"
	TierRanks2To5  Tier = "ranks2to5"
	TierRanks6To10 Tier = "ranks6to10"
	TierRemaining  Tier = "remaining"
)

// TierForRank maps a 1-based rank to its tier.
func TierForRank(rank int) Tier {
	switch {
	case rank == 1:
		return TierRank1
	case rank <= 5:
		return TierRanks2To5
	case rank <= 10:
		return TierRanks6To10
	default:
		return TierRemaining
	}
}

// TierConfig holds the ticket counts per tier and the per-wallet cap.
type TierConfig struct {
	Rank1               int `json:"rank1"`
	Ranks2To5           int `json:"ranks_2_5"`
	Ranks6To10          int `json:"ranks_6_10"`
	Remaining           int `json:"remaining"`
	MaxTicketsPerWallet int `json:"max_tickets_per_wallet"`
}

// TicketsForRank returns the capped ticket count for a rank.
func (c TierConfig) TicketsForRank(rank int) int {
	var tickets int
	switch TierForRank(rank) {
	case TierRank1:
		tickets = c.Rank1
	case TierRanks2To5:
		tickets = c.Ranks2To5
	case TierRanks6To10:
		tickets = c.Ranks6To10
	default:
		tickets = c.Remaining
	}
	if c.MaxTicketsPerWallet > 0 && tickets > c.MaxTicketsPerWallet {
		tickets = c.MaxTicketsPerWallet
	}
	return tickets
}

// DailyScore is one recorded play. Only the best score per wallet per UTC day
// counts for qualification; rows are immutable once recorded.
type DailyScore struct {
	Wallet    string    `json:"wallet"`
	Score     int64     `json:"score"`
	Timestamp time.Time `json:"timestamp"`
	SeedHash  string    `json:"seed_hash"`
	MoveHash  string    `json:"move_hash,omitempty"`
}

// QualifiedEntry is a wallet that made the qualifying slice. Never mutated
// after the Merkle tree over the day's entries is built.
type QualifiedEntry struct {
	Wallet  string `json:"wallet"`
	Score   int64  `json:"score"`
	Rank    int    `json:"rank"` // 1-based, ties broken by earliest timestamp
	Tickets int    `json:"tickets"`
	Tier    Tier   `json:"tier"`
}

// Winner is one drawn wallet with its 1-based draw position.
type Winner struct {
	Place  int    `json:"place"`
	Wallet string `json:"wallet"`
	Prize  string `json:"prize,omitempty"`
}

// RaffleResult is the canonical audit record of one daily run. Immutable.
type RaffleResult struct {
	Day           string                `json:"day"` // UTC date, 2006-01-02
	Winners       []Winner              `json:"winners"`
	VRFSeed       string                `json:"vrf_seed"`
	VRFSignature  string                `json:"vrf_signature,omitempty"`
	SeedSource    randmodels.SeedSource `json:"seed_source"`
	TotalTickets  int                   `json:"total_tickets"`
	MerkleRoot    string                `json:"merkle_root"` // 0x-prefixed hex
	DrawTimestamp time.Time             `json:"draw_timestamp"`
	Verified      bool                  `json:"verified"`
}

// ProofResponse is the audit surface payload for one qualified entry.
type ProofResponse struct {
	Entry      QualifiedEntry `json:"entry"`
	Proof      []string       `json:"proof"` // ordered 0x-prefixed sibling hashes
	MerkleRoot string         `json:"merkle_root"`
}

package models

import "time"

// CommitRevealRecord binds a game session to a committed seed hash. The
// plaintext seed stays server-side until the round ends; Revealed flips
// exactly once.
type CommitRevealRecord struct {
	SessionID string    `json:"session_id"`
	Wallet    string    `json:"wallet"`
	SeedHash  string    `json:"seed_hash"` // hex SHA-256 of the seed
	Seed      string    `json:"seed"`      // hex, never returned before reveal
	Revealed  bool      `json:"revealed"`
	CreatedAt time.Time `json:"created_at"`
}

// CommitResult is what the caller gets back at commit time: the hash only.
type CommitResult struct {
	SessionID string `json:"session_id"`
	SeedHash  string `json:"seed_hash"`
}

type CommitRequest struct {
	Wallet    string `json:"wallet" binding:"required"`
	SessionID string `json:"session_id,omitempty"`
}

type RevealResponse struct {
	SessionID string `json:"session_id"`
	Seed      string `json:"seed,omitempty"`
	Revealed  bool   `json:"revealed"`
}

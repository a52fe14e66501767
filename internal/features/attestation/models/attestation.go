package models

// ScoreAttestationRecord is one signed score submission. The signature covers
// the canonical payload wallet:score:seedHash:moveCount:timestamp.
type ScoreAttestationRecord struct {
	Wallet    string `json:"wallet"`
	Score     int64  `json:"score"`
	SeedHash  string `json:"seed_hash"`
	MoveCount int    `json:"move_count"`
	Timestamp int64  `json:"timestamp"` // unix seconds, set at sign time
	Signature string `json:"signature"` // base64
}

// ScoreSubmissionRequest is the boundary other services call into.
type ScoreSubmissionRequest struct {
	Wallet    string `json:"wallet" binding:"required"`
	Score     int64  `json:"score" binding:"min=0"`
	SessionID string `json:"session_id" binding:"required"`
	SeedHash  string `json:"seed_hash" binding:"required"`
	MoveCount int    `json:"move_count" binding:"required,min=1"`
}

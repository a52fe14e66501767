package models

import (
	"encoding/hex"
	"fmt"
	"time"
)

// SeedSource tells where a master seed came from. Oracle-drawn seeds carry a
// verifiable proof; local seeds do not, and results built on them must keep
// that distinction.
type SeedSource string

const (
	SeedSourceOracle SeedSource = "oracle"
	SeedSourceLocal  SeedSource = "local-fallback"
)

// RequestHandle identifies a pending randomness request.
type RequestHandle struct {
	ID          string    `json:"id"`
	RequestedAt time.Time `json:"requested_at"`
}

// Randomness is one fulfilled 32-byte random value with its proof material.
type Randomness struct {
	Value     [32]byte
	Proof     []byte
	PublicKey []byte
}

// VRFSeed is the rotating master seed. Exactly one is active at a time;
// rotation is lazy on access.
type VRFSeed struct {
	Seed      string     `json:"seed"` // hex, 32 bytes
	Proof     string     `json:"proof,omitempty"`
	PublicKey string     `json:"public_key,omitempty"`
	Source    SeedSource `json:"source"`
	CreatedAt time.Time  `json:"created_at"`
	RotatesAt time.Time  `json:"rotates_at"`
}

// Expired reports whether the seed must be rotated.
func (s *VRFSeed) Expired(now time.Time) bool {
	return now.After(s.RotatesAt)
}

// SeedBytes decodes the hex seed value.
func (s *VRFSeed) SeedBytes() ([]byte, error) {
	b, err := hex.DecodeString(s.Seed)
	if err != nil {
		return nil, fmt.Errorf("malformed seed hex: %w", err)
	}
	return b, nil
}

// NewVRFSeed builds a seed record from a fulfilled randomness value.
func NewVRFSeed(r Randomness, source SeedSource, now time.Time, rotation time.Duration) *VRFSeed {
	return &VRFSeed{
		Seed:      hex.EncodeToString(r.Value[:]),
		Proof:     hex.EncodeToString(r.Proof),
		PublicKey: hex.EncodeToString(r.PublicKey),
		Source:    source,
		CreatedAt: now,
		RotatesAt: now.Add(rotation),
	}
}

// Package service signs and verifies score attestations with a process-wide
// Ed25519 keypair. Sign and verify share one canonical serialization; any
// drift between the two sides is a critical bug, so the payload is built in
// exactly one place.
package service

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"time"

	"vrf-raffle-backend/internal/common/logger"
	"vrf-raffle-backend/internal/features/attestation/models"
)

type Service struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
	now  func() time.Time
}

// New builds the attestation service from a base64-encoded 32-byte Ed25519
// seed. With an empty seed a volatile keypair is generated; that keypair does
// not survive restarts, so previously issued attestations become
// unverifiable, hence the warning.
func New(privateKeySeed string) (*Service, error) {
	if privateKeySeed == "" {
		pub, priv, err := ed25519.GenerateKey(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to generate attestation keypair: %w", err)
		}
		logger.Warn().Msg("no attestation key configured, generated a volatile keypair; signatures will not survive a restart")
		return &Service{priv: priv, pub: pub, now: time.Now}, nil
	}

	seed, err := base64.StdEncoding.DecodeString(privateKeySeed)
	if err != nil {
		return nil, fmt.Errorf("invalid attestation key seed: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("attestation key seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}

	priv := ed25519.NewKeyFromSeed(seed)
	return &Service{
		priv: priv,
		pub:  priv.Public().(ed25519.PublicKey),
		now:  time.Now,
	}, nil
}

// PublicKey returns the verifying key, base64-encoded.
func (s *Service) PublicKey() string {
	return base64.StdEncoding.EncodeToString(s.pub)
}

// Sign produces an attestation record for a submitted score. The timestamp
// is generated here and is part of the signed payload.
func (s *Service) Sign(wallet string, score int64, seedHash string, moveCount int) *models.ScoreAttestationRecord {
	record := &models.ScoreAttestationRecord{
		Wallet:    wallet,
		Score:     score,
		SeedHash:  seedHash,
		MoveCount: moveCount,
		Timestamp: s.now().Unix(),
	}

	sig := ed25519.Sign(s.priv, canonicalPayload(record))
	record.Signature = base64.StdEncoding.EncodeToString(sig)
	return record
}

// Verify reconstructs the canonical payload and checks the signature. Any
// altered field makes it return false.
func (s *Service) Verify(record *models.ScoreAttestationRecord) bool {
	sig, err := base64.StdEncoding.DecodeString(record.Signature)
	if err != nil {
		return false
	}
	return ed25519.Verify(s.pub, canonicalPayload(record), sig)
}

func canonicalPayload(r *models.ScoreAttestationRecord) []byte {
	return []byte(fmt.Sprintf("%s:%d:%s:%d:%d", r.Wallet, r.Score, r.SeedHash, r.MoveCount, r.Timestamp))
}

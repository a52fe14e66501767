package service

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vrf-raffle-backend/internal/features/attestation/models"
)

func testSeed(t *testing.T) string {
	t.Helper()
	seed := make([]byte, ed25519.SeedSize)
	_, err := rand.Read(seed)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(seed)
}

func TestNewWithConfiguredSeedIsStable(t *testing.T) {
	seed := testSeed(t)

	a, err := New(seed)
	require.NoError(t, err)
	b, err := New(seed)
	require.NoError(t, err)

	// Same seed, same keypair: attestations survive restarts.
	assert.Equal(t, a.PublicKey(), b.PublicKey())
}

func TestNewWithEmptySeedGeneratesVolatileKeypair(t *testing.T) {
	a, err := New("")
	require.NoError(t, err)
	b, err := New("")
	require.NoError(t, err)
	assert.NotEqual(t, a.PublicKey(), b.PublicKey())
}

func TestNewRejectsMalformedSeed(t *testing.T) {
	_, err := New("not base64!!!")
	assert.Error(t, err)

	short := base64.StdEncoding.EncodeToString([]byte("too short"))
	_, err = New(short)
	assert.Error(t, err)
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	svc, err := New(testSeed(t))
	require.NoError(t, err)

	record := svc.Sign("EQwallet", 9001, "abc123", 42)
	assert.NotEmpty(t, record.Signature)
	assert.NotZero(t, record.Timestamp)
	assert.True(t, svc.Verify(record))
}

func TestVerifyDetectsTamperedFields(t *testing.T) {
	svc, err := New(testSeed(t))
	require.NoError(t, err)

	cases := []struct {
		name   string
		mutate func(r *models.ScoreAttestationRecord)
	}{
		{"wallet", func(r *models.ScoreAttestationRecord) { r.Wallet = "EQattacker" }},
		{"score", func(r *models.ScoreAttestationRecord) { r.Score++ }},
		{"seed hash", func(r *models.ScoreAttestationRecord) { r.SeedHash = "deadbeef" }},
		{"move count", func(r *models.ScoreAttestationRecord) { r.MoveCount++ }},
		{"timestamp", func(r *models.ScoreAttestationRecord) { r.Timestamp++ }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record := svc.Sign("EQwallet", 9001, "abc123", 42)
			tc.mutate(record)
			assert.False(t, svc.Verify(record))
		})
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	signer, err := New(testSeed(t))
	require.NoError(t, err)
	verifier, err := New(testSeed(t))
	require.NoError(t, err)

	record := signer.Sign("EQwallet", 100, "abc123", 7)
	assert.True(t, signer.Verify(record))
	assert.False(t, verifier.Verify(record))
}

func TestVerifyRejectsMalformedSignature(t *testing.T) {
	svc, err := New(testSeed(t))
	require.NoError(t, err)

	record := svc.Sign("EQwallet", 100, "abc123", 7)
	record.Signature = "%%% not base64 %%%"
	assert.False(t, svc.Verify(record))
}

package http

import (
	"bytes"
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	attmodels "vrf-raffle-backend/internal/features/attestation/models"
	attestation "vrf-raffle-backend/internal/features/attestation/service"
	randomness "vrf-raffle-backend/internal/features/randomness/service"
	rafflememory "vrf-raffle-backend/internal/features/raffle/repository/memory"
	raffleservice "vrf-raffle-backend/internal/features/raffle/service"
	sessionmemory "vrf-raffle-backend/internal/features/session/repository/memory"
	sessionservice "vrf-raffle-backend/internal/features/session/service"
)

const tonWallet = "EQAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAM9c"

type scoreFixture struct {
	router   *gin.Engine
	sessions sessionservice.SessionService
	attest   *attestation.Service
}

func newScoreFixture(t *testing.T) *scoreFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	raffleRepo := rafflememory.NewMemoryRaffleRepository()
	sessionRepo := sessionmemory.NewMemorySessionRepository()
	seeds := randomness.NewSeedManager(randomness.NewLocalSource("test-secret"), time.Hour, time.Second)
	attest, err := attestation.New("")
	require.NoError(t, err)

	svc := raffleservice.NewRaffleService(raffleRepo, sessionRepo, attest, nil)
	sessions := sessionservice.NewSessionService(sessionRepo, seeds, nil)

	router := gin.New()
	NewRaffleHandler(svc, nil, attest).RegisterRoutes(router.Group("/api/v1"))
	return &scoreFixture{router: router, sessions: sessions, attest: attest}
}

func (f *scoreFixture) postScore(t *testing.T, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(nethttp.MethodPost, "/api/v1/scores", &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

// A game can legitimately end with zero points; the submission surface must
// not reject it at binding time.
func TestSubmitScoreEndpointAcceptsZeroScore(t *testing.T) {
	f := newScoreFixture(t)
	commit, err := f.sessions.Commit(context.Background(), tonWallet, "")
	require.NoError(t, err)

	w := f.postScore(t, map[string]any{
		"wallet":     tonWallet,
		"score":      0,
		"session_id": commit.SessionID,
		"seed_hash":  commit.SeedHash,
		"move_count": 17,
	})
	require.Equal(t, nethttp.StatusOK, w.Code, w.Body.String())

	var record attmodels.ScoreAttestationRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Zero(t, record.Score)
	assert.NotEmpty(t, record.Signature)
	assert.True(t, f.attest.Verify(&record))
}

func TestSubmitScoreEndpointRejectsNegativeScore(t *testing.T) {
	f := newScoreFixture(t)
	commit, err := f.sessions.Commit(context.Background(), tonWallet, "")
	require.NoError(t, err)

	w := f.postScore(t, map[string]any{
		"wallet":     tonWallet,
		"score":      -5,
		"session_id": commit.SessionID,
		"seed_hash":  commit.SeedHash,
		"move_count": 17,
	})
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)
}

func TestSubmitScoreEndpointRequiresWallet(t *testing.T) {
	f := newScoreFixture(t)

	w := f.postScore(t, map[string]any{
		"score":      100,
		"session_id": "session-1",
		"seed_hash":  "abc",
		"move_count": 3,
	})
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)
}

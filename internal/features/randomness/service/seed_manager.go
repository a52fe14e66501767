package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"sync"
	"time"

	"vrf-raffle-backend/internal/common/logger"
	"vrf-raffle-backend/internal/features/randomness/models"
	"vrf-raffle-backend/internal/utils/random"
)

// SeedManager owns the rotating master seed and derives per-round seeds from
// it. Rotation is lazy: the first caller that observes an expired seed draws
// a fresh one from the Source while holding the mutex, so concurrent callers
// never trigger more than one oracle request per epoch.
type SeedManager struct {
	mu             sync.Mutex
	source         Source
	current        *models.VRFSeed
	rotation       time.Duration
	fulfillTimeout time.Duration
	now            func() time.Time
}

func NewSeedManager(source Source, rotation, fulfillTimeout time.Duration) *SeedManager {
	return &SeedManager{
		source:         source,
		rotation:       rotation,
		fulfillTimeout: fulfillTimeout,
		now:            time.Now,
	}
}

// CurrentSeed returns the active master seed, rotating it first if it has
// expired. A failed oracle draw falls back to a securely random local seed
// immediately; rotation never blocks beyond the fulfill timeout.
func (m *SeedManager) CurrentSeed(ctx context.Context) (*models.VRFSeed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil && !m.current.Expired(m.now()) {
		seed := *m.current
		return &seed, nil
	}

	seed, err := m.rotate(ctx)
	if err != nil {
		return nil, err
	}
	m.current = seed

	out := *seed
	return &out, nil
}

// DeriveRoundSeed computes HMAC-SHA256(masterSeed, wallet+":"+sessionID).
// No timestamp goes into the payload: repeated calls with the same wallet and
// session are idempotent within a seed epoch.
func (m *SeedManager) DeriveRoundSeed(ctx context.Context, wallet, sessionID string) ([32]byte, error) {
	var out [32]byte

	seed, err := m.CurrentSeed(ctx)
	if err != nil {
		return out, err
	}
	key, err := seed.SeedBytes()
	if err != nil {
		return out, err
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(wallet + ":" + sessionID))
	copy(out[:], mac.Sum(nil))
	return out, nil
}

func (m *SeedManager) rotate(ctx context.Context) (*models.VRFSeed, error) {
	handle, err := m.source.Request(ctx)
	if err == nil {
		var r *models.Randomness
		r, err = m.source.Fulfill(ctx, handle, m.fulfillTimeout)
		if err == nil {
			logger.Info().Str("request_id", handle.ID).Msg("master seed rotated")
			return models.NewVRFSeed(*r, m.source.Provenance(), m.now(), m.rotation), nil
		}
	}

	logger.Warn().Err(err).Msg("oracle seed draw failed, falling back to local randomness")

	value, rndErr := random.Bytes32()
	if rndErr != nil {
		return nil, rndErr
	}
	r := models.Randomness{Value: value}
	return models.NewVRFSeed(r, models.SeedSourceLocal, m.now(), m.rotation), nil
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vrf-raffle-backend/internal/features/randomness/models"
)

// countingSource wraps LocalSource and counts Request calls, with an optional
// forced failure.
type countingSource struct {
	mu       sync.Mutex
	inner    *LocalSource
	requests int
	fail     bool
}

func (s *countingSource) Request(ctx context.Context) (models.RequestHandle, error) {
	s.mu.Lock()
	s.requests++
	fail := s.fail
	s.mu.Unlock()
	if fail {
		return models.RequestHandle{}, errors.New("oracle unreachable")
	}
	return s.inner.Request(ctx)
}

func (s *countingSource) Fulfill(ctx context.Context, handle models.RequestHandle, timeout time.Duration) (*models.Randomness, error) {
	return s.inner.Fulfill(ctx, handle, timeout)
}

func (s *countingSource) Provenance() models.SeedSource {
	return models.SeedSourceOracle
}

func (s *countingSource) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func TestLocalSourceIsDeterministicPerDay(t *testing.T) {
	src := NewLocalSource("secret")
	ctx := context.Background()

	h1, err := src.Request(ctx)
	require.NoError(t, err)
	h2, err := src.Request(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, h1.ID, h2.ID)

	r1, err := src.Fulfill(ctx, h1, time.Second)
	require.NoError(t, err)
	r2, err := src.Fulfill(ctx, h2, time.Second)
	require.NoError(t, err)
	assert.Equal(t, r1.Value, r2.Value)

	other := NewLocalSource("other-secret")
	h3, err := other.Request(ctx)
	require.NoError(t, err)
	r3, err := other.Fulfill(ctx, h3, time.Second)
	require.NoError(t, err)
	assert.NotEqual(t, r1.Value, r3.Value)
}

func TestCurrentSeedReusedWithinEpoch(t *testing.T) {
	src := &countingSource{inner: NewLocalSource("secret")}
	m := NewSeedManager(src, time.Hour, time.Second)
	ctx := context.Background()

	first, err := m.CurrentSeed(ctx)
	require.NoError(t, err)
	second, err := m.CurrentSeed(ctx)
	require.NoError(t, err)

	assert.Equal(t, first.Seed, second.Seed)
	assert.Equal(t, models.SeedSourceOracle, first.Source)
	assert.Equal(t, 1, src.requestCount())
}

func TestCurrentSeedRotatesAfterExpiry(t *testing.T) {
	src := &countingSource{inner: NewLocalSource("secret")}
	m := NewSeedManager(src, time.Hour, time.Second)

	clock := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	first, err := m.CurrentSeed(context.Background())
	require.NoError(t, err)

	clock = clock.Add(90 * time.Minute)
	second, err := m.CurrentSeed(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, src.requestCount())
	assert.True(t, second.RotatesAt.After(first.RotatesAt))
}

func TestCurrentSeedSingleRotationUnderConcurrency(t *testing.T) {
	src := &countingSource{inner: NewLocalSource("secret")}
	m := NewSeedManager(src, time.Hour, time.Second)

	var wg sync.WaitGroup
	seeds := make([]string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seed, err := m.CurrentSeed(context.Background())
			require.NoError(t, err)
			seeds[i] = seed.Seed
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, src.requestCount())
	for _, s := range seeds[1:] {
		assert.Equal(t, seeds[0], s)
	}
}

func TestCurrentSeedFallsBackOnOracleFailure(t *testing.T) {
	src := &countingSource{inner: NewLocalSource("secret"), fail: true}
	m := NewSeedManager(src, time.Hour, time.Second)

	seed, err := m.CurrentSeed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SeedSourceLocal, seed.Source)
	assert.Len(t, seed.Seed, 64)
}

func TestDeriveRoundSeedIsIdempotentWithinEpoch(t *testing.T) {
	m := NewSeedManager(NewLocalSource("secret"), time.Hour, time.Second)
	ctx := context.Background()

	a, err := m.DeriveRoundSeed(ctx, "EQwallet", "session-1")
	require.NoError(t, err)
	b, err := m.DeriveRoundSeed(ctx, "EQwallet", "session-1")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := m.DeriveRoundSeed(ctx, "EQwallet", "session-2")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	d, err := m.DeriveRoundSeed(ctx, "EQother", "session-1")
	require.NoError(t, err)
	assert.NotEqual(t, a, d)
}

func TestVRFSeedExpiry(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	seed := models.NewVRFSeed(models.Randomness{}, models.SeedSourceOracle, now, time.Hour)

	assert.False(t, seed.Expired(now))
	assert.False(t, seed.Expired(now.Add(time.Hour)))
	assert.True(t, seed.Expired(now.Add(time.Hour+time.Second)))
}

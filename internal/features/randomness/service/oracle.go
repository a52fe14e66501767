package service

import (
	"context"
	"encoding/hex"
	"time"

	"vrf-raffle-backend/internal/common/logger"
	"vrf-raffle-backend/internal/features/randomness/models"
	"vrf-raffle-backend/internal/platform/vrforacle"
)

const (
	pollInitialDelay = 500 * time.Millisecond
	pollMaxDelay     = 5 * time.Second
)

// OracleSource adapts the external randomness oracle to the Source contract.
// Fulfill polls the oracle with exponential backoff until the request is
// fulfilled or the caller's timeout elapses.
type OracleSource struct {
	client *vrforacle.Client
}

func NewOracleSource(client *vrforacle.Client) *OracleSource {
	return &OracleSource{client: client}
}

func (s *OracleSource) Request(ctx context.Context) (models.RequestHandle, error) {
	id, err := s.client.OpenRequest(ctx)
	if err != nil {
		return models.RequestHandle{}, err
	}
	return models.RequestHandle{ID: id, RequestedAt: time.Now()}, nil
}

func (s *OracleSource) Provenance() models.SeedSource {
	return models.SeedSourceOracle
}

func (s *OracleSource) Fulfill(ctx context.Context, handle models.RequestHandle, timeout time.Duration) (*models.Randomness, error) {
	deadline := time.Now().Add(timeout)
	delay := pollInitialDelay

	for {
		f, err := s.client.GetFulfillment(ctx, handle.ID)
		if err != nil {
			logger.Warn().Err(err).Str("request_id", handle.ID).Msg("oracle poll failed")
		} else if f.Fulfilled {
			value, err := f.RandomnessBytes()
			if err != nil {
				return nil, err
			}
			proof, err := hex.DecodeString(f.Proof)
			if err != nil {
				return nil, err
			}
			pub, err := hex.DecodeString(f.PublicKey)
			if err != nil {
				return nil, err
			}
			return &models.Randomness{Value: value, Proof: proof, PublicKey: pub}, nil
		}

		if time.Now().Add(delay).After(deadline) {
			return nil, ErrFulfillTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > pollMaxDelay {
			delay = pollMaxDelay
		}
	}
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vrf-raffle-backend/internal/features/session/models"
	"vrf-raffle-backend/internal/features/session/repository"
)

const (
	keyPrefixSession = "session:"

	// Sessions outlive the commit-reveal window by a day so late audits can
	// still read them.
	sessionTTL = 48 * time.Hour
)

type redisRepository struct {
	client *redis.Client
}

func NewRedisSessionRepository(client *redis.Client) repository.Repository {
	return &redisRepository{client: client}
}

func makeSessionKey(id string) string {
	return keyPrefixSession + id
}

func (r *redisRepository) Create(ctx context.Context, record *models.CommitRevealRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ok, err := r.client.SetNX(ctx, makeSessionKey(record.SessionID), data, sessionTTL).Result()
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	if !ok {
		return repository.ErrSessionExists
	}
	return nil
}

func (r *redisRepository) Get(ctx context.Context, sessionID string) (*models.CommitRevealRecord, error) {
	data, err := r.client.Get(ctx, makeSessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var record models.CommitRevealRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &record, nil
}

func (r *redisRepository) MarkRevealed(ctx context.Context, sessionID string) error {
	key := makeSessionKey(sessionID)

	// The read-check-write runs under WATCH so the flag flip and the record
	// rewrite commit together; a concurrent reveal that lands first aborts
	// this transaction.
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return repository.ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}

		var record models.CommitRevealRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return fmt.Errorf("failed to unmarshal session: %w", err)
		}
		if record.Revealed {
			return repository.ErrAlreadyRevealed
		}
		record.Revealed = true

		updated, err := json.Marshal(&record)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, sessionTTL)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return repository.ErrAlreadyRevealed
	}
	return err
}

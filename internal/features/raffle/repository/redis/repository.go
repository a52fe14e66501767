package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	attmodels "vrf-raffle-backend/internal/features/attestation/models"
	"vrf-raffle-backend/internal/features/raffle/models"
	"vrf-raffle-backend/internal/features/raffle/repository"
)

const (
	keyPrefixScores       = "raffle:scores:"
	keyPrefixAttestations = "raffle:attestations:"
	keyPrefixResult       = "raffle:result:"
	keyPrefixEntries      = "raffle:entries:"

	// Score and audit data stays readable for a month of after-the-fact
	// verification.
	retention = 31 * 24 * time.Hour
)

type redisRepository struct {
	client *redis.Client
}

func NewRedisRaffleRepository(client *redis.Client) repository.Repository {
	return &redisRepository{client: client}
}

func makeScoresKey(day string) string {
	return keyPrefixScores + day
}

func makeResultKey(day string) string {
	return keyPrefixResult + day
}

func makeEntriesKey(day string) string {
	return keyPrefixEntries + day
}

func (r *redisRepository) SaveScore(ctx context.Context, score *models.DailyScore) error {
	data, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("failed to marshal score: %w", err)
	}

	day := score.Timestamp.UTC().Format("2006-01-02")
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, makeScoresKey(day), data)
	pipe.Expire(ctx, makeScoresKey(day), retention)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store score: %w", err)
	}
	return nil
}

func (r *redisRepository) LoadDayScores(ctx context.Context, day string) ([]models.DailyScore, error) {
	rows, err := r.client.LRange(ctx, makeScoresKey(day), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load scores: %w", err)
	}

	scores := make([]models.DailyScore, 0, len(rows))
	for _, row := range rows {
		var score models.DailyScore
		if err := json.Unmarshal([]byte(row), &score); err != nil {
			return nil, fmt.Errorf("failed to unmarshal score: %w", err)
		}
		scores = append(scores, score)
	}
	return scores, nil
}

func (r *redisRepository) SaveAttestation(ctx context.Context, day string, record *attmodels.ScoreAttestationRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal attestation: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, keyPrefixAttestations+day, data)
	pipe.Expire(ctx, keyPrefixAttestations+day, retention)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store attestation: %w", err)
	}
	return nil
}

func (r *redisRepository) StoreRaffleResult(ctx context.Context, result *models.RaffleResult, entries []models.QualifiedEntry) error {
	resultData, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal raffle result: %w", err)
	}
	entriesData, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal qualified entries: %w", err)
	}

	// The result is the canonical audit record; never overwrite one.
	ok, err := r.client.SetNX(ctx, makeResultKey(result.Day), resultData, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to store raffle result: %w", err)
	}
	if !ok {
		return repository.ErrResultExists
	}

	if err := r.client.Set(ctx, makeEntriesKey(result.Day), entriesData, 0).Err(); err != nil {
		return fmt.Errorf("failed to store qualified entries: %w", err)
	}
	return nil
}

func (r *redisRepository) GetRaffleResult(ctx context.Context, day string) (*models.RaffleResult, error) {
	data, err := r.client.Get(ctx, makeResultKey(day)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrRaffleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get raffle result: %w", err)
	}

	var result models.RaffleResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal raffle result: %w", err)
	}
	return &result, nil
}

func (r *redisRepository) GetQualifiedEntries(ctx context.Context, day string) ([]models.QualifiedEntry, error) {
	data, err := r.client.Get(ctx, makeEntriesKey(day)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrRaffleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get qualified entries: %w", err)
	}

	var entries []models.QualifiedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal qualified entries: %w", err)
	}
	return entries, nil
}

func (r *redisRepository) AcquireLock(ctx context.Context, key string, ttl time.Duration) error {
	ok, err := r.client.SetNX(ctx, "lock:"+key, 1, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !ok {
		return repository.ErrAlreadyLocked
	}
	return nil
}

func (r *redisRepository) ReleaseLock(ctx context.Context, key string) error {
	return r.client.Del(ctx, "lock:"+key).Err()
}

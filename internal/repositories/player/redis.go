package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/KirkDiggler/zonk/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	statsKeyPrefix = "player_stats:"
	leaderboardKey = "leaderboard"

	// DefaultLimit is the leaderboard size when a caller does not ask for one
	DefaultLimit = 10

	// maxRecordAttempts bounds optimistic-lock retries in RecordGame
	maxRecordAttempts = 5

	// bestScoreSpan separates wins from best score in the leaderboard rank
	bestScoreSpan = 1_000_000_000
)

// ErrPlayerNotFound is returned when a player has no stats
var ErrPlayerNotFound = errors.New("player not found")

// Config holds configuration for the Redis player repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed player repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// RecordGame updates a player's stats under WATCH so concurrent finishes
// for the same name do not lose updates
func (r *redisRepository) RecordGame(ctx context.Context, input *RecordGameInput) (*models.PlayerStats, error) {
	if input == nil || strings.TrimSpace(input.PlayerName) == "" {
		return nil, errors.New("input and player name cannot be empty")
	}

	id := normalize(input.PlayerName)
	key := statsKey(id)

	var stats *models.PlayerStats
	txf := func(tx *redis.Tx) error {
		current, err := loadStats(ctx, tx, key)
		if err != nil && !errors.Is(err, ErrPlayerNotFound) {
			return err
		}
		if current == nil {
			current = &models.PlayerStats{}
		}

		current.PlayerName = input.PlayerName
		current.GamesPlayed++
		if input.Won {
			current.Wins++
		}
		if input.Score > current.BestScore {
			current.BestScore = input.Score
		}
		if input.PlayedAt.After(current.LastPlayedAt) {
			current.LastPlayedAt = input.PlayedAt
		}

		statsJSON, err := json.Marshal(current)
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, statsJSON, 0)
			pipe.ZAdd(ctx, leaderboardKey, redis.Z{
				Score:  rank(current),
				Member: id,
			})
			return nil
		})
		if err != nil {
			return err
		}

		stats = current
		return nil
	}

	for attempt := 0; attempt < maxRecordAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return stats, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, fmt.Errorf("failed to record game: %w", err)
	}

	return nil, fmt.Errorf("failed to record game: %w", redis.TxFailedErr)
}

// GetPlayerStats retrieves a player's stats by display name
func (r *redisRepository) GetPlayerStats(ctx context.Context, input *GetPlayerStatsInput) (*models.PlayerStats, error) {
	if input == nil || strings.TrimSpace(input.PlayerName) == "" {
		return nil, errors.New("input and player name cannot be empty")
	}

	return loadStats(ctx, r.client, statsKey(normalize(input.PlayerName)))
}

// GetLeaderboard returns players ranked by wins, then best score
func (r *redisRepository) GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*models.Leaderboard, error) {
	limit := DefaultLimit
	if input != nil && input.Limit > 0 {
		limit = input.Limit
	}

	ids, err := r.client.ZRevRange(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	board := &models.Leaderboard{Entries: make([]*models.PlayerStats, 0, len(ids))}
	if len(ids) == 0 {
		return board, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = statsKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get player stats: %w", err)
	}

	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}

		var stats models.PlayerStats
		if err := json.Unmarshal([]byte(s), &stats); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
		}
		board.Entries = append(board.Entries, &stats)
	}

	return board, nil
}

// getter is satisfied by both *redis.Client and *redis.Tx
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func loadStats(ctx context.Context, c getter, key string) (*models.PlayerStats, error) {
	statsJSON, err := c.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	var stats models.PlayerStats
	if err := json.Unmarshal([]byte(statsJSON), &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
	}

	return &stats, nil
}

func rank(stats *models.PlayerStats) float64 {
	best := min(stats.BestScore, bestScoreSpan-1)
	return float64(stats.Wins)*bestScoreSpan + float64(best)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func statsKey(id string) string {
	return fmt.Sprintf("%s%s", statsKeyPrefix, id)
}

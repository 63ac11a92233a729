package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/zonk/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	resultKeyPrefix   = "result:"
	roomResultsPrefix = "room_results:"
	recentResultsKey  = "recent_results"

	// DefaultLimit is the page size when a caller does not ask for one
	DefaultLimit = 20

	// maxRecent bounds the recency index
	maxRecent = 500
)

// ErrResultNotFound is returned when a result is not found
var ErrResultNotFound = errors.New("result not found")

// Config holds configuration for the Redis results repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed results repository
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

// SaveResult persists a finished game and indexes it by recency and room
func (r *redisRepository) SaveResult(ctx context.Context, input *SaveResultInput) (*SaveResultOutput, error) {
	if input == nil || input.Result == nil {
		return nil, errors.New("input and result cannot be nil")
	}

	result := *input.Result
	if result.ID == "" {
		result.ID = uuid.New().String()
	}

	resultJSON, err := json.Marshal(&result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	score := float64(result.FinishedAt.UnixNano())

	pipe := r.client.TxPipeline()

	pipe.Set(ctx, resultKey(result.ID), resultJSON, 0)
	pipe.ZAdd(ctx, recentResultsKey, redis.Z{Score: score, Member: result.ID})
	// keep only the newest maxRecent ids in the index
	pipe.ZRemRangeByRank(ctx, recentResultsKey, 0, -maxRecent-1)

	if result.RoomID != "" {
		pipe.ZAdd(ctx, roomResultsPrefix+result.RoomID, redis.Z{Score: score, Member: result.ID})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to save result: %w", err)
	}

	return &SaveResultOutput{
		ResultID: result.ID,
	}, nil
}

// GetResult retrieves a finished game by ID from Redis
func (r *redisRepository) GetResult(ctx context.Context, input *GetResultInput) (*models.GameResult, error) {
	if input == nil || input.ResultID == "" {
		return nil, errors.New("input and result ID cannot be empty")
	}

	resultJSON, err := r.client.Get(ctx, resultKey(input.ResultID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	var result models.GameResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &result, nil
}

// GetRecentResults retrieves the most recently finished games
func (r *redisRepository) GetRecentResults(ctx context.Context, input *GetRecentResultsInput) (*GetRecentResultsOutput, error) {
	limit := DefaultLimit
	if input != nil && input.Limit > 0 {
		limit = input.Limit
	}

	return r.listByIndex(ctx, recentResultsKey, limit)
}

// GetRoomResults retrieves the games finished in a room
func (r *redisRepository) GetRoomResults(ctx context.Context, input *GetRoomResultsInput) (*GetRecentResultsOutput, error) {
	if input == nil || input.RoomID == "" {
		return nil, errors.New("input and room ID cannot be empty")
	}

	limit := DefaultLimit
	if input.Limit > 0 {
		limit = input.Limit
	}

	return r.listByIndex(ctx, roomResultsPrefix+input.RoomID, limit)
}

// listByIndex loads up to limit results named by a sorted-set index, newest first
func (r *redisRepository) listByIndex(ctx context.Context, indexKey string, limit int) (*GetRecentResultsOutput, error) {
	ids, err := r.client.ZRevRange(ctx, indexKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read result index: %w", err)
	}

	if len(ids) == 0 {
		return &GetRecentResultsOutput{Results: []*models.GameResult{}}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = resultKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}

	results := make([]*models.GameResult, 0, len(values))
	for _, v := range values {
		// an index entry can outlive its record
		s, ok := v.(string)
		if !ok {
			continue
		}

		var result models.GameResult
		if err := json.Unmarshal([]byte(s), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
		results = append(results, &result)
	}

	return &GetRecentResultsOutput{
		Results: results,
	}, nil
}

func resultKey(id string) string {
	return fmt.Sprintf("%s%s", resultKeyPrefix, id)
}

package player

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	ctx     context.Context
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.ctx = context.Background()
	s.testNow = time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) record(name string, score int, won bool, at time.Time) {
	_, err := s.repo.RecordGame(s.ctx, &RecordGameInput{
		PlayerName: name,
		Score:      score,
		Won:        won,
		PlayedAt:   at,
	})
	s.Require().NoError(err)
}

func (s *RedisRepositoryTestSuite) TestRecordGame_FirstGame() {
	stats, err := s.repo.RecordGame(s.ctx, &RecordGameInput{
		PlayerName: "Alice",
		Score:      1050,
		Won:        true,
		PlayedAt:   s.testNow,
	})
	s.Require().NoError(err)

	s.Equal("Alice", stats.PlayerName)
	s.Equal(1, stats.GamesPlayed)
	s.Equal(1, stats.Wins)
	s.Equal(1050, stats.BestScore)
	s.True(s.testNow.Equal(stats.LastPlayedAt))
}

func (s *RedisRepositoryTestSuite) TestRecordGame_Accumulates() {
	s.record("Bob", 400, false, s.testNow)
	s.record("Bob", 1200, true, s.testNow.Add(time.Hour))
	s.record("Bob", 300, false, s.testNow.Add(30*time.Minute))

	stats, err := s.repo.GetPlayerStats(s.ctx, &GetPlayerStatsInput{PlayerName: "Bob"})
	s.Require().NoError(err)

	s.Equal(3, stats.GamesPlayed)
	s.Equal(1, stats.Wins)
	s.Equal(1200, stats.BestScore)
	s.True(s.testNow.Add(time.Hour).Equal(stats.LastPlayedAt), "older games do not move LastPlayedAt back")
}

func (s *RedisRepositoryTestSuite) TestRecordGame_NameIsCaseInsensitive() {
	s.record("Alice", 500, false, s.testNow)
	s.record("  ALICE ", 1000, true, s.testNow)

	stats, err := s.repo.GetPlayerStats(s.ctx, &GetPlayerStatsInput{PlayerName: "alice"})
	s.Require().NoError(err)

	s.Equal(2, stats.GamesPlayed)
	s.Equal("  ALICE ", stats.PlayerName, "the latest spelling is kept for display")
}

func (s *RedisRepositoryTestSuite) TestRecordGame_EmptyName() {
	_, err := s.repo.RecordGame(s.ctx, &RecordGameInput{PlayerName: "   "})
	s.Error(err)

	_, err = s.repo.RecordGame(s.ctx, nil)
	s.Error(err)
}

func (s *RedisRepositoryTestSuite) TestGetPlayerStats_NotFound() {
	_, err := s.repo.GetPlayerStats(s.ctx, &GetPlayerStatsInput{PlayerName: "nobody"})
	s.ErrorIs(err, ErrPlayerNotFound)
}

func (s *RedisRepositoryTestSuite) TestGetLeaderboard_RanksByWinsThenBestScore() {
	s.record("Alice", 1000, true, s.testNow)
	s.record("Alice", 1100, true, s.testNow)
	s.record("Bob", 1500, true, s.testNow)
	s.record("Carol", 1000, true, s.testNow)
	s.record("Dave", 900, false, s.testNow)

	board, err := s.repo.GetLeaderboard(s.ctx, &GetLeaderboardInput{Limit: 3})
	s.Require().NoError(err)

	s.Require().Len(board.Entries, 3)
	s.Equal("Alice", board.Entries[0].PlayerName)
	s.Equal("Bob", board.Entries[1].PlayerName)
	s.Equal("Carol", board.Entries[2].PlayerName)
}

func (s *RedisRepositoryTestSuite) TestGetLeaderboard_Empty() {
	board, err := s.repo.GetLeaderboard(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(board.Entries)
}

package results

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/KirkDiggler/zonk/internal/models"
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

func (s *RedisRepositoryTestSuite) result(roomID string, finishedAt time.Time) *models.GameResult {
	return &models.GameResult{
		RoomID:       roomID,
		WinnerID:     "conn-a",
		WinnerName:   "Alice",
		WinningScore: 1000,
		Standings: []*models.Standing{
			{PlayerID: "conn-a", PlayerName: "Alice", Score: 1050},
			{PlayerID: "conn-b", PlayerName: "Bob", Score: 400},
		},
		FinishedAt: finishedAt,
	}
}

func (s *RedisRepositoryTestSuite) TestNewRedis_ConfigErrors() {
	_, err := NewRedis(nil)
	s.Error(err)

	_, err = NewRedis(&Config{})
	s.Error(err)
}

func (s *RedisRepositoryTestSuite) TestSaveAndGetResult() {
	out, err := s.repo.SaveResult(s.ctx, &SaveResultInput{
		Result: s.result("ROOM01", s.testNow),
	})
	s.Require().NoError(err)
	s.NotEmpty(out.ResultID)

	got, err := s.repo.GetResult(s.ctx, &GetResultInput{ResultID: out.ResultID})
	s.Require().NoError(err)

	s.Equal(out.ResultID, got.ID)
	s.Equal("ROOM01", got.RoomID)
	s.Equal("Alice", got.WinnerName)
	s.Equal(1000, got.WinningScore)
	s.True(s.testNow.Equal(got.FinishedAt))
	s.Require().Len(got.Standings, 2)
	s.Equal(400, got.Standings[1].Score)
}

func (s *RedisRepositoryTestSuite) TestSaveResult_KeepsGivenID() {
	r := s.result("ROOM01", s.testNow)
	r.ID = "fixed-id"

	out, err := s.repo.SaveResult(s.ctx, &SaveResultInput{Result: r})
	s.Require().NoError(err)
	s.Equal("fixed-id", out.ResultID)
	s.True(s.mr.Exists("result:fixed-id"))
}

func (s *RedisRepositoryTestSuite) TestSaveResult_NilInput() {
	_, err := s.repo.SaveResult(s.ctx, nil)
	s.Error(err)

	_, err = s.repo.SaveResult(s.ctx, &SaveResultInput{})
	s.Error(err)
}

func (s *RedisRepositoryTestSuite) TestGetResult_NotFound() {
	_, err := s.repo.GetResult(s.ctx, &GetResultInput{ResultID: "missing"})
	s.ErrorIs(err, ErrResultNotFound)
}

func (s *RedisRepositoryTestSuite) TestGetRecentResults_NewestFirst() {
	for i := 0; i < 5; i++ {
		r := s.result("ROOM01", s.testNow.Add(time.Duration(i)*time.Minute))
		r.ID = fmt.Sprintf("result-%d", i)
		_, err := s.repo.SaveResult(s.ctx, &SaveResultInput{Result: r})
		s.Require().NoError(err)
	}

	out, err := s.repo.GetRecentResults(s.ctx, &GetRecentResultsInput{Limit: 3})
	s.Require().NoError(err)

	s.Require().Len(out.Results, 3)
	s.Equal("result-4", out.Results[0].ID)
	s.Equal("result-3", out.Results[1].ID)
	s.Equal("result-2", out.Results[2].ID)
}

func (s *RedisRepositoryTestSuite) TestGetRecentResults_Empty() {
	out, err := s.repo.GetRecentResults(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(out.Results)
}

func (s *RedisRepositoryTestSuite) TestGetRecentResults_SkipsMissingRecords() {
	r := s.result("ROOM01", s.testNow)
	r.ID = "gone"
	_, err := s.repo.SaveResult(s.ctx, &SaveResultInput{Result: r})
	s.Require().NoError(err)
	s.mr.Del("result:gone")

	out, err := s.repo.GetRecentResults(s.ctx, &GetRecentResultsInput{})
	s.Require().NoError(err)
	s.Empty(out.Results)
}

func (s *RedisRepositoryTestSuite) TestGetRoomResults_FiltersByRoom() {
	a := s.result("ROOM01", s.testNow)
	a.ID = "a"
	b := s.result("ROOM02", s.testNow.Add(time.Minute))
	b.ID = "b"
	for _, r := range []*models.GameResult{a, b} {
		_, err := s.repo.SaveResult(s.ctx, &SaveResultInput{Result: r})
		s.Require().NoError(err)
	}

	out, err := s.repo.GetRoomResults(s.ctx, &GetRoomResultsInput{RoomID: "ROOM01"})
	s.Require().NoError(err)
	s.Require().Len(out.Results, 1)
	s.Equal("a", out.Results[0].ID)

	_, err = s.repo.GetRoomResults(s.ctx, &GetRoomResultsInput{})
	s.Error(err)
}

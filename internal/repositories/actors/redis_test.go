package actors

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/KirkDiggler/ability-engine/internal/domain/actor"
	dnderr "github.com/KirkDiggler/ability-engine/internal/errors"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepoTestSuite struct {
	suite.Suite
	mockClient *redis.Client
	mock       redismock.ClientMock
	repo       Repository
	ctx        context.Context
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.mockClient, s.mock = redismock.NewClientMock()
	s.repo = NewRedis(s.mockClient)
	s.ctx = context.Background()
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) doc() string {
	b, err := json.Marshal(Data{ID: "char-1", Name: "Ilsa", Level: 5, ClassID: "mage", ItemIDs: []string{"ring-of-recall"}})
	s.Require().NoError(err)
	return string(b)
}

func (s *RedisRepoTestSuite) TestGet() {
	s.mock.ExpectGet("actor:char-1").SetVal(s.doc())
	s.mock.ExpectGet("actor:char-1:location").SetVal("loc-square")
	s.mock.ExpectSMembers("actor:char-1:visited").SetVal([]string{"loc-square", "loc-gate"})

	got, err := s.repo.Get(s.ctx, "char-1")
	s.Require().NoError(err)
	s.Equal("mage", got.ClassID)
	s.Equal(5, got.Level)
	s.Equal("loc-square", got.CurrentLocationID)
	s.Equal([]string{"loc-gate", "loc-square"}, got.VisitedLocationIDs)
}

func (s *RedisRepoTestSuite) TestGet_NoLocationYet() {
	s.mock.ExpectGet("actor:char-1").SetVal(s.doc())
	s.mock.ExpectGet("actor:char-1:location").RedisNil()
	s.mock.ExpectSMembers("actor:char-1:visited").SetVal([]string{})

	got, err := s.repo.Get(s.ctx, "char-1")
	s.Require().NoError(err)
	s.Empty(got.CurrentLocationID)
	s.Empty(got.VisitedLocationIDs)
}

func (s *RedisRepoTestSuite) TestGet_NotFound() {
	s.mock.ExpectGet("actor:ghost").RedisNil()

	_, err := s.repo.Get(s.ctx, "ghost")
	s.True(dnderr.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestSave() {
	a := &actor.Actor{
		ID:                 "char-1",
		Name:               "Ilsa",
		Level:              5,
		ClassID:            "mage",
		ItemIDs:            []string{"ring-of-recall"},
		CurrentLocationID:  "loc-square",
		VisitedLocationIDs: []string{"loc-square", "loc-gate"},
	}

	s.mock.ExpectSet("actor:char-1", s.doc(), 0).SetVal("OK")
	s.mock.ExpectSet("actor:char-1:location", "loc-square", 0).SetVal("OK")
	s.mock.ExpectSAdd("actor:char-1:visited", "loc-square", "loc-gate").SetVal(2)

	s.NoError(s.repo.Save(s.ctx, a))
}

func (s *RedisRepoTestSuite) TestLocationWrites() {
	s.mock.ExpectSet("actor:char-1:location", "loc-gate", 0).SetVal("OK")
	s.mock.ExpectSAdd("actor:char-1:visited", "loc-gate").SetVal(0)

	s.NoError(s.repo.SetCurrentLocation(s.ctx, "char-1", "loc-gate"))
	s.NoError(s.repo.AddVisitedLocation(s.ctx, "char-1", "loc-gate"))
}

func (s *RedisRepoTestSuite) TestSetCurrentLocation_DependencyError() {
	s.mock.ExpectSet("actor:char-1:location", "loc-gate", 0).SetErr(errors.New("redis error"))

	err := s.repo.SetCurrentLocation(s.ctx, "char-1", "loc-gate")
	s.Equal(dnderr.CodeUnavailable, dnderr.GetCode(err))
}

package verifications

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	apperr "github.com/KirkDiggler/clash-profile-bot/internal/errors"
)

type RedisRepoTestSuite struct {
	suite.Suite
	mockClient *redis.Client
	mock       redismock.ClientMock
	repo       Repository
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.mockClient, s.mock = redismock.NewClientMock()
	s.repo = NewRedisRepository(&RedisRepoConfig{Client: s.mockClient})
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) TestIsOwner() {
	ctx := context.Background()

	s.mock.ExpectSIsMember("verification:2PP:owners", "U1").SetVal(true)
	ok, err := s.repo.IsOwner(ctx, "2PP", "U1")
	s.NoError(err)
	s.True(ok)

	s.mock.ExpectSIsMember("verification:2PP:owners", "U2").SetVal(false)
	ok, err = s.repo.IsOwner(ctx, "2PP", "U2")
	s.NoError(err)
	s.False(ok)

	s.mock.ExpectSIsMember("verification:2PP:owners", "U1").SetErr(errors.New("redis error"))
	_, err = s.repo.IsOwner(ctx, "2PP", "U1")
	s.Error(err)

	_, err = s.repo.IsOwner(ctx, "", "U1")
	s.True(apperr.IsInvalidArgument(err))
}

func (s *RedisRepoTestSuite) TestAdd() {
	ctx := context.Background()

	s.mock.ExpectSAdd("verification:2PP:owners", "U1").SetVal(1)
	s.mock.ExpectSAdd("user:U1:verified", "2PP").SetVal(1)
	s.NoError(s.repo.Add(ctx, "2PP", "U1"))

	s.mock.ExpectSAdd("verification:2PP:owners", "U1").SetErr(errors.New("redis error"))
	s.Error(s.repo.Add(ctx, "2PP", "U1"))

	s.Error(s.repo.Add(ctx, "2PP", ""))
}

func (s *RedisRepoTestSuite) TestRemove() {
	ctx := context.Background()

	s.mock.ExpectSRem("verification:2PP:owners", "U1").SetVal(1)
	s.mock.ExpectSRem("user:U1:verified", "2PP").SetVal(1)
	existed, err := s.repo.Remove(ctx, "2PP", "U1")
	s.NoError(err)
	s.True(existed)

	s.mock.ExpectSRem("verification:2PP:owners", "U1").SetVal(0)
	s.mock.ExpectSRem("user:U1:verified", "2PP").SetVal(0)
	existed, err = s.repo.Remove(ctx, "2PP", "U1")
	s.NoError(err)
	s.False(existed)
}

func (s *RedisRepoTestSuite) TestListByUser() {
	ctx := context.Background()

	s.mock.ExpectSMembers("user:U1:verified").SetVal([]string{"9YY", "2PP"})
	tags, err := s.repo.ListByUser(ctx, "U1")
	s.NoError(err)
	s.Equal([]string{"2PP", "9YY"}, tags)

	s.mock.ExpectSMembers("user:U1:verified").SetErr(errors.New("redis error"))
	_, err = s.repo.ListByUser(ctx, "U1")
	s.Error(err)
}

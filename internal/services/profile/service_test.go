package profile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"github.com/KirkDiggler/clash-profile-bot/internal/clients/clash"
	mockclash "github.com/KirkDiggler/clash-profile-bot/internal/clients/clash/mock"
	apperr "github.com/KirkDiggler/clash-profile-bot/internal/errors"
	"github.com/KirkDiggler/clash-profile-bot/internal/repositories/profiles"
	mockverifications "github.com/KirkDiggler/clash-profile-bot/internal/repositories/verifications/mock"
	"github.com/KirkDiggler/clash-profile-bot/internal/services/profile"
	"github.com/KirkDiggler/clash-profile-bot/internal/testutils"
)

type ServiceTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	clash         *mockclash.MockClient
	verifications *mockverifications.MockRepository
	defaults      *profiles.InMemoryRepository
	svc           profile.Service
	ctx           context.Context
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.clash = mockclash.NewMockClient(s.ctrl)
	s.verifications = mockverifications.NewMockRepository(s.ctrl)
	s.defaults = profiles.NewInMemoryRepository()
	s.ctx = context.Background()

	s.svc = profile.NewService(&profile.ServiceConfig{
		ClashClient:   s.clash,
		Defaults:      s.defaults,
		Verifications: s.verifications,
		Logger:        zaptest.NewLogger(s.T()),
	})
}

func (s *ServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) TestSaveThenResolveUsesDefault() {
	player := testutils.CreateTestPlayer("ABC123", "Chief")
	s.clash.EXPECT().FindPlayer(gomock.Any(), "ABC123").Return(&clash.LookupResult{Found: true, Player: player}, nil)

	tag, err := s.svc.SaveDefault(s.ctx, testutils.TestOwnerID, "#ABC123")
	s.Require().NoError(err)
	s.Equal("ABC123", tag)

	stored, err := s.defaults.Get(s.ctx, testutils.TestOwnerID)
	s.Require().NoError(err)
	s.Equal("ABC123", stored)

	resolved, err := s.svc.ResolveTag(s.ctx, testutils.TestOwnerID, "")
	s.Require().NoError(err)
	s.Equal("ABC123", resolved)
}

func (s *ServiceTestSuite) TestResolveTag_ExplicitWins() {
	s.Require().NoError(s.defaults.Set(s.ctx, testutils.TestOwnerID, "ABC123"))

	tag, err := s.svc.ResolveTag(s.ctx, testutils.TestOwnerID, "#2PP")
	s.NoError(err)
	s.Equal("#2PP", tag)
}

func (s *ServiceTestSuite) TestResolveTag_NoDefault() {
	_, err := s.svc.ResolveTag(s.ctx, testutils.TestOwnerID, "")
	s.True(apperr.IsNotFound(err))
}

func (s *ServiceTestSuite) TestSaveDefault_InvalidTagMakesNoCalls() {
	_, err := s.svc.SaveDefault(s.ctx, testutils.TestOwnerID, "#!!")
	s.True(apperr.IsInvalidArgument(err))

	_, err = s.defaults.Get(s.ctx, testutils.TestOwnerID)
	s.True(apperr.IsNotFound(err), "store must be untouched")
}

func (s *ServiceTestSuite) TestSaveDefault_NotFoundLeavesStoreUnchanged() {
	s.clash.EXPECT().FindPlayer(gomock.Any(), "2PP").Return(&clash.LookupResult{Found: false}, nil)

	_, err := s.svc.SaveDefault(s.ctx, testutils.TestOwnerID, "2pp")
	s.True(apperr.IsNotFound(err))

	_, err = s.defaults.Get(s.ctx, testutils.TestOwnerID)
	s.True(apperr.IsNotFound(err))
}

func (s *ServiceTestSuite) TestLookup_TransportError() {
	s.clash.EXPECT().FindPlayer(gomock.Any(), "2PP").Return(nil, errors.New("dial tcp: connection refused"))

	_, err := s.svc.Lookup(s.ctx, "#2PP")
	s.Require().Error(err)
	s.True(apperr.IsUnavailable(err))
	s.Contains(err.Error(), "connection refused")
}

func (s *ServiceTestSuite) TestLookup_UnavailablePassedThrough() {
	upstream := apperr.Unavailablef("lookup api returned 503: maintenance")
	s.clash.EXPECT().FindPlayer(gomock.Any(), "2PP").Return(nil, upstream)

	_, err := s.svc.Lookup(s.ctx, "#2PP")
	s.Same(upstream, err)
}

func (s *ServiceTestSuite) TestRemoveDefault() {
	existed, err := s.svc.RemoveDefault(s.ctx, testutils.TestOwnerID)
	s.NoError(err)
	s.False(existed, "nothing to remove")

	s.Require().NoError(s.defaults.Set(s.ctx, testutils.TestOwnerID, "ABC123"))
	existed, err = s.svc.RemoveDefault(s.ctx, testutils.TestOwnerID)
	s.NoError(err)
	s.True(existed)
}

func (s *ServiceTestSuite) TestIsVerified() {
	s.verifications.EXPECT().IsOwner(gomock.Any(), "2PP", testutils.TestOwnerID).Return(true, nil)

	ok, err := s.svc.IsVerified(s.ctx, "#2PP", testutils.TestOwnerID)
	s.NoError(err)
	s.True(ok)
}

func (s *ServiceTestSuite) TestInvalidUserID() {
	_, err := s.svc.RemoveDefault(s.ctx, "not-a-snowflake")
	s.True(apperr.IsInvalidArgument(err))

	_, err = s.svc.IsVerified(s.ctx, "2PP", "")
	s.True(apperr.IsInvalidArgument(err))
}

func TestNewService_PanicsWithoutDeps(t *testing.T) {
	assert.Panics(t, func() {
		profile.NewService(&profile.ServiceConfig{})
	})

	ctrl := gomock.NewController(t)
	require.NotPanics(t, func() {
		profile.NewService(&profile.ServiceConfig{
			ClashClient:   mockclash.NewMockClient(ctrl),
			Defaults:      profiles.NewInMemoryRepository(),
			Verifications: mockverifications.NewMockRepository(ctrl),
		})
	})
}

package services_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/Finterra/ledger_exchange_app/internal/apperrors"
	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	portsrepo "github.com/Finterra/ledger_exchange_app/internal/core/ports/repositories"
	portssvc "github.com/Finterra/ledger_exchange_app/internal/core/ports/services"
	"github.com/Finterra/ledger_exchange_app/internal/core/services"
	"github.com/Finterra/ledger_exchange_app/internal/dto"
	"github.com/Finterra/ledger_exchange_app/pkg/config"
)

type AuthServiceTestSuite struct {
	suite.Suite
	mockUserRepo *mockUserRepository
	service      portssvc.AuthSvc
	ctx          context.Context
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(mockUserRepository)
	cfg := &config.Config{
		JWTSecret:         "test-secret",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "ledger-exchange-app",
	}
	suite.service = services.NewAuthService(portsrepo.RepositoryProvider{
		UserRepo: suite.mockUserRepo,
	}, cfg)
	suite.ctx = context.Background()
}

func (suite *AuthServiceTestSuite) TestLoginSuccess() {
	apiKey := "key-123"
	digest := sha256.Sum256([]byte(apiKey))
	keyHash := hex.EncodeToString(digest[:])
	user := &domain.User{UserID: "user-1", Name: "Alex", IsActive: true}

	suite.mockUserRepo.On("FindUserByAPIKeyHash", suite.ctx, keyHash).Return(user, nil).Once()

	resp, err := suite.service.Login(suite.ctx, dto.LoginRequest{APIKey: apiKey})
	suite.Require().NoError(err)
	suite.Equal("user-1", resp.UserID)
	suite.Equal("Alex", resp.Name)
	suite.WithinDuration(time.Now().Add(time.Hour), resp.ExpiresAt, 5*time.Second)

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(resp.Token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	suite.Require().NoError(err)
	suite.True(token.Valid)
	suite.Equal("user-1", claims.Subject)
	suite.Equal("ledger-exchange-app", claims.Issuer)

	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestLoginUnknownKey() {
	suite.mockUserRepo.On("FindUserByAPIKeyHash", suite.ctx, mock.AnythingOfType("string")).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Login(suite.ctx, dto.LoginRequest{APIKey: "wrong"})
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestLoginInactiveUserLooksLikeUnknownKey() {
	user := &domain.User{UserID: "user-2", IsActive: false}
	suite.mockUserRepo.On("FindUserByAPIKeyHash", suite.ctx, mock.AnythingOfType("string")).
		Return(user, nil).Once()

	_, err := suite.service.Login(suite.ctx, dto.LoginRequest{APIKey: "revoked"})
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.ErrorContains(err, "invalid API key")
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

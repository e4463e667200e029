package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Finterra/ledger_exchange_app/internal/apperrors"
	portsrepo "github.com/Finterra/ledger_exchange_app/internal/core/ports/repositories"
	portssvc "github.com/Finterra/ledger_exchange_app/internal/core/ports/services"
	"github.com/Finterra/ledger_exchange_app/internal/dto"
	"github.com/Finterra/ledger_exchange_app/internal/middleware"
	"github.com/Finterra/ledger_exchange_app/pkg/config"
)

// authService exchanges API keys for signed tokens. Keys are stored as
// SHA-256 digests, never in the clear.
type authService struct {
	userRepo  portsrepo.UserRepository
	jwtSecret string
	jwtExpiry time.Duration
	jwtIssuer string
}

// NewAuthService creates an auth service from the application configuration.
func NewAuthService(repos portsrepo.RepositoryProvider, cfg *config.Config) portssvc.AuthSvc {
	return &authService{
		userRepo:  repos.UserRepo,
		jwtSecret: cfg.JWTSecret,
		jwtExpiry: cfg.JWTExpiryDuration,
		jwtIssuer: cfg.JWTIssuer,
	}
}

// Login verifies an API key and issues a signed token. Unknown and inactive
// keys come back as the same not-found error so keys cannot be probed.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	digest := sha256.Sum256([]byte(req.APIKey))
	keyHash := hex.EncodeToString(digest[:])

	user, err := s.userRepo.FindUserByAPIKeyHash(ctx, keyHash)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid API key", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("finding user: %w", err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: invalid API key", apperrors.ErrNotFound)
	}

	now := time.Now()
	expiresAt := now.Add(s.jwtExpiry)
	claims := jwt.RegisteredClaims{
		Subject:   user.UserID,
		Issuer:    s.jwtIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("user logged in", "userID", user.UserID)
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    user.UserID,
		Name:      user.Name,
	}, nil
}

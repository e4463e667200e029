package services

import (
	"context"

	"github.com/Finterra/ledger_exchange_app/internal/dto"
)

// AuthSvc exchanges API keys for short-lived JWTs.
type AuthSvc interface {
	// Login verifies an API key and issues a signed token.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

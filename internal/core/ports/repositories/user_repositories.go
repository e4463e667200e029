package repositories

import (
	"context"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
)

// UserRepository provides access to API users.
type UserRepository interface {
	// FindUserByID retrieves a user by its unique identifier.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByAPIKeyHash retrieves the active user carrying the given API
	// key digest.
	FindUserByAPIKeyHash(ctx context.Context, keyHash string) (*domain.User, error)

	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error
}

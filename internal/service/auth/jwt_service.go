// Package auth provides JWT token handling and password hashing. The
// scheduling core never touches this package; it only ever receives the
// user ID the middleware extracted from a validated token.
package auth

import (
	"context"

	"github.com/google/uuid"
)

// Claims carries the application-level fields extracted from a token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID
}

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for the user.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken validates a token string and extracts its claims.
	// Returns ErrExpiredToken or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

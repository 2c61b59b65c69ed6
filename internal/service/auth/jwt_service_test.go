package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowanfell/mnemo-api/internal/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:         "test-secret-that-is-long-enough-0123456789",
		TokenLifetimeMins: 60,
		BcryptCost:        4,
	}
}

func TestJWTRoundTrip(t *testing.T) {
	t.Parallel()

	service := NewJWTService(testAuthConfig())
	userID := uuid.New()

	token, err := service.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	t.Parallel()

	service := NewJWTService(testAuthConfig())

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := service.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewJWTService(testAuthConfig())
	token, err := issuer.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	other := testAuthConfig()
	other.JWTSecret = "a-completely-different-secret-9876543210"
	verifier := NewJWTService(other)

	_, err = verifier.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	t.Parallel()

	cfg := testAuthConfig()
	cfg.TokenLifetimeMins = 1
	service := NewJWTService(cfg).(*jwtServiceImpl)
	service.lifetime = -time.Minute

	token, err := service.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	_, err = service.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestBcryptHasherRoundTrip(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, hasher.Compare(hash, "correct horse battery staple"))
	assert.Error(t, hasher.Compare(hash, "wrong password"))
}

func TestBcryptHasherCostFallback(t *testing.T) {
	t.Parallel()

	// Out-of-range costs fall back to the bcrypt default rather than
	// failing at hash time.
	hasher := NewBcryptHasher(99)
	hash, err := hasher.Hash("some password")
	require.NoError(t, err)
	assert.NoError(t, hasher.Compare(hash, "some password"))
}

package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGenerator() *Generator {
	return NewGenerator(TokenConfig{
		Secret:               "test-secret-key-for-unit-tests",
		Issuer:               "erp-textil-test",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 24 * time.Hour,
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	g := testGenerator()

	token, expiresAt, err := g.GenerateAccessToken("user-1", "maria", "editor", "sess-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := g.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "maria", claims.Username)
	assert.Equal(t, "editor", claims.Role)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestGenerateAccessTokenRequiresUserID(t *testing.T) {
	g := testGenerator()

	_, _, err := g.GenerateAccessToken("", "maria", "editor", "sess-1")
	assert.ErrorIs(t, err, ErrEmptyUserID)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	g := testGenerator()
	other := NewGenerator(TokenConfig{
		Secret:              "a-different-secret",
		Issuer:              "erp-textil-test",
		AccessTokenDuration: 15 * time.Minute,
	})

	token, _, err := g.GenerateAccessToken("user-1", "maria", "editor", "sess-1")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	g := NewGenerator(TokenConfig{
		Secret:              "test-secret-key-for-unit-tests",
		Issuer:              "erp-textil-test",
		AccessTokenDuration: -time.Minute,
	})

	token, _, err := g.GenerateAccessToken("user-1", "maria", "editor", "sess-1")
	require.NoError(t, err)

	_, err = g.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenTypeEnforcement(t *testing.T) {
	g := testGenerator()

	pair, err := g.GenerateTokenPair("user-1", "maria", "admin", "sess-1")
	require.NoError(t, err)

	_, err = g.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	_, err = g.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	claims, err := g.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Empty(t, claims.Role, "refresh tokens carry no role")
}

func TestRefreshTokensHaveUniqueJTI(t *testing.T) {
	g := testGenerator()

	t1, _, err := g.GenerateRefreshToken("user-1", "sess-1")
	require.NoError(t, err)
	t2, _, err := g.GenerateRefreshToken("user-1", "sess-1")
	require.NoError(t, err)

	assert.NotEqual(t, t1, t2)
}

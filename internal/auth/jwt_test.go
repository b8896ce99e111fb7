package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	m, err := NewTokenManager("super-secret", time.Hour)
	require.NoError(t, err)

	tok, err := m.GenerateToken("user-123")
	require.NoError(t, err)

	claims, err := m.ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestGenerateToken_UniquePerCall(t *testing.T) {
	t.Parallel()

	m, err := NewTokenManager("super-secret", time.Hour)
	require.NoError(t, err)

	first, err := m.GenerateToken("user-123")
	require.NoError(t, err)
	second, err := m.GenerateToken("user-123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestNewTokenManager_Defaults(t *testing.T) {
	t.Parallel()

	m, err := NewTokenManager("k", 0)
	require.NoError(t, err)
	assert.Equal(t, 23*time.Hour, m.TTL())

	_, err = NewTokenManager("", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	m, err := NewTokenManager("secret", time.Hour)
	require.NoError(t, err)

	issued := time.Now().Add(-24 * time.Hour)
	m.now = func() time.Time { return issued }
	tok, err := m.GenerateToken("u1")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ParseToken(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	right, _ := NewTokenManager("right-secret", time.Hour)
	wrong, _ := NewTokenManager("wrong-secret", time.Hour)

	tok, err := right.GenerateToken("u2")
	require.NoError(t, err)

	_, err = wrong.ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_MalformedString(t *testing.T) {
	t.Parallel()

	m, _ := NewTokenManager("k", time.Hour)
	_, err := m.ParseToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_RejectsNoneAlgorithm(t *testing.T) {
	t.Parallel()

	m, _ := NewTokenManager("k", time.Hour)
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "u3",
	})
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_MissingUserID(t *testing.T) {
	t.Parallel()

	m, _ := NewTokenManager("k", time.Hour)
	tok, err := m.GenerateToken("")
	require.NoError(t, err)

	_, err = m.ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

package auth_test

import (
	"testing"
	"time"

	"github.com/opsboard/deptask/internal/auth"
	"github.com/opsboard/deptask/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, auth.CheckPassword("correct horse battery staple", hash))
	assert.False(t, auth.CheckPassword("wrong password", hash))
	assert.False(t, auth.CheckPassword("", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	user := &domain.User{ID: "user-123", Role: domain.RoleEmployee}

	token, err := auth.IssueToken(user, secret, time.Now())
	require.NoError(t, err)

	userID, err := auth.ParseToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestParseToken_WrongSecret(t *testing.T) {
	user := &domain.User{ID: "user-123"}

	token, err := auth.IssueToken(user, []byte("secret-a"), time.Now())
	require.NoError(t, err)

	_, err = auth.ParseToken(token, []byte("secret-b"))
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	secret := []byte("test-secret")
	user := &domain.User{ID: "user-123"}

	issuedAt := time.Now().Add(-2 * auth.TokenTTL)
	token, err := auth.IssueToken(user, secret, issuedAt)
	require.NoError(t, err)

	_, err = auth.ParseToken(token, secret)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := auth.ParseToken("not-a-token", []byte("test-secret"))
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuth(t *testing.T) AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService(OperatorCredentials{Username: "operator", PasswordHash: string(hash)}, []byte("secret"), time.Hour)
}

func TestAuthService_Login(t *testing.T) {
	auth := newTestAuth(t)

	resp, err := auth.Login("operator", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "operator", resp.Username)
	assert.Contains(t, resp.Privileges, "ledger:write")

	claims, err := auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Username)
}

func TestAuthService_LoginRejects(t *testing.T) {
	auth := newTestAuth(t)

	_, err := auth.Login("operator", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login("someone", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = NewAuthService(OperatorCredentials{}, []byte("secret"), 0).Login("", "")
	assert.ErrorIs(t, err, ErrLoginDisabled)
}

package service

import (
	"crypto/subtle"
	"errors"
	"time"

	"go-paper-ledger/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrLoginDisabled      = errors.New("operator login is not configured")
)

// Privileges granted to the operator account.
var operatorPrivileges = []string{"ledger:read", "ledger:write"}

type AuthService interface {
	Login(username, password string) (*LoginResponse, error)
	ValidateToken(tokenString string) (*jwt.Claims, error)
}

type LoginResponse struct {
	Token      string    `json:"token"`
	Username   string    `json:"username"`
	Privileges []string  `json:"privileges"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// OperatorCredentials is the single account allowed to use the API.
type OperatorCredentials struct {
	Username     string
	PasswordHash string
}

type authService struct {
	operator OperatorCredentials
	secret   []byte
	ttl      time.Duration
}

func NewAuthService(operator OperatorCredentials, secret []byte, ttl time.Duration) AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &authService{operator: operator, secret: secret, ttl: ttl}
}

func (s *authService) Login(username, password string) (*LoginResponse, error) {
	if s.operator.Username == "" || s.operator.PasswordHash == "" {
		return nil, ErrLoginDisabled
	}

	// 1. Verify username
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.operator.Username)) != 1 {
		return nil, ErrInvalidCredentials
	}

	// 2. Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(s.operator.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. Issue token
	token, err := jwt.GenerateToken(s.secret, username, operatorPrivileges, s.ttl)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token:      token,
		Username:   username,
		Privileges: operatorPrivileges,
		ExpiresAt:  time.Now().Add(s.ttl),
	}, nil
}

func (s *authService) ValidateToken(tokenString string) (*jwt.Claims, error) {
	return jwt.ValidateToken(s.secret, tokenString)
}

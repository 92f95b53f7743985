package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	Store    *Store
	Secret   string
	TokenTTL time.Duration
}

func NewService(store *Store, secret string, ttl time.Duration) *Service {
	return &Service{Store: store, Secret: secret, TokenTTL: ttl}
}

type LoginResult struct {
	Token      string `json:"token"`
	UserID     string `json:"userId"`
	EmployeeID string `json:"employeeId,omitempty"`
	Role       Role   `json:"role"`
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, err := s.Store.FindActiveUserByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := GenerateToken(s.Secret, Claims{
		UserID:     user.ID,
		EmployeeID: user.EmployeeID,
		Role:       string(user.Role),
	}, s.TokenTTL)
	if err != nil {
		return LoginResult{}, err
	}

	if err := s.Store.CreateSession(ctx, user.ID, TokenHash(token), time.Now().Add(s.TokenTTL)); err != nil {
		return LoginResult{}, err
	}
	_ = s.Store.UpdateLastLogin(ctx, user.ID)

	return LoginResult{Token: token, UserID: user.ID, EmployeeID: user.EmployeeID, Role: user.Role}, nil
}

func (s *Service) Logout(ctx context.Context, userID, token string) error {
	return s.Store.RevokeSession(ctx, userID, TokenHash(token))
}

func TokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Package auth issues and validates the signed session tokens the REST
// surface requires. The rest of the core only ever consumes the resolved
// owner id.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"focusdock/internal/apperrors"
	"focusdock/internal/models"
	"focusdock/internal/repository"
)

type Service struct {
	users    repository.UserStore
	secret   []byte
	tokenTTL time.Duration
}

func NewService(users repository.UserStore, secret string, tokenTTL time.Duration) *Service {
	return &Service{
		users:    users,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

type Result struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (s *Service) Register(ctx context.Context, email, password string) (*Result, *apperrors.Error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, apperrors.Validation("email is required")
	}
	if len(password) < 6 {
		return nil, apperrors.Validation("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("failed to secure password")
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.NewString(),
		Email:        normalized,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, &user); err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Internal("failed to create user")
	}

	token, apiErr := s.issueToken(user)
	if apiErr != nil {
		return nil, apiErr
	}
	user.PasswordHash = ""
	return &Result{Token: token, User: user}, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*Result, *apperrors.Error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" || password == "" {
		return nil, apperrors.Validation("email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, normalized)
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) && appErr.Status == http.StatusNotFound {
			return nil, apperrors.Unauthorized("invalid email or password")
		}
		return nil, apperrors.Internal("failed to query user")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	token, apiErr := s.issueToken(*user)
	if apiErr != nil {
		return nil, apiErr
	}
	user.PasswordHash = ""
	return &Result{Token: token, User: *user}, nil
}

// ParseToken resolves a signed session token to its owner id.
func (s *Service) ParseToken(tokenString string) (string, *apperrors.Error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", apperrors.Unauthorized("invalid token")
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", apperrors.Unauthorized("invalid token")
	}
	return claims.Subject, nil
}

func (s *Service) issueToken(user models.User) (string, *apperrors.Error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.Internal("failed to sign token")
	}
	return signed, nil
}

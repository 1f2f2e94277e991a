package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"minishop/internal/apperror"
	"minishop/internal/logger"
	"minishop/internal/metrics"
	"minishop/internal/models"
	"minishop/internal/store"
)

// Service implements signup and login over the credential store.
type Service struct {
	users  store.UserStore
	hasher Hasher
	issuer Issuer
}

func NewService(users store.UserStore, hasher Hasher, issuer Issuer) *Service {
	return &Service{users: users, hasher: hasher, issuer: issuer}
}

type LoginResult struct {
	Token   string
	Name    string
	IsAdmin bool
}

// NormalizeEmail trims and lower-cases an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a non-admin user and returns its id.
func (s *Service) Signup(ctx context.Context, name, email, password string) (string, error) {
	log := logger.For(ctx, "auth")
	email = NormalizeEmail(email)

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		log.Info("signup rejected, email exists", "email", email)
		return "", apperror.Conflict("Email already registered")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("signup lookup: %w", err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("signup hash: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: digest,
		IsAdmin:      false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// lost a race with a concurrent signup for the same email
			return "", apperror.Conflict("Email already registered")
		}
		return "", fmt.Errorf("signup insert: %w", err)
	}

	log.Info("user registered", "user_id", user.ID.Hex())
	return user.ID.Hex(), nil
}

// Login checks credentials and replaces the user's token with a fresh one.
// The previous token stops resolving as soon as the new one is stored.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	log := logger.For(ctx, "auth")
	email = NormalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		metrics.Logins.WithLabelValues("invalid_credentials").Inc()
		log.Info("login failed, unknown email")
		return nil, apperror.Unauthenticated("Invalid credentials")
	}
	if err != nil {
		metrics.Logins.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		metrics.Logins.WithLabelValues("invalid_credentials").Inc()
		log.Info("login failed, password mismatch", "user_id", user.ID.Hex())
		return nil, apperror.Unauthenticated("Invalid credentials")
	}

	token, err := s.issuer.Issue()
	if err != nil {
		metrics.Logins.WithLabelValues("error").Inc()
		return nil, err
	}
	if err := s.users.SetToken(ctx, user.ID, token); err != nil {
		metrics.Logins.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login store token: %w", err)
	}

	metrics.Logins.WithLabelValues("success").Inc()
	log.Info("login succeeded", "user_id", user.ID.Hex())
	return &LoginResult{Token: token, Name: user.Name, IsAdmin: user.IsAdmin}, nil
}

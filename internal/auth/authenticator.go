package auth

import (
	"context"
	"errors"
	"fmt"

	"minishop/internal/store"
)

// Identity is the caller resolved from a bearer token.
type Identity struct {
	UserID  string
	Name    string
	Email   string
	IsAdmin bool
}

type Authenticator struct {
	users store.UserStore
}

func NewAuthenticator(users store.UserStore) *Authenticator {
	return &Authenticator{users: users}
}

// Resolve maps token to an Identity. An empty or unknown token resolves to
// nil with no error; only store failures are returned.
func (a *Authenticator) Resolve(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, nil
	}
	user, err := a.users.FindByToken(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve token: %w", err)
	}
	return &Identity{
		UserID:  user.ID.Hex(),
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}, nil
}

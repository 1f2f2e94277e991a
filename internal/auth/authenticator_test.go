package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minishop/internal/models"
	"minishop/internal/store/storetest"
)

func TestResolve(t *testing.T) {
	users := storetest.NewUsers()
	token := "a1b2c3"
	stored := users.Put(models.User{Name: "Ann", Email: "ann@x.com", IsAdmin: true, Token: &token})
	authn := NewAuthenticator(users)
	ctx := context.Background()

	id, err := authn.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = authn.Resolve(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = authn.Resolve(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, stored.ID.Hex(), id.UserID)
	assert.Equal(t, "Ann", id.Name)
	assert.True(t, id.IsAdmin)
}

func TestResolveStoreFailure(t *testing.T) {
	users := storetest.NewUsers()
	users.Err = errors.New("server selection timeout")

	id, err := NewAuthenticator(users).Resolve(context.Background(), "token")
	assert.Error(t, err)
	assert.Nil(t, id)
}

//go:build integration
// +build integration

package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	email := "user-" + uuid.New().String() + "@example.com"

	id, err := db.CreateUser(ctx, email, "hash")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	exists, err := db.CheckEmailExists(ctx, email)
	require.NoError(t, err)
	assert.True(t, exists)

	u, err := db.GetUserByEmail(ctx, email)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "hash", u.PasswordHash)
}

func TestGetUserByEmail_Unknown_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	u, err := db.GetUserByEmail(context.Background(), "nobody-"+uuid.New().String()+"@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

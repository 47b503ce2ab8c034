package profiles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/KirkDiggler/clash-profile-bot/internal/errors"
)

func TestInMemoryRepository(t *testing.T) {
	ctx := context.Background()
	var repo Repository = NewInMemoryRepository()

	_, err := repo.Get(ctx, "U1")
	assert.True(t, apperr.IsNotFound(err))

	require.NoError(t, repo.Set(ctx, "U1", "ABC123"))
	tag, err := repo.Get(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, "ABC123", tag)

	require.NoError(t, repo.Set(ctx, "U1", "2PP"))
	tag, err = repo.Get(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, "2PP", tag)

	existed, err := repo.Delete(ctx, "U1")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = repo.Delete(ctx, "U1")
	require.NoError(t, err)
	assert.False(t, existed)
}

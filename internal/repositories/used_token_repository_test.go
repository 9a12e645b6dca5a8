package repositories_test

import (
	"testing"
	"time"

	"transport_backend/internal/models"
	"transport_backend/internal/repositories"
	"transport_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsedTokenRepository_MarkOnce(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewUsedTokenRepository()
	expires := time.Now().Add(30 * time.Minute)

	consumed, err := repo.IsConsumed(db, "token-a")
	require.NoError(t, err)
	assert.False(t, consumed)

	marked, err := repo.MarkConsumed(db, "token-a", expires)
	require.NoError(t, err)
	assert.True(t, marked)

	// Повторная отметка проигрывает
	marked, err = repo.MarkConsumed(db, "token-a", expires)
	require.NoError(t, err)
	assert.False(t, marked)

	consumed, err = repo.IsConsumed(db, "token-a")
	require.NoError(t, err)
	assert.True(t, consumed)

	consumed, err = repo.IsConsumed(db, "token-b")
	require.NoError(t, err)
	assert.False(t, consumed)
}

func TestUsedTokenRepository_StoresOnlyHash(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewUsedTokenRepository()

	_, err := repo.MarkConsumed(db, "plain-token", time.Now().Add(time.Minute))
	require.NoError(t, err)

	var row models.UsedToken
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, repositories.HashToken("plain-token"), row.TokenHash)
	assert.Len(t, row.TokenHash, 64)
	assert.NotContains(t, row.TokenHash, "plain-token")
}

func TestUsedTokenRepository_PurgeExpired(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewUsedTokenRepository()
	now := time.Now()

	_, err := repo.MarkConsumed(db, "old", now.Add(-time.Minute))
	require.NoError(t, err)
	_, err = repo.MarkConsumed(db, "fresh", now.Add(time.Hour))
	require.NoError(t, err)

	purged, err := repo.PurgeExpired(db, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	consumed, err := repo.IsConsumed(db, "fresh")
	require.NoError(t, err)
	assert.True(t, consumed)
}

package workers_test

import (
	"context"
	"testing"
	"time"

	"transport_backend/internal/models"
	"transport_backend/internal/repositories"
	"transport_backend/internal/workers"
	"transport_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupWorker_RunOnce(t *testing.T) {
	db := helpers.NewTestDB(t)
	user := helpers.CreateUser(t, db, "driver@example.com", "secret123")
	now := time.Now()

	codes := []models.OneTimeCode{
		{Channel: models.OTPChannelEmail, Address: "old@example.com", Code: "111111", ExpiresAt: now.Add(-time.Minute)},
		{Channel: models.OTPChannelEmail, Address: "new@example.com", Code: "222222", ExpiresAt: now.Add(time.Minute)},
	}
	require.NoError(t, db.Create(&codes).Error)

	tokens := []models.UsedToken{
		{TokenHash: repositories.HashToken("expired"), ExpiresAt: now.Add(-time.Hour), ConsumedAt: now.Add(-2 * time.Hour)},
		{TokenHash: repositories.HashToken("live"), ExpiresAt: now.Add(time.Hour), ConsumedAt: now},
	}
	require.NoError(t, db.Create(&tokens).Error)

	old := now.Add(-40 * 24 * time.Hour)
	notifications := []models.Notification{
		{BaseModel: models.BaseModel{CreatedAt: old}, UserID: user.ID, Title: "old read", IsRead: true},
		{BaseModel: models.BaseModel{CreatedAt: old}, UserID: user.ID, Title: "old unread"},
		{UserID: user.ID, Title: "fresh read", IsRead: true},
	}
	require.NoError(t, db.Create(&notifications).Error)

	w := workers.NewCleanupWorker(
		db,
		repositories.NewOneTimeCodeRepository(),
		repositories.NewUsedTokenRepository(),
		repositories.NewNotificationRepository(),
		workers.DefaultCleanupConfig(),
	)
	w.RunOnce(context.Background())

	var leftCodes []models.OneTimeCode
	require.NoError(t, db.Find(&leftCodes).Error)
	require.Len(t, leftCodes, 1)
	assert.Equal(t, "new@example.com", leftCodes[0].Address)

	var leftTokens []models.UsedToken
	require.NoError(t, db.Find(&leftTokens).Error)
	require.Len(t, leftTokens, 1)
	assert.Equal(t, repositories.HashToken("live"), leftTokens[0].TokenHash)

	var titles []string
	require.NoError(t, db.Model(&models.Notification{}).Order("title").Pluck("title", &titles).Error)
	assert.Equal(t, []string{"fresh read", "old unread"}, titles)
}

func TestCleanupWorker_StopsOnCancel(t *testing.T) {
	db := helpers.NewTestDB(t)
	w := workers.NewCleanupWorker(
		db,
		repositories.NewOneTimeCodeRepository(),
		repositories.NewUsedTokenRepository(),
		repositories.NewNotificationRepository(),
		workers.CleanupConfig{Interval: 10 * time.Millisecond},
	)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		w.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("воркер не остановился после отмены контекста")
	}
}

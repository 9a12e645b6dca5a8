package services_test

import (
	"context"
	"testing"

	"transport_backend/internal/models"
	"transport_backend/internal/repositories"
	"transport_backend/internal/services"
	"transport_backend/internal/services/dto"
	"transport_backend/pkg/apperrors"
	"transport_backend/test/helpers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateUserIsVerified(t *testing.T) {
	ctx := context.Background()
	db := helpers.NewTestDB(t)
	users := services.NewUserService(repositories.NewUserRepository(), 0)

	created, err := users.CreateUser(ctx, db, &dto.CreateUserRequest{
		Name:     " Dispatcher ",
		Email:    "Dispatch@Example.com",
		Mobile:   "+77001112233",
		Password: "secret123",
		Type:     models.UserTypeDriver,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dispatcher", created.Name)
	assert.Equal(t, "dispatch@example.com", created.Email)
	assert.Equal(t, models.UserTypeDriver, created.Type)
	assert.True(t, created.IsVerified)

	_, err = users.CreateUser(ctx, db, &dto.CreateUserRequest{
		Name:     "Copy",
		Email:    "dispatch@example.com",
		Mobile:   "+77009998877",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailOrMobileExists)

	me, err := users.GetMe(ctx, db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, me.ID)

	_, err = users.GetMe(ctx, db, uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserService_PartialUpdatePermissions(t *testing.T) {
	ctx := context.Background()
	db := helpers.NewTestDB(t)
	users := services.NewUserService(repositories.NewUserRepository(), 0)

	alice := helpers.CreateUser(t, db, "alice@example.com", "secret123")
	bob := helpers.CreateUser(t, db, "bob@example.com", "secret123")
	admin := helpers.CreateUser(t, db, "admin@example.com", "secret123", helpers.WithType(models.UserTypeAdmin))

	aliceActor := services.Actor{ID: alice.ID, Type: alice.Type}
	adminActor := services.Actor{ID: admin.ID, Type: admin.Type}

	name := "Alice Cargo"
	updated, err := users.PartialUpdate(ctx, db, aliceActor, alice.ID, &dto.PartialUpdateUserRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice Cargo", updated.Name)
	assert.Equal(t, alice.Mobile, updated.Mobile)

	_, err = users.PartialUpdate(ctx, db, aliceActor, bob.ID, &dto.PartialUpdateUserRequest{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrUserUpdateForbidden)

	driver := models.UserTypeDriver
	_, err = users.PartialUpdate(ctx, db, aliceActor, alice.ID, &dto.PartialUpdateUserRequest{Type: &driver})
	assert.ErrorIs(t, err, apperrors.ErrUserUpdateForbidden)

	updated, err = users.PartialUpdate(ctx, db, adminActor, bob.ID, &dto.PartialUpdateUserRequest{Type: &driver})
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeDriver, updated.Type)

	_, err = users.PartialUpdate(ctx, db, adminActor, uuid.NewString(), &dto.PartialUpdateUserRequest{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserService_ListUsers(t *testing.T) {
	ctx := context.Background()
	db := helpers.NewTestDB(t)
	users := services.NewUserService(repositories.NewUserRepository(), 0)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		helpers.CreateUser(t, db, email, "secret123")
	}

	page, err := users.ListUsers(ctx, db, dto.PageRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
}

func TestUserService_PartialUpdateMobileTaken(t *testing.T) {
	ctx := context.Background()
	db := helpers.NewTestDB(t)
	users := services.NewUserService(repositories.NewUserRepository(), 0)

	alice := helpers.CreateUser(t, db, "alice@example.com", "secret123")
	bob := helpers.CreateUser(t, db, "bob@example.com", "secret123")

	_, err := users.PartialUpdate(ctx, db, services.Actor{ID: alice.ID, Type: alice.Type}, alice.ID,
		&dto.PartialUpdateUserRequest{Mobile: &bob.Mobile})
	require.ErrorIs(t, err, apperrors.ErrEmailOrMobileExists)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.HTTPCode)
}

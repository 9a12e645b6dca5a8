package services_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"transport_backend/internal/models"
	"transport_backend/internal/repositories"
	"transport_backend/internal/services"
	"transport_backend/internal/services/dto"
	"transport_backend/internal/storage"
	"transport_backend/pkg/apperrors"
	"transport_backend/test/helpers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type postFixture struct {
	db      *gorm.DB
	store   *storage.LocalStorage
	uploads services.UploadService
	posts   services.PostService
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()

	store, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir(), BaseURL: "/uploads"})
	require.NoError(t, err)

	uploads := services.NewUploadService(repositories.NewMediaRepository(), store, nil)
	return &postFixture{
		db:      helpers.NewTestDB(t),
		store:   store,
		uploads: uploads,
		posts:   services.NewPostService(repositories.NewPostRepository(), uploads),
	}
}

// storedMedia кладет файл в хранилище и создает запись Media
func (f *postFixture) storedMedia(t *testing.T) *models.Media {
	t.Helper()
	ctx := context.Background()

	id := uuid.NewString()
	filename := id + ".png"
	require.NoError(t, f.store.Save(ctx, filename, strings.NewReader("png"), "image/png"))

	media := &models.Media{
		BaseModel: models.BaseModel{ID: id},
		Type:      models.MediaTypeImage,
		URL:       f.store.URL(filename),
		Filename:  filename,
		MimeType:  "image/png",
	}
	require.NoError(t, f.db.Create(media).Error)
	return media
}

func createPost(t *testing.T, f *postFixture, userID string, imageIDs ...string) *models.Post {
	t.Helper()
	if len(imageIDs) == 0 {
		imageIDs = []string{uuid.NewString()}
	}
	post, err := f.posts.CreatePost(context.Background(), f.db, userID, &dto.CreatePostRequest{
		Title:    "Cargo",
		Content:  "Moving furniture",
		ImageIDs: imageIDs,
	})
	require.NoError(t, err)
	return post
}

func TestPostService_CreateResolvesImages(t *testing.T) {
	f := newPostFixture(t)
	user := helpers.CreateUser(t, f.db, "poster@example.com", "secret123")
	media := f.storedMedia(t)

	post := createPost(t, f, user.ID, media.ID, uuid.NewString())

	assert.True(t, post.IsActive)
	assert.Len(t, post.ImageIDs, 2)
	// отсутствующие медиа пропускаются
	require.Len(t, post.Images, 1)
	assert.Equal(t, media.ID, post.Images[0].ID)
}

func TestPostService_ListMyPosts_Pagination(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	user := helpers.CreateUser(t, f.db, "many@example.com", "secret123")
	other := helpers.CreateUser(t, f.db, "other@example.com", "secret123")

	for i := 0; i < 15; i++ {
		createPost(t, f, user.ID)
	}
	createPost(t, f, other.ID)

	page, err := f.posts.ListMyPosts(ctx, f.db, user.ID, dto.PageRequest{Page: 2, Limit: 10})
	require.NoError(t, err)

	assert.Len(t, page.Items, 5)
	assert.Equal(t, int64(15), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Equal(t, 10, page.Pagination.Limit)
	assert.Equal(t, 2, page.Pagination.TotalPages)

	all, err := f.posts.ListPosts(ctx, f.db, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(16), all.Pagination.Total)
	assert.Len(t, all.Items, dto.DefaultLimit)
}

func TestPostService_UpdatePost(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	owner := helpers.CreateUser(t, f.db, "owner@example.com", "secret123")
	stranger := helpers.CreateUser(t, f.db, "stranger@example.com", "secret123")
	post := createPost(t, f, owner.ID)

	updated, err := f.posts.UpdatePost(ctx, f.db, owner.ID, post.ID, &dto.UpdatePostRequest{
		Title:   "New title",
		Content: "New content",
	})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Empty(t, updated.ImageIDs)

	_, err = f.posts.UpdatePost(ctx, f.db, stranger.ID, post.ID, &dto.UpdatePostRequest{
		Title:   "Hijack",
		Content: "Hijack",
	})
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)

	got, err := f.posts.GetPost(ctx, f.db, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "New title", got.Title)
}

func TestPostService_DeletePostRemovesMedia(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	owner := helpers.CreateUser(t, f.db, "delete@example.com", "secret123")
	stranger := helpers.CreateUser(t, f.db, "nosy@example.com", "secret123")
	media := f.storedMedia(t)
	post := createPost(t, f, owner.ID, media.ID)

	err := f.posts.DeletePost(ctx, f.db, stranger.ID, post.ID)
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)

	require.NoError(t, f.posts.DeletePost(ctx, f.db, owner.ID, post.ID))

	_, err = f.posts.GetPost(ctx, f.db, post.ID)
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)

	// пост остается в базе неактивным
	var stored models.Post
	require.NoError(t, f.db.First(&stored, "id = ?", post.ID).Error)
	assert.False(t, stored.IsActive)

	_, err = repositories.NewMediaRepository().FindByID(f.db, media.ID)
	assert.ErrorIs(t, err, repositories.ErrMediaNotFound)

	exists, err := f.store.Exists(ctx, media.Filename)
	require.NoError(t, err)
	assert.False(t, exists)

	err = f.posts.DeletePost(ctx, f.db, owner.ID, post.ID)
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
}

func TestPostService_ToggleLike(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	owner := helpers.CreateUser(t, f.db, "liked@example.com", "secret123")
	post := createPost(t, f, owner.ID)

	fans := make([]*models.User, 2)
	for i := range fans {
		fans[i] = helpers.CreateUser(t, f.db, fmt.Sprintf("fan%d@example.com", i), "secret123")
	}

	res, err := f.posts.ToggleLike(ctx, f.db, fans[0].ID, post.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 1, res.LikesCount)

	res, err = f.posts.ToggleLike(ctx, f.db, fans[1].ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{fans[0].ID, fans[1].ID}, res.Likes)

	res, err = f.posts.ToggleLike(ctx, f.db, fans[0].ID, post.ID)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, []string{fans[1].ID}, res.Likes)

	got, err := f.posts.GetPost(ctx, f.db, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{fans[1].ID}, []string(got.Likes))

	_, err = f.posts.ToggleLike(ctx, f.db, fans[0].ID, uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
}

package integration_test

import (
	"bytes"
	"net/http"
	"testing"

	"transport_backend/internal/config"
	"transport_backend/internal/models"
	"transport_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploads_AnonymousAndAuthenticated(t *testing.T) {
	ts := helpers.NewTestServer(t)
	user := helpers.CreateUser(t, ts.DB, "up@example.com", "secret123")
	token := ts.Login(t, "up@example.com", "secret123")

	anon := uploadImage(t, ts, "")
	owned := uploadImage(t, ts, token)
	assert.NotEmpty(t, anon.ThumbnailURL)

	var media models.Media
	require.NoError(t, ts.DB.First(&media, "id = ?", anon.ID).Error)
	assert.Nil(t, media.UserID)

	require.NoError(t, ts.DB.First(&media, "id = ?", owned.ID).Error)
	require.NotNil(t, media.UserID)
	assert.Equal(t, user.ID, *media.UserID)

	res, body := ts.SendRequest(t, http.MethodGet, anon.ThumbnailURL, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "image/jpeg", res.Header.Get("Content-Type"))
	assert.NotEmpty(t, body)
}

func TestUploads_Rejections(t *testing.T) {
	ts := helpers.NewTestServer(t, func(cfg *config.Config) {
		cfg.Upload.MaxSize = 1024
	})

	// нет поля file
	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/uploads/upload", bytes.NewBufferString("{}"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	res, _ := ts.Do(t, req)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, body := upload(t, ts, "", "script.sh", "application/x-sh", []byte("rm -rf /"))
	assert.Equal(t, http.StatusUnsupportedMediaType, res.StatusCode, body)

	res, body = upload(t, ts, "", "big.pdf", "application/pdf", make([]byte, 4096))
	assert.Equal(t, http.StatusRequestEntityTooLarge, res.StatusCode, body)

	var count int64
	require.NoError(t, ts.DB.Model(&models.Media{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUploads_ServeMissingFile(t *testing.T) {
	ts := helpers.NewTestServer(t)

	res, body := ts.SendRequest(t, http.MethodGet, "/uploads/nope.png", "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.JSONEq(t, `{"detail":"File not found"}`, body)
}

func TestUploads_ServedFromRoot(t *testing.T) {
	ts := helpers.NewTestServer(t)
	uploaded := uploadImage(t, ts, "")

	res, viaUploads := ts.SendRequest(t, http.MethodGet, "/uploads/"+uploaded.Filename, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, viaRoot := ts.SendRequest(t, http.MethodGet, "/"+uploaded.Filename, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, viaRoot)
	assert.Equal(t, "image/png", res.Header.Get("Content-Type"))
	assert.Equal(t, viaUploads, viaRoot)

	res, body := ts.SendRequest(t, http.MethodGet, "/missing-"+uploaded.Filename, "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Contains(t, body, "Route not found")
}

package integration_test

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"transport_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystem_WelcomeAndHealth(t *testing.T) {
	ts := helpers.NewTestServer(t)

	res, body := ts.SendRequest(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var welcome envelope[any]
	helpers.DecodeJSON(t, body, &welcome)
	assert.Equal(t, "Welcome to the "+ts.Config.App.Name+" project", welcome.Message)

	res, body = ts.SendRequest(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "notifications_fanned_out_total")
}

func TestSystem_UnknownRoutes(t *testing.T) {
	ts := helpers.NewTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(ts.Config.App.StaticDir, "app.js"), []byte("console.log(1)"), 0o644))

	res, body := ts.SendRequest(t, http.MethodGet, "/api/does-not-exist", "", nil)
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.JSONEq(t, `{"success":false,"message":"Route not found","code":"NOT_FOUND"}`, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/app.js", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "console.log(1)", body)

	res, _ = ts.SendRequest(t, http.MethodGet, "/missing.js", "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

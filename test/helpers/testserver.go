package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"transport_backend/internal/app"
	"transport_backend/internal/config"
	"transport_backend/internal/email"
	"transport_backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const TestJWTSecret = "my_super_secret_key_for_tests_12345"

// TestServer - настоящий роутер поверх sqlite, временного хранилища и фейков
type TestServer struct {
	Server     *httptest.Server
	DB         *gorm.DB
	App        *app.Application
	Config     *config.Config
	Mailer     *FakeMailer
	SMS        *FakeSMS
	Push       *RecordingPush
	Dispatcher *email.Dispatcher
}

// TestConfig - конфигурация по умолчанию для тестов
func TestConfig(t *testing.T) *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.App.ExposeOTP = true
	cfg.App.StaticDir = t.TempDir()
	cfg.JWT.Secret = TestJWTSecret
	cfg.Database.DSN = "sqlite"
	cfg.Storage.BasePath = t.TempDir()
	// Лимит не должен мешать тестам
	cfg.Auth.RateLimitPerMinute = 1000
	config.ApplyDefaults(cfg)
	return cfg
}

// NewTestServer создает и настраивает тестовый сервер и БД.
// mutate позволяет поменять конфигурацию до сборки роутера.
func NewTestServer(t *testing.T, mutate ...func(*config.Config)) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := TestConfig(t)
	for _, m := range mutate {
		m(cfg)
	}

	db := NewTestDB(t)

	store, err := storage.NewStorage(storage.Config{
		Type:     "local",
		BasePath: cfg.Storage.BasePath,
		BaseURL:  cfg.Storage.BaseURL,
	})
	require.NoError(t, err)

	templates, err := email.NewTemplateManager()
	require.NoError(t, err)

	mailer := &FakeMailer{}
	dispatcher := email.NewDispatcher(mailer, 1, 10, email.DefaultRetryPolicy())
	dispatcher.Start()

	smsSender := &FakeSMS{}
	push := &RecordingPush{}

	application := app.SetupRouter(&app.Deps{
		Config:        cfg,
		DB:            db,
		Storage:       store,
		EmailProvider: mailer,
		Dispatcher:    dispatcher,
		Templates:     templates,
		SMS:           smsSender,
		Push:          push,
	})

	ts := &TestServer{
		Server:     httptest.NewServer(application.Engine),
		DB:         db,
		App:        application,
		Config:     cfg,
		Mailer:     mailer,
		SMS:        smsSender,
		Push:       push,
		Dispatcher: dispatcher,
	}
	t.Cleanup(ts.Close)
	return ts
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	_ = ts.Dispatcher.Shutdown(context.Background())
}

// SendRequest отправляет JSON запрос и возвращает ответ с телом
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "ошибка кодирования JSON для запроса")
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err, "ошибка создания HTTP-запроса")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return ts.Do(t, req)
}

// Do выполняет подготовленный запрос
func (ts *TestServer) Do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()

	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err, "ошибка отправки HTTP-запроса")
	defer res.Body.Close()

	resBodyBytes, err := io.ReadAll(res.Body)
	require.NoError(t, err, "ошибка чтения тела ответа")

	return res, string(resBodyBytes)
}

// DecodeJSON разбирает тело ответа
func DecodeJSON(t *testing.T, body string, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(body), out), "не удалось распарсить JSON: %s", body)
}

// Login входит существующим пользователем и возвращает токен сессии
func (ts *TestServer) Login(t *testing.T, emailAddr, password string) string {
	t.Helper()

	res, body := ts.SendRequest(t, http.MethodPost, "/api/signin", "", map[string]string{
		"email":    emailAddr,
		"password": password,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "логин должен быть успешным: %s", body)

	var resp struct {
		Token string `json:"token"`
	}
	DecodeJSON(t, body, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

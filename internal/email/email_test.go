package email

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider падает failTimes раз, затем принимает письма
type fakeProvider struct {
	mu        sync.Mutex
	failTimes int
	calls     int
	sent      []*Email
}

func (f *fakeProvider) Send(ctx context.Context, msg *Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failTimes {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeProvider) Validate() error { return nil }

func (f *fakeProvider) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func fastPolicy(tries uint) RetryPolicy {
	return RetryPolicy{MaxTries: tries, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond}
}

func TestSendWithRetry_RecoversAfterFailures(t *testing.T) {
	p := &fakeProvider{failTimes: 2}

	err := SendWithRetry(context.Background(), p, &Email{To: []string{"a@test.com"}}, fastPolicy(5))

	require.NoError(t, err)
	assert.Equal(t, 3, p.calls)
	assert.Equal(t, 1, p.sentCount())
}

func TestSendWithRetry_GivesUp(t *testing.T) {
	p := &fakeProvider{failTimes: 100}

	err := SendWithRetry(context.Background(), p, &Email{To: []string{"a@test.com"}}, fastPolicy(3))

	assert.Error(t, err)
	assert.Equal(t, 3, p.calls)
}

func TestDispatcher_DeliversAndDrainsOnShutdown(t *testing.T) {
	p := &fakeProvider{failTimes: 1}
	d := NewDispatcher(p, 2, 10, fastPolicy(5))
	d.Start()

	for i := 0; i < 5; i++ {
		require.NoError(t, d.Enqueue(&Email{To: []string{"user@test.com"}, Subject: "hi"}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Shutdown(ctx))

	assert.Equal(t, 5, p.sentCount())
	assert.ErrorIs(t, d.Enqueue(&Email{}), ErrDispatcherClosed)
}

func TestTemplateManager_DefaultTemplates(t *testing.T) {
	tm, err := NewTemplateManager()
	require.NoError(t, err)

	html, err := tm.Render(TemplatePasswordReset, TemplateData{
		"UserName":  "Alice",
		"ResetURL":  "http://localhost:3000/reset-password?token=abc&email=a@test.com",
		"ExpiresIn": "30 minutes",
		"AppName":   "Transport",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Hello Alice")
	assert.Contains(t, html, "reset-password?token=abc&amp;email=a@test.com")
	assert.Contains(t, html, "Transport Team")

	_, err = tm.Render("missing", nil)
	assert.Error(t, err)
}

func TestTemplateManager_LoadTemplatesOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "otp.html"), []byte("code={{.OTP}}"), 0o644))

	tm, err := NewTemplateManager()
	require.NoError(t, err)
	require.NoError(t, tm.LoadTemplates(dir))

	out, err := tm.Render(TemplateOTP, TemplateData{"OTP": "012345"})
	require.NoError(t, err)
	assert.Equal(t, "code=012345", out)
}

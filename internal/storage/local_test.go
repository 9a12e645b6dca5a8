package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalStorage(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(Config{BasePath: t.TempDir(), BaseURL: "/uploads"})
	require.NoError(t, err)
	return s
}

func TestLocalStorage_SaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestLocalStorage(t)

	// Сохраняем файл
	err := s.Save(ctx, "abc.txt", strings.NewReader("hello"), "text/plain")
	require.NoError(t, err)

	exists, err := s.Exists(ctx, "abc.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	// Читаем обратно
	obj, err := s.Open(ctx, "abc.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(obj.Body)
	require.NoError(t, obj.Body.Close())
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, int64(5), obj.Size)

	// Удаляем, повторное удаление не ошибка
	require.NoError(t, s.Delete(ctx, "abc.txt"))
	require.NoError(t, s.Delete(ctx, "abc.txt"))

	_, err = s.Open(ctx, "abc.txt")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorage_URL(t *testing.T) {
	s := newTestLocalStorage(t)
	assert.Equal(t, "/uploads/file.png", s.URL("file.png"))
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	s := newTestLocalStorage(t)

	for _, key := range []string{"", "../secret", "a/../../b", ".."} {
		_, err := s.Open(ctx, key)
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}
}

func TestNewStorage_UnknownType(t *testing.T) {
	_, err := NewStorage(Config{Type: "ftp"})
	assert.Error(t, err)
}

package helpers

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"
)

// MultipartBody собирает тело multipart/form-data с одним файлом в поле "file"
func MultipartBody(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return body, w.FormDataContentType()
}

// FileHeader возвращает *multipart.FileHeader, как его отдал бы gin
func FileHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	body, ct := MultipartBody(t, filename, contentType, data)
	_, params, err := parseBoundary(ct)
	require.NoError(t, err)

	form, err := multipart.NewReader(body, params).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

// PNG - маленькая картинка для проверки миниатюр
func PNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func parseBoundary(contentType string) (string, string, error) {
	const prefix = "multipart/form-data; boundary="
	if len(contentType) <= len(prefix) || contentType[:len(prefix)] != prefix {
		return "", "", fmt.Errorf("unexpected content type %q", contentType)
	}
	return "multipart/form-data", contentType[len(prefix):], nil
}

package storage

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var generatedName = regexp.MustCompile(`^image-\d+-\d+\.jpg$`)

func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FieldName, filename))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File[FieldName][0]
}

func TestSaveWritesGeneratedName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	u := NewUploader(dir)

	content := []byte("jpeg bytes")
	meta, err := u.Save(fileHeader(t, "My Vacation Photo.JPG", "image/jpeg", content))
	require.NoError(t, err)

	assert.Regexp(t, generatedName, meta.Filename)
	assert.Equal(t, URLPrefix+"/"+meta.Filename, meta.RelativePath)
	assert.Equal(t, "image/jpeg", meta.MimeType)
	assert.EqualValues(t, len(content), meta.SizeBytes)

	written, err := os.ReadFile(filepath.Join(dir, meta.Filename))
	require.NoError(t, err)
	assert.Equal(t, content, written)
}

func TestSaveCreatesDirOnFirstUse(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	u := NewUploader(dir)

	_, err := u.Save(fileHeader(t, "a.jpg", "image/jpeg", []byte("x")))
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSaveRejectsNonImage(t *testing.T) {
	dir := t.TempDir()
	u := NewUploader(dir)

	_, err := u.Save(fileHeader(t, "notes.txt", "text/plain", []byte("hello")))
	assert.ErrorIs(t, err, ErrNotImage)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "rejected upload must not be persisted")
}

func TestSaveRejectsOversized(t *testing.T) {
	dir := t.TempDir()
	u := NewUploader(dir)

	oversized := bytes.Repeat([]byte("a"), MaxUploadSize+1)
	_, err := u.Save(fileHeader(t, "big.jpg", "image/jpeg", oversized))
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestRemoveToleratesMissingFile(t *testing.T) {
	u := NewUploader(t.TempDir())

	meta, err := u.Save(fileHeader(t, "a.jpg", "image/jpeg", []byte("x")))
	require.NoError(t, err)

	require.NoError(t, u.Remove(meta.Filename))
	assert.NoError(t, u.Remove(meta.Filename), "second remove of the same file")
	assert.NoError(t, u.Remove(""))
}

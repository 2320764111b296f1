package services

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitmatch-ai/fitmatch-api/internal/apperrors"
)

func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="resumeFile"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["resumeFile"][0]
}

func TestReadFile(t *testing.T) {
	header := fileHeader(t, "resume.txt", "text/plain", []byte("Jane Doe, Go engineer"))

	file, err := NewUploadService(1024).ReadFile(header)

	require.NoError(t, err)
	assert.Equal(t, "resume.txt", file.Filename)
	assert.Equal(t, "text/plain", file.ContentType)
	assert.EqualValues(t, 21, file.Size)
	assert.Equal(t, []byte("Jane Doe, Go engineer"), file.Data)
}

func TestReadFile_TooLarge(t *testing.T) {
	header := fileHeader(t, "resume.pdf", "application/pdf", bytes.Repeat([]byte("a"), 2048))

	_, err := NewUploadService(1024).ReadFile(header)

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeFileTooLarge, apperrors.CodeOf(err))
	assert.Contains(t, apperrors.UserMessage(err), "resume.pdf")
}

func TestReadFile_UnderreportedSize(t *testing.T) {
	header := fileHeader(t, "resume.pdf", "application/pdf", bytes.Repeat([]byte("a"), 2048))
	header.Size = 10

	_, err := NewUploadService(1024).ReadFile(header)

	assert.Equal(t, apperrors.CodeFileTooLarge, apperrors.CodeOf(err))
}

func TestReadFile_Empty(t *testing.T) {
	header := fileHeader(t, "empty.pdf", "application/pdf", nil)

	file, err := NewUploadService(1024).ReadFile(header)

	require.NoError(t, err)
	assert.Empty(t, file.Data)
}

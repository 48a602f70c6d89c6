package storage

import (
	"context"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerGenerateAndParse(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("notifications/file.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	path, err := signer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "notifications/file.pdf", path)

	_, err = NewSignedURLSigner("other", time.Hour).Parse(token)
	assert.Error(t, err)
}

func TestSignedURLSignerExpiry(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	token, _, err := signer.Generate("notifications/file.pdf")
	require.NoError(t, err)

	signer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = signer.Parse(token)
	assert.EqualError(t, err, "token expired")
}

func TestSignedURLSignerWithoutExpiry(t *testing.T) {
	signer := NewSignedURLSigner("secret", 0)
	token, expiresAt, err := signer.Generate("a.txt")
	require.NoError(t, err)
	assert.True(t, expiresAt.IsZero())

	signer.now = func() time.Time { return time.Now().Add(24 * 365 * time.Hour) }
	path, err := signer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "a.txt", path)
}

func TestLocalStorageUploadAndOpen(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/api/v1/files", NewSignedURLSigner("secret", 0))
	require.NoError(t, err)

	publicURL, err := store.Upload(context.Background(), "notifications/123-flyer.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(publicURL, "http://localhost:8080/api/v1/files/notifications/123-flyer.pdf?token="))

	parsed, err := url.Parse(publicURL)
	require.NoError(t, err)
	token := parsed.Query().Get("token")

	file, err := store.Open("notifications/123-flyer.pdf", token)
	require.NoError(t, err)
	defer file.Close()
	data, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	_, err = store.Open("notifications/other.pdf", token)
	assert.Error(t, err)
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "http://x/files", NewSignedURLSigner("secret", 0))
	require.NoError(t, err)
	_, err = store.Upload(context.Background(), "../../etc/passwd", []byte("x"))
	assert.Error(t, err)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "my_report_2024.pdf", SanitizeName("my report 2024.pdf"))
	assert.Equal(t, "passwd", SanitizeName("../../etc/passwd"))
	assert.Equal(t, "evil.txt", SanitizeName(`C:\temp\evil.txt`))
	assert.Equal(t, "file", SanitizeName("..."))
}

func TestCleanKey(t *testing.T) {
	key, ok := CleanKey("/notifications//a.pdf")
	assert.True(t, ok)
	assert.Equal(t, "notifications/a.pdf", key)

	_, ok = CleanKey("notifications/../../a.pdf")
	assert.False(t, ok)
	_, ok = CleanKey("")
	assert.False(t, ok)
}

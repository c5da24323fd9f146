package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modline/modtrack/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "site_photo_1.jpg", SanitizeName("site photo #1.jpg"))
	assert.Equal(t, "passwd", SanitizeName("../../etc/passwd"))
	assert.Equal(t, "plan.pdf", SanitizeName(`C:\Users\pm\plan.pdf`))
	assert.Equal(t, "file", SanitizeName("..."))
	assert.Len(t, SanitizeName(strings.Repeat("a", 300)+".pdf"), 120)
}

func TestKey(t *testing.T) {
	k := Key("p1", "rfis/r9", "Detail A.pdf")
	assert.True(t, strings.HasPrefix(k, "projects/p1/rfis/r9/"), k)
	assert.True(t, strings.HasSuffix(k, "-Detail_A.pdf"), k)
	assert.NotEqual(t, k, Key("p1", "rfis/r9", "Detail A.pdf"))
}

func TestLocalStore_PutURLDelete(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(root, "/files/")
	require.NoError(t, err)
	ctx := context.Background()

	body := []byte("%PDF-1.7 drawing")
	key := "projects/p1/general/abc-plan.pdf"
	require.NoError(t, s.Put(ctx, key, bytes.NewReader(body), int64(len(body)), "application/pdf"))

	got, err := os.ReadFile(filepath.Join(root, "projects", "p1", "general", "abc-plan.pdf"))
	require.NoError(t, err)
	assert.Equal(t, body, got)
	assert.Equal(t, "/files/projects/p1/general/abc-plan.pdf", s.URL(key))

	require.NoError(t, s.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(root, "projects", "p1", "general", "abc-plan.pdf"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(ctx, key), "deleting a missing object is not an error")
}

func TestLocalStore_ShortWriteLeavesNothing(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(root, "")
	require.NoError(t, err)

	err = s.Put(context.Background(), "projects/p1/x.bin", strings.NewReader("abc"), 10, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "short write")

	entries, err := os.ReadDir(filepath.Join(root, "projects", "p1"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStore_KeysStayInsideRoot(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(filepath.Join(root, "store"), "")
	require.NoError(t, err)

	require.NoError(t, s.Put(context.Background(), "../../escape.txt", strings.NewReader("x"), 1, "text/plain"))
	_, err = os.Stat(filepath.Join(root, "store", "escape.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, s.Put(context.Background(), "", strings.NewReader(""), 0, ""), ErrEmptyKey)
}

func TestNewS3Store_Validation(t *testing.T) {
	_, err := NewS3Store(config.StorageConfig{AccessKey: "k", SecretKey: "s"})
	assert.ErrorContains(t, err, "bucket is required")

	_, err = NewS3Store(config.StorageConfig{Bucket: "b", SecretKey: "s"})
	assert.ErrorContains(t, err, "access key is required")

	_, err = NewS3Store(config.StorageConfig{Bucket: "b", AccessKey: "k"})
	assert.ErrorContains(t, err, "secret key is required")
}

func TestS3Store_URL(t *testing.T) {
	s, err := NewS3Store(config.StorageConfig{
		Bucket: "modtrack", AccessKey: "k", SecretKey: "s", Endpoint: "minio:9000",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000/modtrack/projects/p1/a.pdf", s.URL("projects/p1/a.pdf"))

	s, err = NewS3Store(config.StorageConfig{
		Bucket: "modtrack", AccessKey: "k", SecretKey: "s", UseSSL: true,
		Endpoint: "s3.example.com", PublicBaseURL: "https://cdn.example.com/",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/projects/p1/a.pdf", s.URL("projects/p1/a.pdf"))
}

func TestNew_SelectsDriver(t *testing.T) {
	s, err := New(config.StorageConfig{Driver: "local", Dir: t.TempDir()}, nil)
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, s)

	_, err = New(config.StorageConfig{Driver: "ftp"}, nil)
	assert.Error(t, err)
}

package storage_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantworks/crm-api/internal/storage"
)

func TestStorageInterfaceCompliance(t *testing.T) {
	var _ storage.Storage = (*storage.LocalStorage)(nil)
	var _ storage.Storage = (*storage.AzureBlobStorage)(nil)
}

func newLocal(t *testing.T) *storage.LocalStorage {
	t.Helper()
	ls, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/files")
	require.NoError(t, err)
	return ls
}

func TestNewLocalStorage_CreatesDirectory(t *testing.T) {
	basePath := filepath.Join(t.TempDir(), "artifacts")

	ls, err := storage.NewLocalStorage(basePath, "")

	require.NoError(t, err)
	assert.NotNil(t, ls)
	info, err := os.Stat(basePath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLocalStorage_UploadAndDownload(t *testing.T) {
	ls := newLocal(t)
	ctx := context.Background()
	content := []byte("%PDF-1.7 fake proposal")

	size, err := ls.Upload(ctx, "proposals/abc/proposal-abc-1.pdf", "application/pdf", bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), size)

	rc, err := ls.Download(ctx, "proposals/abc/proposal-abc-1.pdf")
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestLocalStorage_DownloadMissing(t *testing.T) {
	ls := newLocal(t)

	_, err := ls.Download(context.Background(), "proposals/missing.pdf")

	assert.ErrorContains(t, err, "file not found")
}

func TestLocalStorage_DeleteIsIdempotent(t *testing.T) {
	ls := newLocal(t)
	ctx := context.Background()

	_, err := ls.Upload(ctx, "a/b.pdf", "application/pdf", bytes.NewReader([]byte("x")))
	require.NoError(t, err)

	require.NoError(t, ls.Delete(ctx, "a/b.pdf"))
	// second delete of a missing object is not an error
	require.NoError(t, ls.Delete(ctx, "a/b.pdf"))
}

func TestLocalStorage_ListByPrefix(t *testing.T) {
	ls := newLocal(t)
	ctx := context.Background()

	for _, p := range []string{
		"proposals/one/proposal-one-1.pdf",
		"proposals/one/proposal-one-2.pdf",
		"proposals/two/proposal-two-1.pdf",
	} {
		_, err := ls.Upload(ctx, p, "application/pdf", bytes.NewReader([]byte("data")))
		require.NoError(t, err)
	}

	objects, err := ls.List(ctx, "proposals/one/")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	for _, obj := range objects {
		assert.Contains(t, obj.Path, "proposals/one/")
		assert.Equal(t, int64(4), obj.Size)
		assert.WithinDuration(t, time.Now(), obj.CreatedAt, time.Minute)
	}

	all, err := ls.List(ctx, "proposals/")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := ls.List(ctx, "jobs/")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLocalStorage_SignedURL(t *testing.T) {
	ls := newLocal(t)
	ctx := context.Background()

	_, err := ls.Upload(ctx, "proposals/x/doc.pdf", "application/pdf", bytes.NewReader([]byte("x")))
	require.NoError(t, err)

	url, err := ls.SignedURL(ctx, "proposals/x/doc.pdf", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/proposals/x/doc.pdf", url)

	_, err = ls.SignedURL(ctx, "proposals/x/missing.pdf", time.Hour)
	assert.ErrorContains(t, err, "file not found")
}

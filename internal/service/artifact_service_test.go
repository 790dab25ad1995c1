package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/verdantworks/crm-api/internal/service"
	"github.com/verdantworks/crm-api/internal/storage"
)

// fakeStorage is an in-memory Storage for tests. Each operation can be forced
// to fail to exercise error paths.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string]fakeObject
	clock   time.Time

	failUpload bool
	failList   bool
	failDelete bool
	failURL    bool

	lastURLTTL time.Duration
}

type fakeObject struct {
	data        []byte
	contentType string
	createdAt   time.Time
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		objects: make(map[string]fakeObject),
		clock:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStorage) Upload(_ context.Context, path, contentType string, data io.Reader) (int64, error) {
	if f.failUpload {
		return 0, errors.New("connection reset")
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock = f.clock.Add(time.Second)
	f.objects[path] = fakeObject{data: b, contentType: contentType, createdAt: f.clock}
	return int64(len(b)), nil
}

func (f *fakeStorage) Download(_ context.Context, path string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[path]
	if !ok {
		return nil, fmt.Errorf("not found: %s", path)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (f *fakeStorage) Delete(_ context.Context, path string) error {
	if f.failDelete {
		return errors.New("forbidden")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, path)
	return nil
}

func (f *fakeStorage) List(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	if f.failList {
		return nil, errors.New("timeout")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var infos []storage.ObjectInfo
	for path, obj := range f.objects {
		if strings.HasPrefix(path, prefix) {
			infos = append(infos, storage.ObjectInfo{
				Path:      path,
				CreatedAt: obj.createdAt,
				Size:      int64(len(obj.data)),
			})
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Path < infos[j].Path })
	return infos, nil
}

func (f *fakeStorage) SignedURL(_ context.Context, path string, ttl time.Duration) (string, error) {
	if f.failURL {
		return "", errors.New("no credential")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[path]; !ok {
		return "", fmt.Errorf("not found: %s", path)
	}
	f.lastURLTTL = ttl
	return "https://blobs.test/" + path + "?sig=abc", nil
}

func (f *fakeStorage) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for p := range f.objects {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func TestArtifactService_UploadPathConvention(t *testing.T) {
	store := newFakeStorage()
	svc := service.NewArtifactService(store, zap.NewNop())
	proposalID := uuid.New()
	generatedAt := time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC)

	path, err := svc.Upload(context.Background(), proposalID, generatedAt, []byte("%PDF"))

	require.NoError(t, err)
	want := fmt.Sprintf("proposals/%s/proposal-%s-%d.pdf", proposalID, proposalID, generatedAt.Unix())
	assert.Equal(t, want, path)
	assert.Equal(t, []string{want}, store.paths())
}

func TestArtifactService_UploadFailureKeepsSentinelAndCause(t *testing.T) {
	store := newFakeStorage()
	store.failUpload = true
	svc := service.NewArtifactService(store, zap.NewNop())

	_, err := svc.Upload(context.Background(), uuid.New(), time.Now(), []byte("x"))

	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrArtifactUpload)
	assert.ErrorContains(t, err, "connection reset")
}

func TestArtifactService_ListNewestFirst(t *testing.T) {
	store := newFakeStorage()
	svc := service.NewArtifactService(store, zap.NewNop())
	proposalID := uuid.New()
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := svc.Upload(ctx, proposalID, base.Add(time.Duration(i)*time.Hour), []byte("pdf"))
		require.NoError(t, err)
	}
	// other proposals are not included
	_, err := svc.Upload(ctx, uuid.New(), base, []byte("pdf"))
	require.NoError(t, err)

	objects, err := svc.List(ctx, proposalID)

	require.NoError(t, err)
	require.Len(t, objects, 3)
	for i := 1; i < len(objects); i++ {
		assert.True(t, objects[i-1].CreatedAt.After(objects[i].CreatedAt),
			"artifacts must be ordered newest first")
	}
}

func TestArtifactService_ListFailure(t *testing.T) {
	store := newFakeStorage()
	store.failList = true
	svc := service.NewArtifactService(store, zap.NewNop())

	_, err := svc.List(context.Background(), uuid.New())

	assert.ErrorIs(t, err, service.ErrArtifactList)
}

func TestArtifactService_PruneKeepsLatest(t *testing.T) {
	store := newFakeStorage()
	svc := service.NewArtifactService(store, zap.NewNop())
	proposalID := uuid.New()
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := svc.Upload(ctx, proposalID, base.Add(time.Duration(i)*time.Hour), []byte("pdf"))
		require.NoError(t, err)
	}

	deleted, err := svc.Prune(ctx, proposalID, 2)

	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	remaining, err := svc.List(ctx, proposalID)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	// the two newest survive
	assert.Contains(t, remaining[0].Path, fmt.Sprintf("-%d.pdf", base.Add(4*time.Hour).Unix()))
	assert.Contains(t, remaining[1].Path, fmt.Sprintf("-%d.pdf", base.Add(3*time.Hour).Unix()))
}

func TestArtifactService_PruneNoOpWhenUnderLimit(t *testing.T) {
	store := newFakeStorage()
	svc := service.NewArtifactService(store, zap.NewNop())
	proposalID := uuid.New()
	ctx := context.Background()

	_, err := svc.Upload(ctx, proposalID, time.Now(), []byte("pdf"))
	require.NoError(t, err)

	deleted, err := svc.Prune(ctx, proposalID, 3)

	require.NoError(t, err)
	assert.Zero(t, deleted)
	remaining, err := svc.List(ctx, proposalID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestArtifactService_PruneDeleteFailure(t *testing.T) {
	store := newFakeStorage()
	svc := service.NewArtifactService(store, zap.NewNop())
	proposalID := uuid.New()
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := svc.Upload(ctx, proposalID, base.Add(time.Duration(i)*time.Hour), []byte("pdf"))
		require.NoError(t, err)
	}
	store.failDelete = true

	_, err := svc.Prune(ctx, proposalID, 1)

	assert.ErrorIs(t, err, service.ErrArtifactDelete)
}

func TestArtifactService_AccessURLDefaultTTL(t *testing.T) {
	store := newFakeStorage()
	svc := service.NewArtifactService(store, zap.NewNop())
	proposalID := uuid.New()
	ctx := context.Background()

	path, err := svc.Upload(ctx, proposalID, time.Now(), []byte("pdf"))
	require.NoError(t, err)

	url, err := svc.AccessURL(ctx, path, 0)
	require.NoError(t, err)
	assert.Contains(t, url, path)
	assert.Equal(t, service.DefaultSignedURLTTL, store.lastURLTTL)

	_, err = svc.AccessURL(ctx, path, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, store.lastURLTTL)
}

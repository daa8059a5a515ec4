package offload

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"

	"media-offload/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPush_UploadsMissing(t *testing.T) {
	dir := t.TempDir()
	synced := writeLocalFile(t, dir, "synced.jpg")
	fresh := writeLocalFile(t, dir, "fresh.jpg")

	source := &fakeSource{
		ids: []int64{1, 2},
		files: map[int64][]FileEntry{
			1: {{LocalPath: synced, RemoteKey: "uploads/synced.jpg", Variant: "primary"}},
			2: {{LocalPath: fresh, RemoteKey: "uploads/fresh.jpg", Variant: "primary"}},
		},
	}

	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, testBucket, mock.Anything).
		Return(objectChannel("uploads/synced.jpg"))
	client.On("FPutObject", mock.Anything, testBucket, "uploads/fresh.jpg", fresh, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	report, err := NewEngine(source, client, testBucket, "uploads/", nil).
		Push(context.Background(), Options{})
	require.NoError(t, err)

	c := report.Counters
	assert.Equal(t, 2, c.Get(CounterTotalProcessed))
	assert.Equal(t, 1, c.Get(CounterUploaded))
	assert.Equal(t, 1, c.Get(CounterSkippedExists))
	assert.Equal(t, 0, c.Get(CounterLocalNotFound))
	assert.Equal(t, 0, c.Get(CounterStorageErrors))
	assert.Equal(t, int64(2), report.TotalAttachments)
	client.AssertExpectations(t)
}

// TestPush_Idempotent uploads everything on the first run and expects the
// second run over the now-complete bucket to skip everything.
func TestPush_Idempotent(t *testing.T) {
	dir := t.TempDir()
	a := writeLocalFile(t, dir, "a.jpg")
	b := writeLocalFile(t, dir, "b.jpg")

	source := &fakeSource{
		ids: []int64{1, 2},
		files: map[int64][]FileEntry{
			1: {{LocalPath: a, RemoteKey: "uploads/a.jpg", Variant: "primary"}},
			2: {{LocalPath: b, RemoteKey: "uploads/b.jpg", Variant: "primary"}},
		},
	}

	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, testBucket, mock.Anything).
		Return(objectChannel()).Once()
	client.On("ListObjects", mock.Anything, testBucket, mock.Anything).
		Return(objectChannel("uploads/a.jpg", "uploads/b.jpg")).Once()
	client.On("FPutObject", mock.Anything, testBucket, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil).Twice()

	engine := NewEngine(source, client, testBucket, "uploads/", nil)

	first, err := engine.Push(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Counters.Get(CounterUploaded))

	second, err := engine.Push(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Counters.Get(CounterUploaded))
	assert.Equal(t, 2, second.Counters.Get(CounterSkippedExists))
	client.AssertExpectations(t)
}

// TestPush_Force skips both the listing and the existence check.
func TestPush_Force(t *testing.T) {
	dir := t.TempDir()
	a := writeLocalFile(t, dir, "a.jpg")
	b := writeLocalFile(t, dir, "b.jpg")

	source := &fakeSource{
		ids: []int64{1, 2},
		files: map[int64][]FileEntry{
			1: {{LocalPath: a, RemoteKey: "uploads/a.jpg", Variant: "primary"}},
			2: {{LocalPath: b, RemoteKey: "uploads/b.jpg", Variant: "primary"}},
		},
	}

	client := new(mocks.Client)
	client.On("FPutObject", mock.Anything, testBucket, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil).Twice()

	report, err := NewEngine(source, client, testBucket, "uploads/", nil).
		Push(context.Background(), Options{Force: true})
	require.NoError(t, err)

	c := report.Counters
	assert.Equal(t, 2, c.Get(CounterUploaded))
	assert.Equal(t, 0, c.Get(CounterSkippedExists))
	client.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
	client.AssertExpectations(t)
}

func TestPush_LocalNotFound(t *testing.T) {
	dir := t.TempDir()

	source := &fakeSource{
		ids: []int64{1},
		files: map[int64][]FileEntry{
			1: {{LocalPath: filepath.Join(dir, "missing.jpg"), RemoteKey: "uploads/missing.jpg", Variant: "primary"}},
		},
	}

	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, testBucket, mock.Anything).
		Return(objectChannel())

	report, err := NewEngine(source, client, testBucket, "uploads/", nil).
		Push(context.Background(), Options{})
	require.NoError(t, err)

	c := report.Counters
	assert.Equal(t, 1, c.Get(CounterTotalProcessed))
	assert.Equal(t, 1, c.Get(CounterLocalNotFound))
	assert.Equal(t, 0, c.Get(CounterUploaded))
	client.AssertNotCalled(t, "FPutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestPush_SkipListing drives existence through per-key probes instead of a
// prefix listing.
func TestPush_SkipListing(t *testing.T) {
	dir := t.TempDir()
	exists := writeLocalFile(t, dir, "exists.jpg")
	absent := writeLocalFile(t, dir, "absent.jpg")
	broken := writeLocalFile(t, dir, "broken.jpg")

	source := &fakeSource{
		ids: []int64{1},
		files: map[int64][]FileEntry{
			1: {
				{LocalPath: exists, RemoteKey: "uploads/exists.jpg", Variant: "primary"},
				{LocalPath: absent, RemoteKey: "uploads/absent.jpg", Variant: "thumbnail"},
				{LocalPath: broken, RemoteKey: "uploads/broken.jpg", Variant: "medium"},
			},
		},
	}

	client := new(mocks.Client)
	client.On("StatObject", mock.Anything, testBucket, "uploads/exists.jpg", mock.Anything).
		Return(minio.ObjectInfo{Key: "uploads/exists.jpg"}, nil)
	client.On("StatObject", mock.Anything, testBucket, "uploads/absent.jpg", mock.Anything).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound})
	client.On("StatObject", mock.Anything, testBucket, "uploads/broken.jpg", mock.Anything).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "InternalError", StatusCode: http.StatusInternalServerError})
	client.On("FPutObject", mock.Anything, testBucket, "uploads/absent.jpg", absent, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	report, err := NewEngine(source, client, testBucket, "uploads/", nil).
		Push(context.Background(), Options{SkipListing: true})
	require.NoError(t, err)

	c := report.Counters
	assert.Equal(t, 3, c.Get(CounterTotalProcessed))
	assert.Equal(t, 1, c.Get(CounterSkippedExists))
	assert.Equal(t, 1, c.Get(CounterUploaded))
	assert.Equal(t, 1, c.Get(CounterStorageErrors))
	client.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
	client.AssertExpectations(t)
}

func TestPush_UploadFailure(t *testing.T) {
	dir := t.TempDir()
	a := writeLocalFile(t, dir, "a.jpg")

	source := &fakeSource{
		ids: []int64{1},
		files: map[int64][]FileEntry{
			1: {{LocalPath: a, RemoteKey: "uploads/a.jpg", Variant: "primary"}},
		},
	}

	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, testBucket, mock.Anything).
		Return(objectChannel())
	client.On("FPutObject", mock.Anything, testBucket, "uploads/a.jpg", a, mock.Anything).
		Return(minio.UploadInfo{}, fmt.Errorf("slow down"))

	report, err := NewEngine(source, client, testBucket, "uploads/", nil).
		Push(context.Background(), Options{})
	require.NoError(t, err)

	c := report.Counters
	assert.Equal(t, 0, c.Get(CounterUploaded))
	assert.Equal(t, 1, c.Get(CounterStorageErrors))
}

func TestPush_DryRun(t *testing.T) {
	dir := t.TempDir()
	a := writeLocalFile(t, dir, "a.jpg")

	source := &fakeSource{
		ids: []int64{1},
		files: map[int64][]FileEntry{
			1: {{LocalPath: a, RemoteKey: "uploads/a.jpg", Variant: "primary"}},
		},
	}

	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, testBucket, mock.Anything).
		Return(objectChannel())

	report, err := NewEngine(source, client, testBucket, "uploads/", nil).
		Push(context.Background(), Options{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Counters.Get(CounterUploaded))
	client.AssertNotCalled(t, "FPutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPush_ListFailure(t *testing.T) {
	source := &fakeSource{ids: []int64{1}}

	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, testBucket, mock.Anything).
		Return(listErrorChannel(fmt.Errorf("no route to host")))

	report, err := NewEngine(source, client, testBucket, "uploads/", nil).
		Push(context.Background(), Options{})
	assert.Nil(t, report)
	assert.Error(t, err)
}

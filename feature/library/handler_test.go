package library

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"media-offload/core/offload"
	"media-offload/core/storage"
	"media-offload/core/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, *mocks.Client, sqlmock.Sqlmock) {
	app := fiber.New()
	mockClient := new(mocks.Client)
	db, sqlMock := setupMockDB(t)
	logger := zap.NewNop()
	svc := NewService(mockClient, storage.Config{
		Endpoint: "localhost:9000",
		Bucket:   "test-bucket",
	}, logger, db, offload.Config{
		LocalRoot:          t.TempDir(),
		Prefix:             "uploads/",
		BatchSize:          100,
		OrphanDisplayLimit: 2,
	})
	handler := NewHandler(svc)
	handler.RegisterRoutes(app)
	return app, mockClient, sqlMock
}

func objectChannel(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys)+1)
	for _, key := range keys {
		ch <- minio.ObjectInfo{Key: key}
	}
	close(ch)
	return ch
}

func TestHandleStatus(t *testing.T) {
	app, mockClient, sqlMock := setupTestApp(t)

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	// Table existence probes, then the attachment count.
	sqlMock.ExpectQuery(".*").WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	sqlMock.ExpectQuery(".*").WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	sqlMock.ExpectQuery(".*").WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(5))

	req := httptest.NewRequest("GET", "/library/status", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.BucketOK)
	assert.Empty(t, body.MissingTables)
	assert.Equal(t, int64(5), body.Attachments)
}

func TestHandleReport_OrphanTruncation(t *testing.T) {
	app, mockClient, sqlMock := setupTestApp(t)

	// Empty inventory against a bucket holding three objects: every object
	// is an orphan, and the display limit of two forces truncation.
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).
		Return(objectChannel("uploads/a.jpg", "uploads/b.jpg", "uploads/c.jpg"))
	sqlMock.ExpectQuery("SELECT count\\(\\*\\) FROM `attachments`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	sqlMock.ExpectQuery("SELECT `id` FROM `attachments`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	req := httptest.NewRequest("GET", "/library/report", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body ReportResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 3, body.OrphansTotal)
	assert.Len(t, body.Orphans, 2)
	assert.True(t, body.OrphansTruncated)
	assert.Equal(t, "uploads/a.jpg", body.Orphans[0].Key)
	assert.Equal(t, "http://localhost:9000/test-bucket/uploads/a.jpg", body.Orphans[0].URL)
	assert.Equal(t, 3, body.Counters[offload.CounterOrphansFound])
	// The report surface never deletes.
	assert.Equal(t, 0, body.Counters[offload.CounterOrphansDeleted])
	mockClient.AssertNotCalled(t, "RemoveObjects", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleReport_ListFailure(t *testing.T) {
	app, mockClient, sqlMock := setupTestApp(t)

	sqlMock.ExpectQuery("SELECT count\\(\\*\\) FROM `attachments`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	ch := make(chan minio.ObjectInfo, 1)
	ch <- minio.ObjectInfo{Err: assert.AnError}
	close(ch)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).
		Return((<-chan minio.ObjectInfo)(ch))

	req := httptest.NewRequest("GET", "/library/report", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

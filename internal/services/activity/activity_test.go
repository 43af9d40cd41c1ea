package activity

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"teamdisk/internal/models"
	"teamdisk/internal/repositories"
)

func newTestService(t *testing.T) ActivityService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "teamdisk.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Activity{}))
	return NewActivityService(repositories.NewActivityRepository(db))
}

func TestRecordAndList(t *testing.T) {
	svc := newTestService(t)
	fileA := uint64(10)
	fileB := uint64(20)

	require.NoError(t, svc.Record(1, &fileA, models.ActionUpload, "10.0.0.1", nil))
	snapshot := "a.txt - 4 B - text/plain"
	require.NoError(t, svc.Record(1, &fileA, models.ActionDelete, "10.0.0.1", &snapshot))
	require.NoError(t, svc.Record(2, &fileB, models.ActionDownload, "10.0.0.2", nil))

	entries, err := svc.ListByUser(1, 100)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// 最新的在前
	assert.Equal(t, models.ActionDelete, entries[0].Action)
	require.NotNil(t, entries[0].Details)
	assert.Equal(t, snapshot, *entries[0].Details)
	assert.Equal(t, models.ActionUpload, entries[1].Action)

	limited, err := svc.ListByUser(1, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	empty, err := svc.ListByUser(99, 100)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRecordWithoutFile(t *testing.T) {
	svc := newTestService(t)

	// 文件夹分享没有具体文件, FileID 留空
	details := "shared folder 7 with user 2 (read)"
	require.NoError(t, svc.Record(1, nil, models.ActionShare, "10.0.0.1", &details))

	entries, err := svc.ListByUser(1, 100)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionShare, entries[0].Action)
	assert.Nil(t, entries[0].FileID)
	require.NotNil(t, entries[0].Details)
	assert.Equal(t, details, *entries[0].Details)
}

func TestFileSnapshot(t *testing.T) {
	file := &models.File{Name: "report.pdf", Size: 2048, MimeType: "application/pdf"}
	assert.Equal(t, "report.pdf - 2.0 KiB - application/pdf", FileSnapshot(file))
}

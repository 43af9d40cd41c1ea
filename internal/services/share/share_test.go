package share

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"teamdisk/internal/config"
	"teamdisk/internal/models"
	"teamdisk/internal/pkg/xerr"
	"teamdisk/internal/repositories"
	"teamdisk/internal/services/explorer"
)

type testEnv struct {
	userRepo   repositories.UserRepository
	fileRepo   repositories.FileRepository
	folderRepo repositories.FolderRepository
	shareRepo  repositories.ShareRepository
	storage    explorer.StorageService
	service    ShareService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "teamdisk.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Folder{},
		&models.File{},
		&models.SharedFile{},
		&models.SharedFolder{},
	))

	cfg := &config.Config{}
	cfg.Storage.UploadsDir = t.TempDir()
	cfg.Storage.DefaultQuotaBytes = int64(5) << 30

	userRepo := repositories.NewUserRepository(db)
	fileRepo := repositories.NewFileRepository(db)
	folderRepo := repositories.NewFolderRepository(db)
	shareRepo := repositories.NewShareRepository(db)

	pathResolver := explorer.NewPathResolver(folderRepo, cfg)
	quota := explorer.NewQuotaTracker(userRepo, fileRepo, cfg)
	access := explorer.NewAccessChecker(shareRepo)
	storage := explorer.NewStorageService(fileRepo, folderRepo, shareRepo, pathResolver, quota, access, explorer.NewTransactionManager(db), cfg)

	return &testEnv{
		userRepo:   userRepo,
		fileRepo:   fileRepo,
		folderRepo: folderRepo,
		shareRepo:  shareRepo,
		storage:    storage,
		service:    NewShareService(shareRepo, fileRepo, folderRepo, userRepo, storage),
	}
}

func (env *testEnv) createUser(t *testing.T, employeeID string) *models.User {
	t.Helper()
	user := &models.User{
		EmployeeID:   employeeID,
		Email:        employeeID + "@example.com",
		PasswordHash: "x",
		Name:         employeeID,
	}
	require.NoError(t, env.userRepo.Create(user))
	return user
}

func (env *testEnv) uploadFile(t *testing.T, ownerID uint64, name, content string) *models.File {
	t.Helper()
	file, err := env.storage.UploadFile(context.Background(), ownerID, nil, name, "text/plain", int64(len(content)), strings.NewReader(content))
	require.NoError(t, err)
	return file
}

var linkPattern = regexp.MustCompile(`^[A-Za-z0-9]{32}$`)

func TestShareFile(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "e4001")
	recipient := env.createUser(t, "e4002")
	file := env.uploadFile(t, owner.ID, "a.txt", "data")

	share, err := env.service.ShareFile(context.Background(), owner.ID, file.ID, recipient.ID, models.PermissionRead, nil)
	require.NoError(t, err)
	assert.Equal(t, file.ID, share.FileID)
	assert.Equal(t, recipient.ID, share.SharedWithID)
	assert.Regexp(t, linkPattern, share.ExternalLink)
	assert.Nil(t, share.ExpiresAt)
}

func TestShareFileOnlyOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "e4003")
	recipient := env.createUser(t, "e4004")
	third := env.createUser(t, "e4005")
	file := env.uploadFile(t, owner.ID, "a.txt", "data")

	_, err := env.service.ShareFile(context.Background(), recipient.ID, file.ID, third.ID, models.PermissionRead, nil)
	assert.True(t, errors.Is(err, xerr.ErrAccessDenied))
}

func TestShareFileRejectsSelfShare(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "e4006")
	file := env.uploadFile(t, owner.ID, "a.txt", "data")

	_, err := env.service.ShareFile(context.Background(), owner.ID, file.ID, owner.ID, models.PermissionRead, nil)
	assert.True(t, errors.Is(err, xerr.ErrInvalidOperation))
}

func TestShareFileRejectsPastExpiry(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "e4007")
	recipient := env.createUser(t, "e4008")
	file := env.uploadFile(t, owner.ID, "a.txt", "data")

	past := time.Now().Add(-time.Minute)
	_, err := env.service.ShareFile(context.Background(), owner.ID, file.ID, recipient.ID, models.PermissionRead, &past)
	assert.True(t, errors.Is(err, xerr.ErrInvalidOperation))
}

func TestShareFileRejectsUnknownRecipient(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "e4009")
	file := env.uploadFile(t, owner.ID, "a.txt", "data")

	_, err := env.service.ShareFile(context.Background(), owner.ID, file.ID, 9999, models.PermissionRead, nil)
	assert.True(t, errors.Is(err, xerr.ErrUserNotFound))
}

func TestShareFileRejectsBadPermission(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "e4010")
	recipient := env.createUser(t, "e4011")
	file := env.uploadFile(t, owner.ID, "a.txt", "data")

	_, err := env.service.ShareFile(context.Background(), owner.ID, file.ID, recipient.ID, models.Permission("admin"), nil)
	assert.True(t, errors.Is(err, xerr.ErrInvalidParams))
}

func TestShareFolderAndList(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "e4012")
	recipient := env.createUser(t, "e4013")
	ctx := context.Background()

	folder, err := env.storage.CreateFolder(ctx, owner.ID, "docs", nil)
	require.NoError(t, err)
	file := env.uploadFile(t, owner.ID, "a.txt", "data")

	_, err = env.service.ShareFolder(ctx, owner.ID, folder.ID, recipient.ID, models.PermissionWrite, nil)
	require.NoError(t, err)
	_, err = env.service.ShareFile(ctx, owner.ID, file.ID, recipient.ID, models.PermissionRead, nil)
	require.NoError(t, err)

	fileShares, err := env.service.ListFileShares(owner.ID)
	require.NoError(t, err)
	require.Len(t, fileShares, 1)
	folderShares, err := env.service.ListFolderShares(owner.ID)
	require.NoError(t, err)
	require.Len(t, folderShares, 1)
	assert.Equal(t, models.PermissionWrite, folderShares[0].Permission)

	// 接收者名下没有分享记录
	fileShares, err = env.service.ListFileShares(recipient.ID)
	require.NoError(t, err)
	assert.Empty(t, fileShares)
}

func TestRevokeFileShare(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "e4014")
	recipient := env.createUser(t, "e4015")
	file := env.uploadFile(t, owner.ID, "a.txt", "data")
	ctx := context.Background()

	share, err := env.service.ShareFile(ctx, owner.ID, file.ID, recipient.ID, models.PermissionRead, nil)
	require.NoError(t, err)

	// 接收者不能撤销别人的分享
	err = env.service.RevokeFileShare(ctx, recipient.ID, share.ID)
	assert.True(t, errors.Is(err, xerr.ErrAccessDenied))

	require.NoError(t, env.service.RevokeFileShare(ctx, owner.ID, share.ID))

	err = env.service.RevokeFileShare(ctx, owner.ID, share.ID)
	assert.True(t, errors.Is(err, xerr.ErrShareNotFound))
}

func TestResolveFileLink(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "e4016")
	recipient := env.createUser(t, "e4017")
	file := env.uploadFile(t, owner.ID, "a.txt", "link data")
	ctx := context.Background()

	share, err := env.service.ShareFile(ctx, owner.ID, file.ID, recipient.ID, models.PermissionRead, nil)
	require.NoError(t, err)

	got, reader, err := env.service.ResolveFileLink(ctx, share.ExternalLink)
	require.NoError(t, err)
	defer reader.Close()
	assert.Equal(t, file.ID, got.ID)
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "link data", string(data))
}

func TestResolveFileLinkUnknownOrExpired(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "e4018")
	recipient := env.createUser(t, "e4019")
	file := env.uploadFile(t, owner.ID, "a.txt", "data")
	ctx := context.Background()

	_, _, err := env.service.ResolveFileLink(ctx, "nosuchtokennosuchtokennosuchtoke")
	assert.True(t, errors.Is(err, xerr.ErrShareNotFound))

	// 已过期的链接与不存在的链接表现一致
	expired := time.Now().Add(-time.Hour)
	require.NoError(t, env.shareRepo.CreateFileShare(&models.SharedFile{
		FileID: file.ID, SharedWithID: recipient.ID,
		Permission: models.PermissionRead, ExternalLink: "expiredlinkexpiredlinkexpiredli1", ExpiresAt: &expired,
	}))
	_, _, err = env.service.ResolveFileLink(ctx, "expiredlinkexpiredlinkexpiredli1")
	assert.True(t, errors.Is(err, xerr.ErrShareNotFound))
}

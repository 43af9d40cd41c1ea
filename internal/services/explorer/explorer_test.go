package explorer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"teamdisk/internal/config"
	"teamdisk/internal/models"
	"teamdisk/internal/repositories"
)

// testEnv 把存储服务及其全部依赖组装到一个临时目录和 SQLite 库上
type testEnv struct {
	db           *gorm.DB
	cfg          *config.Config
	userRepo     repositories.UserRepository
	fileRepo     repositories.FileRepository
	folderRepo   repositories.FolderRepository
	shareRepo    repositories.ShareRepository
	pathResolver PathResolver
	quota        QuotaTracker
	access       AccessChecker
	service      StorageService
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
		&models.Activity{},
	))

	cfg := &config.Config{}
	cfg.Storage.UploadsDir = t.TempDir()
	cfg.Storage.DefaultQuotaBytes = int64(5) << 30
	cfg.Storage.TotalBytes = int64(5) << 40

	env := &testEnv{
		db:         db,
		cfg:        cfg,
		userRepo:   repositories.NewUserRepository(db),
		fileRepo:   repositories.NewFileRepository(db),
		folderRepo: repositories.NewFolderRepository(db),
		shareRepo:  repositories.NewShareRepository(db),
	}
	env.pathResolver = NewPathResolver(env.folderRepo, cfg)
	env.quota = NewQuotaTracker(env.userRepo, env.fileRepo, cfg)
	env.access = NewAccessChecker(env.shareRepo)
	env.service = NewStorageService(env.fileRepo, env.folderRepo, env.shareRepo, env.pathResolver, env.quota, env.access, NewTransactionManager(db), cfg)
	return env
}

// createUser 插入用户并初始化其根目录
func (env *testEnv) createUser(t *testing.T, employeeID string, quota *int64) *models.User {
	t.Helper()
	user := &models.User{
		EmployeeID:   employeeID,
		Email:        employeeID + "@example.com",
		PasswordHash: "x",
		Name:         employeeID,
		StorageQuota: quota,
	}
	require.NoError(t, env.userRepo.Create(user))
	require.NoError(t, env.pathResolver.EnsureUserRoot(user.ID))
	return user
}

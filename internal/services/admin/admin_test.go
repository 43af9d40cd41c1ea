package admin

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"teamdisk/internal/config"
	"teamdisk/internal/models"
	"teamdisk/internal/repositories"
	"teamdisk/internal/services/explorer"
)

type testEnv struct {
	cfg         *config.Config
	userRepo    repositories.UserRepository
	fileRepo    repositories.FileRepository
	quota       explorer.QuotaTracker
	authService AuthService
	userService UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "teamdisk.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Folder{}, &models.File{}))

	cfg := &config.Config{}
	cfg.Storage.UploadsDir = t.TempDir()
	cfg.Storage.DefaultQuotaBytes = int64(5) << 30
	cfg.Storage.TotalBytes = int64(5) << 40
	cfg.JWT.SecretKey = "test-secret"
	cfg.JWT.Issuer = "teamdisk"
	cfg.JWT.ExpiresIn = time.Hour

	userRepo := repositories.NewUserRepository(db)
	fileRepo := repositories.NewFileRepository(db)
	folderRepo := repositories.NewFolderRepository(db)
	pathResolver := explorer.NewPathResolver(folderRepo, cfg)
	quota := explorer.NewQuotaTracker(userRepo, fileRepo, cfg)

	return &testEnv{
		cfg:         cfg,
		userRepo:    userRepo,
		fileRepo:    fileRepo,
		quota:       quota,
		authService: NewAuthService(userRepo, pathResolver, cfg),
		userService: NewUserService(userRepo, quota, nil, cfg),
	}
}

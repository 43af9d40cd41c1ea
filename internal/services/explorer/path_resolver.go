package explorer

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"teamdisk/internal/config"
	"teamdisk/internal/pkg/logger"
	"teamdisk/internal/pkg/xerr"
	"teamdisk/internal/repositories"
)

// PathResolver 把 (用户, 文件夹) 映射到磁盘上的绝对目录
//
// 布局: {uploads_dir}/{userID} 为用户根目录, 子文件夹使用
// folders 表中持久化的 Path 字段, 路径在创建文件夹时确定
type PathResolver interface {
	// Resolve 返回目标文件夹对应的磁盘目录, folderID 为 nil 表示用户根目录
	Resolve(userID uint64, folderID *uint64) (string, error)
	// UserRoot 返回用户根目录路径, 不检查其是否已存在
	UserRoot(userID uint64) string
	// EnsureUserRoot 在注册时调用, 创建用户根目录
	EnsureUserRoot(userID uint64) error
}

type pathResolver struct {
	folderRepo repositories.FolderRepository
	cfg        *config.Config
}

var _ PathResolver = (*pathResolver)(nil)

// NewPathResolver 创建一个新的 PathResolver 实例
func NewPathResolver(folderRepo repositories.FolderRepository, cfg *config.Config) PathResolver {
	return &pathResolver{folderRepo: folderRepo, cfg: cfg}
}

func (p *pathResolver) UserRoot(userID uint64) string {
	return filepath.Join(p.cfg.Storage.UploadsDir, strconv.FormatUint(userID, 10))
}

func (p *pathResolver) EnsureUserRoot(userID uint64) error {
	root := p.UserRoot(userID)
	if err := os.MkdirAll(root, 0o755); err != nil {
		logger.Error("EnsureUserRoot: failed to create user root directory",
			zap.Uint64("userID", userID),
			zap.String("path", root),
			zap.Error(err))
		return fmt.Errorf("path resolver: %w", xerr.ErrStorageIO)
	}
	return nil
}

func (p *pathResolver) Resolve(userID uint64, folderID *uint64) (string, error) {
	if folderID == nil {
		return p.UserRoot(userID), nil
	}

	folder, err := p.folderRepo.FindByID(*folderID)
	if err != nil {
		return "", fmt.Errorf("path resolver: %w", err)
	}
	return folder.Path, nil
}

package explorer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"teamdisk/internal/models"
	"teamdisk/internal/pkg/logger"
	"teamdisk/internal/pkg/xerr"
	"teamdisk/internal/repositories"
)

// AccessChecker 集中裁决对文件和文件夹的访问权限
//
// 规则: 所有者拥有全部权限; 非所有者需要一条未过期的分享记录,
// write 权限蕴含 read. 每次裁决都实时查询分享表, 过期即刻生效
type AccessChecker interface {
	// CanReadFile 检查读取权限, 拒绝时返回 ErrAccessDenied
	CanReadFile(userID uint64, file *models.File) error
	CanWriteFile(userID uint64, file *models.File) error
	CanReadFolder(userID uint64, folder *models.Folder) error
	CanWriteFolder(userID uint64, folder *models.Folder) error
}

type accessChecker struct {
	shareRepo repositories.ShareRepository
	now       func() time.Time
}

var _ AccessChecker = (*accessChecker)(nil)

// NewAccessChecker 创建一个新的 AccessChecker 实例
func NewAccessChecker(shareRepo repositories.ShareRepository) AccessChecker {
	return &accessChecker{shareRepo: shareRepo, now: time.Now}
}

func (a *accessChecker) CanReadFile(userID uint64, file *models.File) error {
	if file.OwnerID == userID {
		return nil
	}

	share, err := a.shareRepo.ActiveFileShare(file.ID, userID, a.now())
	if err != nil {
		return fmt.Errorf("access checker: %w", err)
	}
	if share == nil {
		logger.Warn("File access denied",
			zap.Uint64("fileID", file.ID),
			zap.Uint64("userID", userID),
			zap.Uint64("ownerID", file.OwnerID))
		return fmt.Errorf("access checker: %w", xerr.ErrAccessDenied)
	}
	return nil
}

func (a *accessChecker) CanWriteFile(userID uint64, file *models.File) error {
	if file.OwnerID == userID {
		return nil
	}

	share, err := a.shareRepo.ActiveFileShare(file.ID, userID, a.now())
	if err != nil {
		return fmt.Errorf("access checker: %w", err)
	}
	if share == nil || share.Permission != models.PermissionWrite {
		logger.Warn("File write access denied",
			zap.Uint64("fileID", file.ID),
			zap.Uint64("userID", userID))
		return fmt.Errorf("access checker: %w", xerr.ErrAccessDenied)
	}
	return nil
}

func (a *accessChecker) CanReadFolder(userID uint64, folder *models.Folder) error {
	if folder.OwnerID == userID {
		return nil
	}

	share, err := a.shareRepo.ActiveFolderShare(folder.ID, userID, a.now())
	if err != nil {
		return fmt.Errorf("access checker: %w", err)
	}
	if share == nil {
		logger.Warn("Folder access denied",
			zap.Uint64("folderID", folder.ID),
			zap.Uint64("userID", userID),
			zap.Uint64("ownerID", folder.OwnerID))
		return fmt.Errorf("access checker: %w", xerr.ErrAccessDenied)
	}
	return nil
}

func (a *accessChecker) CanWriteFolder(userID uint64, folder *models.Folder) error {
	if folder.OwnerID == userID {
		return nil
	}

	share, err := a.shareRepo.ActiveFolderShare(folder.ID, userID, a.now())
	if err != nil {
		return fmt.Errorf("access checker: %w", err)
	}
	if share == nil || share.Permission != models.PermissionWrite {
		logger.Warn("Folder write access denied",
			zap.Uint64("folderID", folder.ID),
			zap.Uint64("userID", userID))
		return fmt.Errorf("access checker: %w", xerr.ErrAccessDenied)
	}
	return nil
}

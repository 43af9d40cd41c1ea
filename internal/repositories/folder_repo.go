package repositories

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"teamdisk/internal/models"
	"teamdisk/internal/pkg/logger"
	"teamdisk/internal/pkg/xerr"
)

type FolderRepository interface {
	Create(tx *gorm.DB, folder *models.Folder) error
	FindByID(id uint64) (*models.Folder, error)
	// FindByPath 按磁盘路径查找文件夹记录, 不存在时返回 (nil, nil)
	FindByPath(path string) (*models.Folder, error)
	// FindVisibleChildren 返回指定目录下调用者可见的直接子文件夹:
	// 自己拥有的, 或存在有效分享的, 按更新时间倒序
	FindVisibleChildren(userID uint64, parentID *uint64, now time.Time) ([]models.Folder, error)
	// FindSubfolders 返回直接子文件夹, 不做可见性过滤(删除递归用)
	FindSubfolders(parentID uint64) ([]models.Folder, error)
	Delete(id uint64) error
}

type folderRepository struct {
	db *gorm.DB
}

var _ FolderRepository = (*folderRepository)(nil)

// NewFolderRepository 创建一个新的 FolderRepository 实例
func NewFolderRepository(db *gorm.DB) FolderRepository {
	return &folderRepository{db: db}
}

// Create 在事务内插入文件夹记录, tx 为 nil 时退化为普通写入
func (r *folderRepository) Create(tx *gorm.DB, folder *models.Folder) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	if err := db.Create(folder).Error; err != nil {
		logger.Error("Create: Failed to create folder in DB",
			zap.Uint64("ownerID", folder.OwnerID),
			zap.String("name", folder.Name),
			zap.Error(err))
		return fmt.Errorf("failed to create folder: %w", err)
	}
	return nil
}

func (r *folderRepository) FindByID(id uint64) (*models.Folder, error) {
	var folder models.Folder
	if err := r.db.First(&folder, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.ErrFolderNotFound
		}
		return nil, fmt.Errorf("failed to find folder: %w", err)
	}
	return &folder, nil
}

func (r *folderRepository) FindByPath(path string) (*models.Folder, error) {
	var folder models.Folder
	if err := r.db.Where("path = ?", path).First(&folder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find folder by path: %w", err)
	}
	return &folder, nil
}

func (r *folderRepository) FindVisibleChildren(userID uint64, parentID *uint64, now time.Time) ([]models.Folder, error) {
	activeShares := r.db.Model(&models.SharedFolder{}).
		Select("folder_id").
		Where("shared_with_id = ? AND (expires_at IS NULL OR expires_at > ?)", userID, now)

	query := r.db.Where(
		r.db.Where("owner_id = ?", userID).Or("id IN (?)", activeShares),
	)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var folders []models.Folder
	if err := query.Order("updated_at DESC").Find(&folders).Error; err != nil {
		logger.Error("Error finding visible folders",
			zap.Uint64("userID", userID), zap.Any("parentID", parentID), zap.Error(err))
		return nil, fmt.Errorf("failed to find folders: %w", err)
	}
	return folders, nil
}

func (r *folderRepository) FindSubfolders(parentID uint64) ([]models.Folder, error) {
	var folders []models.Folder
	if err := r.db.Where("parent_id = ?", parentID).Find(&folders).Error; err != nil {
		return nil, fmt.Errorf("failed to find subfolders: %w", err)
	}
	return folders, nil
}

func (r *folderRepository) Delete(id uint64) error {
	if err := r.db.Delete(&models.Folder{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}
	return nil
}

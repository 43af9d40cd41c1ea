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

type FileRepository interface {
	Create(tx *gorm.DB, file *models.File) error
	FindByID(id uint64) (*models.File, error)
	// FindVisibleByFolder 返回指定目录下调用者可见的文件:
	// 自己拥有的, 或存在有效分享的, 按更新时间倒序
	FindVisibleByFolder(userID uint64, folderID *uint64, now time.Time) ([]models.File, error)
	// FindByFolder 返回目录下全部文件, 不做可见性过滤(删除递归用)
	FindByFolder(folderID uint64) ([]models.File, error)
	// SumSizeByOwner 实时聚合用户存量字节数, 配额校验依赖该查询, 不允许缓存
	SumSizeByOwner(ownerID uint64) (int64, error)
	CountByOwner(ownerID uint64) (int64, error)
	UpdateLastAccessed(id uint64, t time.Time) error
	Delete(id uint64) error
}

type fileRepository struct {
	db *gorm.DB
}

var _ FileRepository = (*fileRepository)(nil)

// NewFileRepository 创建一个新的 FileRepository 实例
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

// Create 在事务内插入文件记录, tx 为 nil 时退化为普通写入
func (r *fileRepository) Create(tx *gorm.DB, file *models.File) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	if err := db.Create(file).Error; err != nil {
		logger.Error("Create: Failed to create file in DB",
			zap.Uint64("ownerID", file.OwnerID),
			zap.String("name", file.Name),
			zap.Error(err))
		return fmt.Errorf("failed to create file: %w", err)
	}
	return nil
}

func (r *fileRepository) FindByID(id uint64) (*models.File, error) {
	var file models.File
	if err := r.db.First(&file, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to find file: %w", err)
	}
	return &file, nil
}

func (r *fileRepository) FindVisibleByFolder(userID uint64, folderID *uint64, now time.Time) ([]models.File, error) {
	activeShares := r.db.Model(&models.SharedFile{}).
		Select("file_id").
		Where("shared_with_id = ? AND (expires_at IS NULL OR expires_at > ?)", userID, now)

	query := r.db.Where(
		r.db.Where("owner_id = ?", userID).Or("id IN (?)", activeShares),
	)
	if folderID == nil {
		query = query.Where("folder_id IS NULL")
	} else {
		query = query.Where("folder_id = ?", *folderID)
	}

	var files []models.File
	if err := query.Order("updated_at DESC").Find(&files).Error; err != nil {
		logger.Error("Error finding visible files",
			zap.Uint64("userID", userID), zap.Any("folderID", folderID), zap.Error(err))
		return nil, fmt.Errorf("failed to find files: %w", err)
	}
	return files, nil
}

func (r *fileRepository) FindByFolder(folderID uint64) ([]models.File, error) {
	var files []models.File
	if err := r.db.Where("folder_id = ?", folderID).Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to find files in folder: %w", err)
	}
	return files, nil
}

func (r *fileRepository) SumSizeByOwner(ownerID uint64) (int64, error) {
	var total int64
	err := r.db.Model(&models.File{}).
		Where("owner_id = ?", ownerID).
		Select("COALESCE(SUM(size), 0)").
		Scan(&total).Error
	if err != nil {
		logger.Error("Error summing file sizes", zap.Uint64("ownerID", ownerID), zap.Error(err))
		return 0, fmt.Errorf("failed to sum file sizes: %w", err)
	}
	return total, nil
}

func (r *fileRepository) CountByOwner(ownerID uint64) (int64, error) {
	var count int64
	if err := r.db.Model(&models.File{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count files: %w", err)
	}
	return count, nil
}

// UpdateLastAccessed 更新下载时间戳, 调用方可以忽略错误
func (r *fileRepository) UpdateLastAccessed(id uint64, t time.Time) error {
	return r.db.Model(&models.File{}).Where("id = ?", id).Update("last_accessed_at", t).Error
}

func (r *fileRepository) Delete(id uint64) error {
	if err := r.db.Delete(&models.File{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

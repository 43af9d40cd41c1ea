package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"teamdisk/internal/models"
)

type ShareRepository interface {
	CreateFileShare(share *models.SharedFile) error
	CreateFolderShare(share *models.SharedFolder) error
	FindFileShareByID(id uint64) (*models.SharedFile, error)
	FindFolderShareByID(id uint64) (*models.SharedFolder, error)
	// FindFileShareByLink 根据外部令牌查找文件分享, 未找到返回 nil, nil
	FindFileShareByLink(link string) (*models.SharedFile, error)
	// ActiveFileShare 查找某用户对某文件当前有效的分享, 没有返回 nil, nil
	ActiveFileShare(fileID, userID uint64, now time.Time) (*models.SharedFile, error)
	ActiveFolderShare(folderID, userID uint64, now time.Time) (*models.SharedFolder, error)
	ListFileSharesByOwner(ownerID uint64) ([]models.SharedFile, error)
	ListFolderSharesByOwner(ownerID uint64) ([]models.SharedFolder, error)
	DeleteFileShare(id uint64) error
	DeleteFolderShare(id uint64) error
	// DeleteByFileID / DeleteByFolderID 删除资源时清理其全部分享记录
	DeleteByFileID(fileID uint64) error
	DeleteByFolderID(folderID uint64) error
}

type shareRepository struct {
	db *gorm.DB
}

var _ ShareRepository = (*shareRepository)(nil)

// NewShareRepository 创建新的 ShareRepository 实例
func NewShareRepository(db *gorm.DB) ShareRepository {
	return &shareRepository{db: db}
}

func (r *shareRepository) CreateFileShare(share *models.SharedFile) error {
	if err := r.db.Create(share).Error; err != nil {
		return fmt.Errorf("创建文件分享记录失败: %w", err)
	}
	return nil
}

func (r *shareRepository) CreateFolderShare(share *models.SharedFolder) error {
	if err := r.db.Create(share).Error; err != nil {
		return fmt.Errorf("创建文件夹分享记录失败: %w", err)
	}
	return nil
}

func (r *shareRepository) FindFileShareByID(id uint64) (*models.SharedFile, error) {
	var share models.SharedFile
	if err := r.db.First(&share, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询文件分享失败: %w", err)
	}
	return &share, nil
}

func (r *shareRepository) FindFolderShareByID(id uint64) (*models.SharedFolder, error) {
	var share models.SharedFolder
	if err := r.db.First(&share, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询文件夹分享失败: %w", err)
	}
	return &share, nil
}

func (r *shareRepository) FindFileShareByLink(link string) (*models.SharedFile, error) {
	var share models.SharedFile
	// 预加载 File, 外链下载时直接可用
	err := r.db.Preload("File").Where("external_link = ?", link).First(&share).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询分享链接失败: %w", err)
	}
	return &share, nil
}

func (r *shareRepository) ActiveFileShare(fileID, userID uint64, now time.Time) (*models.SharedFile, error) {
	var share models.SharedFile
	err := r.db.
		Where("file_id = ? AND shared_with_id = ?", fileID, userID).
		Where("expires_at IS NULL OR expires_at > ?", now).
		First(&share).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询文件分享状态失败: %w", err)
	}
	return &share, nil
}

func (r *shareRepository) ActiveFolderShare(folderID, userID uint64, now time.Time) (*models.SharedFolder, error) {
	var share models.SharedFolder
	err := r.db.
		Where("folder_id = ? AND shared_with_id = ?", folderID, userID).
		Where("expires_at IS NULL OR expires_at > ?", now).
		First(&share).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询文件夹分享状态失败: %w", err)
	}
	return &share, nil
}

func (r *shareRepository) ListFileSharesByOwner(ownerID uint64) ([]models.SharedFile, error) {
	var shares []models.SharedFile
	err := r.db.Preload("File").
		Joins("JOIN files ON files.id = shared_files.file_id").
		Where("files.owner_id = ?", ownerID).
		Order("shared_files.created_at DESC").
		Find(&shares).Error
	if err != nil {
		return nil, fmt.Errorf("查询文件分享列表失败: %w", err)
	}
	return shares, nil
}

func (r *shareRepository) ListFolderSharesByOwner(ownerID uint64) ([]models.SharedFolder, error) {
	var shares []models.SharedFolder
	err := r.db.Preload("Folder").
		Joins("JOIN folders ON folders.id = shared_folders.folder_id").
		Where("folders.owner_id = ?", ownerID).
		Order("shared_folders.created_at DESC").
		Find(&shares).Error
	if err != nil {
		return nil, fmt.Errorf("查询文件夹分享列表失败: %w", err)
	}
	return shares, nil
}

func (r *shareRepository) DeleteFileShare(id uint64) error {
	return r.db.Delete(&models.SharedFile{}, id).Error
}

func (r *shareRepository) DeleteFolderShare(id uint64) error {
	return r.db.Delete(&models.SharedFolder{}, id).Error
}

func (r *shareRepository) DeleteByFileID(fileID uint64) error {
	return r.db.Where("file_id = ?", fileID).Delete(&models.SharedFile{}).Error
}

func (r *shareRepository) DeleteByFolderID(folderID uint64) error {
	return r.db.Where("folder_id = ?", folderID).Delete(&models.SharedFolder{}).Error
}

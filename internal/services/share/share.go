package share

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"teamdisk/internal/models"
	"teamdisk/internal/pkg/logger"
	"teamdisk/internal/pkg/utils"
	"teamdisk/internal/pkg/xerr"
	"teamdisk/internal/repositories"
	"teamdisk/internal/services/explorer"
)

// ShareService 定义了文件/文件夹分享服务需要实现的接口
type ShareService interface {
	// ShareFile 把文件分享给另一个用户, expiresAt 为 nil 表示永不过期
	ShareFile(ctx context.Context, ownerID, fileID, recipientID uint64, permission models.Permission, expiresAt *time.Time) (*models.SharedFile, error)
	// ShareFolder 把文件夹分享给另一个用户
	ShareFolder(ctx context.Context, ownerID, folderID, recipientID uint64, permission models.Permission, expiresAt *time.Time) (*models.SharedFolder, error)
	// ListFileShares 列出某用户作为所有者创建的全部文件分享
	ListFileShares(ownerID uint64) ([]models.SharedFile, error)
	ListFolderShares(ownerID uint64) ([]models.SharedFolder, error)
	// RevokeFileShare 撤销分享, 仅限资源所有者
	RevokeFileShare(ctx context.Context, ownerID, shareID uint64) error
	RevokeFolderShare(ctx context.Context, ownerID, shareID uint64) error
	// ResolveFileLink 通过外部令牌打开分享文件, 过期或不存在返回 ErrShareNotFound
	ResolveFileLink(ctx context.Context, link string) (*models.File, io.ReadCloser, error)
}

type shareService struct {
	shareRepo      repositories.ShareRepository
	fileRepo       repositories.FileRepository
	folderRepo     repositories.FolderRepository
	userRepo       repositories.UserRepository
	storageService explorer.StorageService
	now            func() time.Time
}

var _ ShareService = (*shareService)(nil)

// NewShareService 创建一个新的 ShareService 实例
func NewShareService(
	shareRepo repositories.ShareRepository,
	fileRepo repositories.FileRepository,
	folderRepo repositories.FolderRepository,
	userRepo repositories.UserRepository,
	storageService explorer.StorageService,
) ShareService {
	return &shareService{
		shareRepo:      shareRepo,
		fileRepo:       fileRepo,
		folderRepo:     folderRepo,
		userRepo:       userRepo,
		storageService: storageService,
		now:            time.Now,
	}
}

// validateShareRequest 校验三方共有的分享前置条件
func (s *shareService) validateShareRequest(ownerID, recipientID uint64, permission models.Permission, expiresAt *time.Time) error {
	if !permission.Valid() {
		return fmt.Errorf("share service: %w", xerr.ErrInvalidParams)
	}
	if ownerID == recipientID {
		logger.Warn("CreateShare: cannot share with yourself", zap.Uint64("userID", ownerID))
		return fmt.Errorf("share service: %w", xerr.ErrInvalidOperation)
	}
	if expiresAt != nil && !expiresAt.After(s.now()) {
		logger.Warn("CreateShare: expiry time already in the past",
			zap.Uint64("userID", ownerID),
			zap.Time("expiresAt", *expiresAt))
		return fmt.Errorf("share service: %w", xerr.ErrInvalidOperation)
	}
	if _, err := s.userRepo.FindByID(recipientID); err != nil {
		return fmt.Errorf("share service: %w", err)
	}
	return nil
}

func (s *shareService) ShareFile(ctx context.Context, ownerID, fileID, recipientID uint64, permission models.Permission, expiresAt *time.Time) (*models.SharedFile, error) {
	file, err := s.fileRepo.FindByID(fileID)
	if err != nil {
		return nil, fmt.Errorf("share service: %w", err)
	}
	if file.OwnerID != ownerID {
		logger.Warn("ShareFile: only the owner can share a file",
			zap.Uint64("fileID", fileID),
			zap.Uint64("userID", ownerID),
			zap.Uint64("ownerID", file.OwnerID))
		return nil, fmt.Errorf("share service: %w", xerr.ErrAccessDenied)
	}

	if err := s.validateShareRequest(ownerID, recipientID, permission, expiresAt); err != nil {
		return nil, err
	}

	link, err := utils.GenerateShareLink()
	if err != nil {
		logger.Error("ShareFile: failed to generate share link", zap.Error(err))
		return nil, fmt.Errorf("share service: %w", xerr.ErrInternalServer)
	}

	newShare := &models.SharedFile{
		FileID:       fileID,
		SharedWithID: recipientID,
		Permission:   permission,
		ExternalLink: link,
		ExpiresAt:    expiresAt,
	}
	if err := s.shareRepo.CreateFileShare(newShare); err != nil {
		logger.Error("ShareFile: failed to create share record",
			zap.Uint64("fileID", fileID),
			zap.Error(err))
		return nil, fmt.Errorf("share service: %w", xerr.ErrPersistence)
	}

	logger.Info("ShareFile: share created successfully",
		zap.Uint64("shareID", newShare.ID),
		zap.Uint64("fileID", fileID),
		zap.Uint64("recipientID", recipientID),
		zap.String("permission", string(permission)))
	return newShare, nil
}

func (s *shareService) ShareFolder(ctx context.Context, ownerID, folderID, recipientID uint64, permission models.Permission, expiresAt *time.Time) (*models.SharedFolder, error) {
	folder, err := s.folderRepo.FindByID(folderID)
	if err != nil {
		return nil, fmt.Errorf("share service: %w", err)
	}
	if folder.OwnerID != ownerID {
		logger.Warn("ShareFolder: only the owner can share a folder",
			zap.Uint64("folderID", folderID),
			zap.Uint64("userID", ownerID),
			zap.Uint64("ownerID", folder.OwnerID))
		return nil, fmt.Errorf("share service: %w", xerr.ErrAccessDenied)
	}

	if err := s.validateShareRequest(ownerID, recipientID, permission, expiresAt); err != nil {
		return nil, err
	}

	link, err := utils.GenerateShareLink()
	if err != nil {
		logger.Error("ShareFolder: failed to generate share link", zap.Error(err))
		return nil, fmt.Errorf("share service: %w", xerr.ErrInternalServer)
	}

	newShare := &models.SharedFolder{
		FolderID:     folderID,
		SharedWithID: recipientID,
		Permission:   permission,
		ExternalLink: link,
		ExpiresAt:    expiresAt,
	}
	if err := s.shareRepo.CreateFolderShare(newShare); err != nil {
		logger.Error("ShareFolder: failed to create share record",
			zap.Uint64("folderID", folderID),
			zap.Error(err))
		return nil, fmt.Errorf("share service: %w", xerr.ErrPersistence)
	}

	logger.Info("ShareFolder: share created successfully",
		zap.Uint64("shareID", newShare.ID),
		zap.Uint64("folderID", folderID),
		zap.Uint64("recipientID", recipientID),
		zap.String("permission", string(permission)))
	return newShare, nil
}

func (s *shareService) ListFileShares(ownerID uint64) ([]models.SharedFile, error) {
	shares, err := s.shareRepo.ListFileSharesByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("share service: %w", xerr.ErrPersistence)
	}
	return shares, nil
}

func (s *shareService) ListFolderShares(ownerID uint64) ([]models.SharedFolder, error) {
	shares, err := s.shareRepo.ListFolderSharesByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("share service: %w", xerr.ErrPersistence)
	}
	return shares, nil
}

func (s *shareService) RevokeFileShare(ctx context.Context, ownerID, shareID uint64) error {
	existing, err := s.shareRepo.FindFileShareByID(shareID)
	if err != nil {
		return fmt.Errorf("share service: %w", xerr.ErrPersistence)
	}
	if existing == nil {
		return fmt.Errorf("share service: %w", xerr.ErrShareNotFound)
	}

	file, err := s.fileRepo.FindByID(existing.FileID)
	if err != nil {
		return fmt.Errorf("share service: %w", err)
	}
	if file.OwnerID != ownerID {
		return fmt.Errorf("share service: %w", xerr.ErrAccessDenied)
	}

	if err := s.shareRepo.DeleteFileShare(shareID); err != nil {
		logger.Error("RevokeFileShare: failed to delete share", zap.Uint64("shareID", shareID), zap.Error(err))
		return fmt.Errorf("share service: %w", xerr.ErrPersistence)
	}

	logger.Info("RevokeFileShare: share revoked", zap.Uint64("shareID", shareID), zap.Uint64("userID", ownerID))
	return nil
}

func (s *shareService) RevokeFolderShare(ctx context.Context, ownerID, shareID uint64) error {
	existing, err := s.shareRepo.FindFolderShareByID(shareID)
	if err != nil {
		return fmt.Errorf("share service: %w", xerr.ErrPersistence)
	}
	if existing == nil {
		return fmt.Errorf("share service: %w", xerr.ErrShareNotFound)
	}

	folder, err := s.folderRepo.FindByID(existing.FolderID)
	if err != nil {
		return fmt.Errorf("share service: %w", err)
	}
	if folder.OwnerID != ownerID {
		return fmt.Errorf("share service: %w", xerr.ErrAccessDenied)
	}

	if err := s.shareRepo.DeleteFolderShare(shareID); err != nil {
		logger.Error("RevokeFolderShare: failed to delete share", zap.Uint64("shareID", shareID), zap.Error(err))
		return fmt.Errorf("share service: %w", xerr.ErrPersistence)
	}

	logger.Info("RevokeFolderShare: share revoked", zap.Uint64("shareID", shareID), zap.Uint64("userID", ownerID))
	return nil
}

func (s *shareService) ResolveFileLink(ctx context.Context, link string) (*models.File, io.ReadCloser, error) {
	share, err := s.shareRepo.FindFileShareByLink(link)
	if err != nil {
		return nil, nil, fmt.Errorf("share service: %w", xerr.ErrPersistence)
	}
	// 无效和过期的令牌对外不可区分
	if share == nil || !share.Active(s.now()) {
		logger.Warn("ResolveFileLink: link not found or expired", zap.String("link", link))
		return nil, nil, fmt.Errorf("share service: %w", xerr.ErrShareNotFound)
	}

	// 外链下载以分享接收者的身份读取文件
	return s.storageService.Download(ctx, share.SharedWithID, share.FileID)
}

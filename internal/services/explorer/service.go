package explorer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"teamdisk/internal/config"
	"teamdisk/internal/models"
	"teamdisk/internal/pkg/logger"
	"teamdisk/internal/pkg/utils"
	"teamdisk/internal/pkg/xerr"
	"teamdisk/internal/repositories"
)

// Entry 列表中的一项, 文件或子文件夹
type Entry struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	IsFolder     bool      `json:"is_folder"`
	Size         int64     `json:"size"`
	SizeLabel    string    `json:"size_label"`
	MimeType     string    `json:"mime_type,omitempty"`
	OwnerID      uint64    `json:"owner_id"`
	UpdatedAt    time.Time `json:"updated_at"`
	UpdatedLabel string    `json:"updated_label"`
}

// FolderListing 某个文件夹的完整视图: 子项 + 当前用量
type FolderListing struct {
	FolderID *uint64 `json:"folder_id"`
	Entries  []Entry `json:"entries"`
	Usage    Usage   `json:"usage"`
}

type StorageService interface {
	// UploadFile 将 content 写入磁盘并登记文件记录
	// 配额不足时整体失败, 不留下任何磁盘或数据库痕迹
	UploadFile(ctx context.Context, userID uint64, folderID *uint64, originalName, mimeType string, size int64, content io.Reader) (*models.File, error)

	// CreateFolder 在 parentID 下创建文件夹, parentID 为 nil 表示用户根目录
	CreateFolder(ctx context.Context, userID uint64, name string, parentID *uint64) (*models.Folder, error)

	// ListFolderContents 返回用户在该文件夹下可见的文件和子文件夹
	ListFolderContents(ctx context.Context, userID uint64, folderID *uint64) (*FolderListing, error)

	// DeleteFile 删除文件记录, 分享记录与磁盘内容, 返回被删文件的快照
	DeleteFile(ctx context.Context, userID uint64, fileID uint64) (*models.File, error)

	// DeleteFolder 递归删除文件夹及其全部内容, 磁盘清理尽力而为
	DeleteFolder(ctx context.Context, userID uint64, folderID uint64) error

	// Download 校验读取权限后打开文件内容, 调用方负责关闭 reader
	Download(ctx context.Context, userID uint64, fileID uint64) (*models.File, io.ReadCloser, error)

	// GetFileByID 返回文件记录, 要求读取权限
	GetFileByID(userID uint64, fileID uint64) (*models.File, error)

	// DiskPath 返回文件在磁盘上的绝对路径
	DiskPath(file *models.File) string
}

type storageService struct {
	fileRepo           repositories.FileRepository
	folderRepo         repositories.FolderRepository
	shareRepo          repositories.ShareRepository
	pathResolver       PathResolver
	quota              QuotaTracker
	access             AccessChecker
	transactionManager TransactionManager
	cfg                *config.Config
	now                func() time.Time
}

var _ StorageService = (*storageService)(nil)

// NewStorageService 创建一个新的存储服务实例
func NewStorageService(
	fileRepo repositories.FileRepository,
	folderRepo repositories.FolderRepository,
	shareRepo repositories.ShareRepository,
	pathResolver PathResolver,
	quota QuotaTracker,
	access AccessChecker,
	transactionManager TransactionManager,
	cfg *config.Config,
) StorageService {
	return &storageService{
		fileRepo:           fileRepo,
		folderRepo:         folderRepo,
		shareRepo:          shareRepo,
		pathResolver:       pathResolver,
		quota:              quota,
		access:             access,
		transactionManager: transactionManager,
		cfg:                cfg,
		now:                time.Now,
	}
}

func (s *storageService) DiskPath(file *models.File) string {
	return filepath.Join(s.cfg.Storage.UploadsDir, file.Path)
}

func (s *storageService) UploadFile(ctx context.Context, userID uint64, folderID *uint64, originalName, mimeType string, size int64, content io.Reader) (*models.File, error) {
	// 空文件没有存储意义, 负的长度说明请求本身有问题
	if size <= 0 {
		return nil, fmt.Errorf("storage service: %w", xerr.ErrInvalidOperation)
	}

	// 1. 配额预检, 拒绝则不碰磁盘
	if err := s.quota.CanAccept(userID, size); err != nil {
		return nil, err
	}

	// 2. 目标文件夹存在性与写权限
	if folderID != nil {
		folder, err := s.folderRepo.FindByID(*folderID)
		if err != nil {
			return nil, fmt.Errorf("storage service: %w", err)
		}
		if err := s.access.CanWriteFolder(userID, folder); err != nil {
			return nil, err
		}
	}

	dir, err := s.pathResolver.Resolve(userID, folderID)
	if err != nil {
		return nil, err
	}

	// 3. 清洗文件名并加时间戳前缀避免同目录冲突
	cleanName := utils.SanitizeFileName(originalName)
	if cleanName == "" {
		return nil, fmt.Errorf("storage service: %w", xerr.ErrFileNameInvalid)
	}
	diskName := fmt.Sprintf("%d-%s", s.now().UnixMilli(), cleanName)
	fullPath := filepath.Join(dir, diskName)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Error("UploadFile: failed to create target directory",
			zap.Uint64("userID", userID),
			zap.String("dir", dir),
			zap.Error(err))
		return nil, fmt.Errorf("storage service: %w", xerr.ErrStorageIO)
	}

	// 4. 先落盘再入库, 入库失败时删除已写入的字节
	written, err := s.writeContent(fullPath, content)
	if err != nil {
		return nil, err
	}

	relPath, err := filepath.Rel(s.cfg.Storage.UploadsDir, fullPath)
	if err != nil {
		_ = os.Remove(fullPath)
		logger.Error("UploadFile: failed to relativize path", zap.String("path", fullPath), zap.Error(err))
		return nil, fmt.Errorf("storage service: %w", xerr.ErrStorageIO)
	}

	file := &models.File{
		Name:     cleanName,
		Path:     relPath,
		Size:     written,
		MimeType: mimeType,
		OwnerID:  userID,
		FolderID: folderID,
	}

	err = s.transactionManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		return s.fileRepo.Create(tx, file)
	})
	if err != nil {
		if rmErr := os.Remove(fullPath); rmErr != nil {
			logger.Error("UploadFile: failed to remove orphaned file after DB error",
				zap.String("path", fullPath),
				zap.Error(rmErr))
		}
		logger.Error("UploadFile: failed to create file record",
			zap.Uint64("userID", userID),
			zap.String("fileName", cleanName),
			zap.Error(err))
		return nil, fmt.Errorf("storage service: %w", xerr.ErrPersistence)
	}

	logger.Info("UploadFile: file uploaded successfully",
		zap.Uint64("fileID", file.ID),
		zap.Uint64("userID", userID),
		zap.String("fileName", cleanName),
		zap.Int64("size", written))
	return file, nil
}

func (s *storageService) writeContent(fullPath string, content io.Reader) (int64, error) {
	dst, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		logger.Error("UploadFile: failed to create file on disk", zap.String("path", fullPath), zap.Error(err))
		return 0, fmt.Errorf("storage service: %w", xerr.ErrStorageIO)
	}

	written, err := io.Copy(dst, content)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(fullPath)
		logger.Error("UploadFile: failed to write file content", zap.String("path", fullPath), zap.Error(err))
		return 0, fmt.Errorf("storage service: %w", xerr.ErrStorageIO)
	}
	return written, nil
}

func (s *storageService) CreateFolder(ctx context.Context, userID uint64, name string, parentID *uint64) (*models.Folder, error) {
	cleanName := utils.SanitizeFileName(name)
	if cleanName == "" {
		return nil, fmt.Errorf("storage service: %w", xerr.ErrFileNameInvalid)
	}

	var parentDir string
	if parentID != nil {
		parent, err := s.folderRepo.FindByID(*parentID)
		if err != nil {
			return nil, fmt.Errorf("storage service: %w", err)
		}
		if err := s.access.CanWriteFolder(userID, parent); err != nil {
			return nil, err
		}
		parentDir = parent.Path
	} else {
		parentDir = s.pathResolver.UserRoot(userID)
	}

	fullPath := filepath.Join(parentDir, cleanName)

	// 重名以数据库记录为准; 无主的残留目录可以被重新登记
	existing, err := s.folderRepo.FindByPath(fullPath)
	if err != nil {
		return nil, fmt.Errorf("storage service: %w", xerr.ErrPersistence)
	}
	if existing != nil {
		logger.Warn("CreateFolder: folder already exists",
			zap.Uint64("userID", userID),
			zap.String("path", fullPath))
		return nil, fmt.Errorf("storage service: %w", xerr.ErrFolderAlreadyExists)
	}

	if err := os.MkdirAll(fullPath, 0o755); err != nil {
		logger.Error("CreateFolder: failed to create directory",
			zap.Uint64("userID", userID),
			zap.String("path", fullPath),
			zap.Error(err))
		return nil, fmt.Errorf("storage service: %w", xerr.ErrStorageIO)
	}

	folder := &models.Folder{
		Name:     cleanName,
		OwnerID:  userID,
		ParentID: parentID,
		Path:     fullPath,
	}

	err = s.transactionManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		return s.folderRepo.Create(tx, folder)
	})
	if err != nil {
		if rmErr := os.Remove(fullPath); rmErr != nil {
			logger.Error("CreateFolder: failed to remove directory after DB error",
				zap.String("path", fullPath),
				zap.Error(rmErr))
		}
		logger.Error("CreateFolder: failed to create folder record",
			zap.Uint64("userID", userID),
			zap.String("folderName", cleanName),
			zap.Error(err))
		return nil, fmt.Errorf("storage service: %w", xerr.ErrPersistence)
	}

	logger.Info("CreateFolder: folder created successfully",
		zap.Uint64("folderID", folder.ID),
		zap.Uint64("userID", userID),
		zap.String("folderName", cleanName))
	return folder, nil
}

func (s *storageService) ListFolderContents(ctx context.Context, userID uint64, folderID *uint64) (*FolderListing, error) {
	if folderID != nil {
		folder, err := s.folderRepo.FindByID(*folderID)
		if err != nil {
			return nil, fmt.Errorf("storage service: %w", err)
		}
		if err := s.access.CanReadFolder(userID, folder); err != nil {
			return nil, err
		}
	}

	now := s.now()
	folders, err := s.folderRepo.FindVisibleChildren(userID, folderID, now)
	if err != nil {
		return nil, fmt.Errorf("storage service: %w", err)
	}
	files, err := s.fileRepo.FindVisibleByFolder(userID, folderID, now)
	if err != nil {
		return nil, fmt.Errorf("storage service: %w", err)
	}

	entries := make([]Entry, 0, len(folders)+len(files))
	for i := range folders {
		f := &folders[i]
		entries = append(entries, Entry{
			ID:           f.ID,
			Name:         f.Name,
			IsFolder:     true,
			SizeLabel:    "-",
			OwnerID:      f.OwnerID,
			UpdatedAt:    f.UpdatedAt,
			UpdatedLabel: relativeDateLabel(f.UpdatedAt, now),
		})
	}
	for i := range files {
		f := &files[i]
		entries = append(entries, Entry{
			ID:           f.ID,
			Name:         f.Name,
			IsFolder:     false,
			Size:         f.Size,
			SizeLabel:    humanize.IBytes(uint64(f.Size)),
			MimeType:     f.MimeType,
			OwnerID:      f.OwnerID,
			UpdatedAt:    f.UpdatedAt,
			UpdatedLabel: relativeDateLabel(f.UpdatedAt, now),
		})
	}

	usage, err := s.quota.UsageFor(userID)
	if err != nil {
		return nil, err
	}

	return &FolderListing{FolderID: folderID, Entries: entries, Usage: usage}, nil
}

// relativeDateLabel 一周内显示相对天数, 更早显示具体日期
func relativeDateLabel(t, now time.Time) string {
	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days <= 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("Jan 2, 2006")
	}
}

func (s *storageService) GetFileByID(userID uint64, fileID uint64) (*models.File, error) {
	file, err := s.fileRepo.FindByID(fileID)
	if err != nil {
		return nil, fmt.Errorf("storage service: %w", err)
	}
	if err := s.access.CanReadFile(userID, file); err != nil {
		return nil, err
	}
	return file, nil
}

func (s *storageService) DeleteFile(ctx context.Context, userID uint64, fileID uint64) (*models.File, error) {
	file, err := s.fileRepo.FindByID(fileID)
	if err != nil {
		return nil, fmt.Errorf("storage service: %w", err)
	}

	// 删除仅限所有者, 写权限分享也不够
	if file.OwnerID != userID {
		logger.Warn("DeleteFile: access denied",
			zap.Uint64("fileID", fileID),
			zap.Uint64("userID", userID),
			zap.Uint64("ownerID", file.OwnerID))
		return nil, fmt.Errorf("storage service: %w", xerr.ErrAccessDenied)
	}

	if err := s.removeFile(file, true); err != nil {
		return nil, err
	}

	logger.Info("DeleteFile: file deleted successfully",
		zap.Uint64("fileID", fileID),
		zap.Uint64("userID", userID),
		zap.String("fileName", file.Name))
	return file, nil
}

// removeFile 先删磁盘文件再清理分享记录和数据库行, 磁盘文件缺失视为已删除.
// strict 模式下磁盘删除失败即中止, 保留记录等待重试;
// 递归清理文件夹时用非 strict, 单个坏文件不阻塞整棵树
func (s *storageService) removeFile(file *models.File, strict bool) error {
	if err := os.Remove(s.DiskPath(file)); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Error("removeFile: failed to remove file from disk",
			zap.Uint64("fileID", file.ID),
			zap.String("path", s.DiskPath(file)),
			zap.Error(err))
		if strict {
			return fmt.Errorf("storage service: %w", xerr.ErrStorageIO)
		}
	}

	if err := s.shareRepo.DeleteByFileID(file.ID); err != nil {
		logger.Error("removeFile: failed to delete file shares", zap.Uint64("fileID", file.ID), zap.Error(err))
		return fmt.Errorf("storage service: %w", xerr.ErrPersistence)
	}
	if err := s.fileRepo.Delete(file.ID); err != nil {
		logger.Error("removeFile: failed to delete file record", zap.Uint64("fileID", file.ID), zap.Error(err))
		return fmt.Errorf("storage service: %w", xerr.ErrPersistence)
	}
	return nil
}

func (s *storageService) DeleteFolder(ctx context.Context, userID uint64, folderID uint64) error {
	folder, err := s.folderRepo.FindByID(folderID)
	if err != nil {
		return fmt.Errorf("storage service: %w", err)
	}
	if folder.OwnerID != userID {
		logger.Warn("DeleteFolder: access denied",
			zap.Uint64("folderID", folderID),
			zap.Uint64("userID", userID),
			zap.Uint64("ownerID", folder.OwnerID))
		return fmt.Errorf("storage service: %w", xerr.ErrAccessDenied)
	}

	if err := s.deleteFolderTree(folder); err != nil {
		return err
	}

	logger.Info("DeleteFolder: folder deleted successfully",
		zap.Uint64("folderID", folderID),
		zap.Uint64("userID", userID),
		zap.String("folderName", folder.Name))
	return nil
}

// deleteFolderTree 深度优先删除: 先文件, 再子文件夹, 最后自身
func (s *storageService) deleteFolderTree(folder *models.Folder) error {
	files, err := s.fileRepo.FindByFolder(folder.ID)
	if err != nil {
		return fmt.Errorf("storage service: %w", err)
	}
	for i := range files {
		if err := s.removeFile(&files[i], false); err != nil {
			return err
		}
	}

	subfolders, err := s.folderRepo.FindSubfolders(folder.ID)
	if err != nil {
		return fmt.Errorf("storage service: %w", err)
	}
	for i := range subfolders {
		if err := s.deleteFolderTree(&subfolders[i]); err != nil {
			return err
		}
	}

	if err := s.shareRepo.DeleteByFolderID(folder.ID); err != nil {
		logger.Error("deleteFolderTree: failed to delete folder shares", zap.Uint64("folderID", folder.ID), zap.Error(err))
		return fmt.Errorf("storage service: %w", xerr.ErrPersistence)
	}
	if err := s.folderRepo.Delete(folder.ID); err != nil {
		logger.Error("deleteFolderTree: failed to delete folder record", zap.Uint64("folderID", folder.ID), zap.Error(err))
		return fmt.Errorf("storage service: %w", xerr.ErrPersistence)
	}

	if err := os.Remove(folder.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Error("deleteFolderTree: failed to remove directory from disk",
			zap.Uint64("folderID", folder.ID),
			zap.String("path", folder.Path),
			zap.Error(err))
	}
	return nil
}

func (s *storageService) Download(ctx context.Context, userID uint64, fileID uint64) (*models.File, io.ReadCloser, error) {
	file, err := s.fileRepo.FindByID(fileID)
	if err != nil {
		return nil, nil, fmt.Errorf("storage service: %w", err)
	}
	if err := s.access.CanReadFile(userID, file); err != nil {
		return nil, nil, err
	}

	reader, err := os.Open(s.DiskPath(file))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Error("Download: file record exists but disk content missing",
				zap.Uint64("fileID", fileID),
				zap.String("path", s.DiskPath(file)))
			return nil, nil, fmt.Errorf("storage service: %w", xerr.ErrFileNotFound)
		}
		logger.Error("Download: failed to open file", zap.Uint64("fileID", fileID), zap.Error(err))
		return nil, nil, fmt.Errorf("storage service: %w", xerr.ErrStorageIO)
	}

	if err := s.fileRepo.UpdateLastAccessed(fileID, s.now()); err != nil {
		// 访问时间只是统计信息, 更新失败不阻断下载
		logger.Warn("Download: failed to update last accessed time", zap.Uint64("fileID", fileID), zap.Error(err))
	}

	logger.Info("Download: file opened for download",
		zap.Uint64("fileID", fileID),
		zap.Uint64("userID", userID))
	return file, reader, nil
}

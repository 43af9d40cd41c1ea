package admin

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"teamdisk/internal/config"
	"teamdisk/internal/models"
	"teamdisk/internal/pkg/cache"
	"teamdisk/internal/pkg/logger"
	"teamdisk/internal/pkg/xerr"
	"teamdisk/internal/repositories"
	"teamdisk/internal/services/explorer"
)

const storageStatsCacheKey = "admin:storage_stats"

// UserUsage 单个用户的存储占用
type UserUsage struct {
	UserID     uint64 `json:"user_id"`
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	UsedBytes  int64  `json:"used_bytes"`
	QuotaBytes int64  `json:"quota_bytes"`
	FileCount  int64  `json:"file_count"`
}

// StorageStats 管理端的全局存储视图
// TotalBytes 取配置的部署容量, 与逐用户配额无关
type StorageStats struct {
	TotalBytes int64       `json:"total_bytes"`
	UsedBytes  int64       `json:"used_bytes"`
	UserCount  int64       `json:"user_count"`
	PerUser    []UserUsage `json:"per_user"`
}

// UserService 管理端的用户与配额操作
type UserService interface {
	ListUsers() ([]models.User, error)
	// SetQuota 设置用户的配额覆盖值, 负数视为非法
	SetQuota(ctx context.Context, userID uint64, quotaBytes int64) error
	// GetStorageStats 返回全局存储统计, 结果短暂缓存仅用于展示
	GetStorageStats(ctx context.Context) (*StorageStats, error)
}

type userService struct {
	userRepo repositories.UserRepository
	quota    explorer.QuotaTracker
	cache    cache.Cache
	cfg      *config.Config
}

var _ UserService = (*userService)(nil)

// NewUserService 创建一个新的管理端 UserService 实例
// cache 可以为 nil, 此时统计每次实时计算
func NewUserService(userRepo repositories.UserRepository, quota explorer.QuotaTracker, c cache.Cache, cfg *config.Config) UserService {
	return &userService{
		userRepo: userRepo,
		quota:    quota,
		cache:    c,
		cfg:      cfg,
	}
}

func (s *userService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("user service: %w", xerr.ErrPersistence)
	}
	return users, nil
}

func (s *userService) SetQuota(ctx context.Context, userID uint64, quotaBytes int64) error {
	if quotaBytes < 0 {
		logger.Warn("SetQuota: negative quota rejected",
			zap.Uint64("userID", userID),
			zap.Int64("quotaBytes", quotaBytes))
		return fmt.Errorf("user service: %w", xerr.ErrInvalidOperation)
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		return fmt.Errorf("user service: %w", err)
	}

	if err := s.userRepo.UpdateQuota(userID, quotaBytes); err != nil {
		logger.Error("SetQuota: failed to update quota", zap.Uint64("userID", userID), zap.Error(err))
		return fmt.Errorf("user service: %w", xerr.ErrPersistence)
	}

	// 统计缓存已过时, 主动失效
	if s.cache != nil {
		if err := s.cache.Del(ctx, storageStatsCacheKey); err != nil {
			logger.Warn("SetQuota: failed to invalidate stats cache", zap.Error(err))
		}
	}

	logger.Info("SetQuota: quota updated",
		zap.Uint64("userID", userID),
		zap.Int64("quotaBytes", quotaBytes))
	return nil
}

func (s *userService) GetStorageStats(ctx context.Context) (*StorageStats, error) {
	if s.cache != nil {
		var cached StorageStats
		err := s.cache.Get(ctx, storageStatsCacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Warn("GetStorageStats: cache read failed, falling back to live query", zap.Error(err))
		}
	}

	stats, err := s.computeStorageStats()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, storageStatsCacheKey, stats, s.cfg.Storage.StatsCacheTTL); err != nil {
			logger.Warn("GetStorageStats: cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *userService) computeStorageStats() (*StorageStats, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("user service: %w", xerr.ErrPersistence)
	}

	stats := &StorageStats{
		TotalBytes: s.cfg.Storage.TotalBytes,
		UserCount:  int64(len(users)),
		PerUser:    make([]UserUsage, 0, len(users)),
	}

	// 展示配额与上传限额是两套默认值: 没有覆盖值的用户按部署容量均摊展示
	var fallbackQuota int64
	if len(users) > 0 && s.cfg.Storage.TotalBytes > 0 {
		fallbackQuota = s.cfg.Storage.TotalBytes / int64(len(users))
	}

	var quotaSum int64
	for i := range users {
		u := &users[i]
		usage, err := s.quota.UsageFor(u.ID)
		if err != nil {
			return nil, err
		}
		stats.UsedBytes += usage.UsedBytes
		quotaSum += usage.QuotaBytes

		displayQuota := usage.QuotaBytes
		if u.StorageQuota != nil {
			displayQuota = *u.StorageQuota
		} else if fallbackQuota > 0 {
			displayQuota = fallbackQuota
		}
		stats.PerUser = append(stats.PerUser, UserUsage{
			UserID:     u.ID,
			EmployeeID: u.EmployeeID,
			Name:       u.Name,
			UsedBytes:  usage.UsedBytes,
			QuotaBytes: displayQuota,
			FileCount:  usage.FileCount,
		})
	}

	// 部署容量未配置时退化为配额之和
	if stats.TotalBytes <= 0 {
		stats.TotalBytes = quotaSum
	}
	return stats, nil
}

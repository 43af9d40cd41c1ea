package explorer

import (
	"fmt"

	"go.uber.org/zap"

	"teamdisk/internal/config"
	"teamdisk/internal/pkg/logger"
	"teamdisk/internal/pkg/xerr"
	"teamdisk/internal/repositories"
)

// Usage 某用户当前的存储用量快照
type Usage struct {
	UsedBytes  int64 `json:"used_bytes"`
	QuotaBytes int64 `json:"quota_bytes"`
	FileCount  int64 `json:"file_count"`
}

// AvailableBytes 剩余可用空间, 超配额时为 0
func (u Usage) AvailableBytes() int64 {
	avail := u.QuotaBytes - u.UsedBytes
	if avail < 0 {
		return 0
	}
	return avail
}

// QuotaTracker 负责用量统计与上传前的配额预检
//
// 用量始终实时聚合 files 表, 不做缓存: 配额拒绝必须基于
// 当前数据. 并发上传之间存在先检查后写入的窗口, 允许短暂
// 超出配额, 以换取不加全局锁
type QuotaTracker interface {
	// UsageFor 返回用户当前用量, 配额取用户覆盖值或全局默认值
	UsageFor(userID uint64) (Usage, error)
	// CanAccept 检查再写入 size 字节是否仍在配额内,
	// 超出时返回携带可用/所需字节数的 QuotaExceededError
	CanAccept(userID uint64, size int64) error
}

type quotaTracker struct {
	userRepo repositories.UserRepository
	fileRepo repositories.FileRepository
	cfg      *config.Config
}

var _ QuotaTracker = (*quotaTracker)(nil)

// NewQuotaTracker 创建一个新的 QuotaTracker 实例
func NewQuotaTracker(userRepo repositories.UserRepository, fileRepo repositories.FileRepository, cfg *config.Config) QuotaTracker {
	return &quotaTracker{userRepo: userRepo, fileRepo: fileRepo, cfg: cfg}
}

func (q *quotaTracker) UsageFor(userID uint64) (Usage, error) {
	user, err := q.userRepo.FindByID(userID)
	if err != nil {
		return Usage{}, fmt.Errorf("quota tracker: %w", err)
	}

	used, err := q.fileRepo.SumSizeByOwner(userID)
	if err != nil {
		return Usage{}, fmt.Errorf("quota tracker: %w", err)
	}
	count, err := q.fileRepo.CountByOwner(userID)
	if err != nil {
		return Usage{}, fmt.Errorf("quota tracker: %w", err)
	}

	quota := q.cfg.Storage.DefaultQuotaBytes
	if user.StorageQuota != nil {
		quota = *user.StorageQuota
	}

	return Usage{UsedBytes: used, QuotaBytes: quota, FileCount: count}, nil
}

func (q *quotaTracker) CanAccept(userID uint64, size int64) error {
	usage, err := q.UsageFor(userID)
	if err != nil {
		return err
	}

	if usage.UsedBytes+size > usage.QuotaBytes {
		logger.Warn("CanAccept: upload rejected, quota exceeded",
			zap.Uint64("userID", userID),
			zap.Int64("usedBytes", usage.UsedBytes),
			zap.Int64("quotaBytes", usage.QuotaBytes),
			zap.Int64("requiredBytes", size))
		return fmt.Errorf("quota tracker: %w", xerr.NewQuotaExceeded(usage.QuotaBytes-usage.UsedBytes, size))
	}
	return nil
}

package activity

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"teamdisk/internal/models"
	"teamdisk/internal/pkg/logger"
	"teamdisk/internal/pkg/xerr"
	"teamdisk/internal/repositories"
)

// ActivityService 记录并查询用户的文件操作流水
type ActivityService interface {
	// Record 同步写入一条操作记录, fileID 为空表示无具体文件(如文件夹分享)
	Record(userID uint64, fileID *uint64, action models.Action, ipAddress string, details *string) error
	// RecordAsync 异步写入, 失败只记日志, 不影响主流程
	RecordAsync(userID uint64, fileID *uint64, action models.Action, ipAddress string, details *string)
	// ListByUser 按时间倒序返回某用户的操作记录
	ListByUser(userID uint64, limit int) ([]models.Activity, error)
}

type activityService struct {
	activityRepo repositories.ActivityRepository
}

var _ ActivityService = (*activityService)(nil)

// NewActivityService 创建一个新的 ActivityService 实例
func NewActivityService(activityRepo repositories.ActivityRepository) ActivityService {
	return &activityService{activityRepo: activityRepo}
}

// FileSnapshot 删除文件前生成摘要, 文件行删除后流水仍可读
func FileSnapshot(file *models.File) string {
	return fmt.Sprintf("%s - %s - %s", file.Name, humanize.IBytes(uint64(file.Size)), file.MimeType)
}

func (s *activityService) Record(userID uint64, fileID *uint64, action models.Action, ipAddress string, details *string) error {
	entry := &models.Activity{
		UserID:    userID,
		FileID:    fileID,
		Action:    action,
		IPAddress: ipAddress,
		Details:   details,
	}
	if err := s.activityRepo.Create(entry); err != nil {
		logger.Error("Record: failed to create activity entry",
			zap.Uint64("userID", userID),
			zap.String("action", string(action)),
			zap.Error(err))
		return fmt.Errorf("activity service: %w", xerr.ErrPersistence)
	}
	return nil
}

func (s *activityService) RecordAsync(userID uint64, fileID *uint64, action models.Action, ipAddress string, details *string) {
	go func() {
		// Record 内部已记日志, 这里只吞掉错误
		_ = s.Record(userID, fileID, action, ipAddress, details)
	}()
}

func (s *activityService) ListByUser(userID uint64, limit int) ([]models.Activity, error) {
	activities, err := s.activityRepo.FindByUser(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("activity service: %w", xerr.ErrPersistence)
	}
	return activities, nil
}

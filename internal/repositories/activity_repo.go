package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"teamdisk/internal/models"
)

type ActivityRepository interface {
	Create(activity *models.Activity) error
	// FindByUser 按时间倒序返回某用户的操作记录
	FindByUser(userID uint64, limit int) ([]models.Activity, error)
}

type activityRepository struct {
	db *gorm.DB
}

var _ ActivityRepository = (*activityRepository)(nil)

// NewActivityRepository 创建新的 ActivityRepository 实例
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(activity *models.Activity) error {
	if err := r.db.Create(activity).Error; err != nil {
		return fmt.Errorf("创建操作记录失败: %w", err)
	}
	return nil
}

func (r *activityRepository) FindByUser(userID uint64, limit int) ([]models.Activity, error) {
	var activities []models.Activity
	// 同一秒内的记录按插入顺序倒排
	q := r.db.Where("user_id = ?", userID).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("查询操作记录失败: %w", err)
	}
	return activities, nil
}

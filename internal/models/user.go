package models

import (
	"time"
)

// User 对应 users 表
// StorageQuota 为 nil 时使用系统默认配额
type User struct {
	ID                 uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeID         string `gorm:"type:varchar(64);uniqueIndex;not null" json:"employee_id"`
	Email              string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash       string `gorm:"type:varchar(255);not null" json:"-"` // - 表示不输出到 JSON
	Name               string `gorm:"type:varchar(128);not null" json:"name"`
	IsAdmin            bool   `gorm:"not null;default:false" json:"is_admin"`
	StorageQuota       *int64 `gorm:"default:null" json:"storage_quota"` // 配额覆盖值(字节), null 表示默认配额
	MustChangePassword bool   `gorm:"not null;default:false" json:"must_change_password"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定 GORM 使用的表名
func (User) TableName() string {
	return "users"
}

package models

import (
	"time"
)

// Permission 分享权限级别
type Permission string

const (
	PermissionRead  Permission = "read"
	PermissionWrite Permission = "write"
)

// Valid 检查权限值是否合法
func (p Permission) Valid() bool {
	return p == PermissionRead || p == PermissionWrite
}

// SharedFile 对应 shared_files 表
// ExpiresAt 为 nil 表示永不过期; 分享有效 iff 未过期
type SharedFile struct {
	ID           uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FileID       uint64     `gorm:"not null;index" json:"file_id"`
	SharedWithID uint64     `gorm:"not null;index" json:"shared_with_id"`
	Permission   Permission `gorm:"type:varchar(16);not null;default:'read'" json:"permission"`
	ExternalLink string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"external_link"` // 外部访问令牌
	ExpiresAt    *time.Time `gorm:"default:null" json:"expires_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	File       *File `gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE" json:"-"`
	SharedWith *User `gorm:"foreignKey:SharedWithID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定 GORM 使用的表名
func (SharedFile) TableName() string {
	return "shared_files"
}

// Active 判断分享当前是否有效
func (s *SharedFile) Active(now time.Time) bool {
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}

// SharedFolder 对应 shared_folders 表
type SharedFolder struct {
	ID           uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FolderID     uint64     `gorm:"not null;index" json:"folder_id"`
	SharedWithID uint64     `gorm:"not null;index" json:"shared_with_id"`
	Permission   Permission `gorm:"type:varchar(16);not null;default:'read'" json:"permission"`
	ExternalLink string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"external_link"`
	ExpiresAt    *time.Time `gorm:"default:null" json:"expires_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Folder     *Folder `gorm:"foreignKey:FolderID;constraint:OnDelete:CASCADE" json:"-"`
	SharedWith *User   `gorm:"foreignKey:SharedWithID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定 GORM 使用的表名
func (SharedFolder) TableName() string {
	return "shared_folders"
}

// Active 判断分享当前是否有效
func (s *SharedFolder) Active(now time.Time) bool {
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}

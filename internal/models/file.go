package models

import (
	"time"
)

// File 对应 files 表
// Path 是相对于上传根目录的磁盘路径, FolderID 为 nil 表示位于用户根目录
type File struct {
	ID             uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string     `gorm:"type:varchar(255);not null" json:"name"` // 展示名, 已过滤非法字符
	Path           string     `gorm:"type:varchar(1024);not null" json:"path"`
	Size           int64      `gorm:"type:bigint;not null" json:"size"` // 字节数, 必须 > 0
	MimeType       string     `gorm:"type:varchar(128);not null;default:'application/octet-stream'" json:"mime_type"`
	OwnerID        uint64     `gorm:"not null;index" json:"owner_id"`
	FolderID       *uint64    `gorm:"default:null;index" json:"folder_id"`
	LastAccessedAt *time.Time `gorm:"default:null" json:"last_accessed_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// GORM 关联，方便预加载
	Owner  *User   `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Folder *Folder `gorm:"foreignKey:FolderID" json:"-"`
}

// TableName 指定 GORM 使用的表名
func (File) TableName() string {
	return "files"
}

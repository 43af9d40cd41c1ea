package models

import (
	"time"
)

// Folder 对应 folders 表
// 自引用构成目录树, ParentID 为 nil 表示根目录下的文件夹
// Path 是文件夹在磁盘上的绝对路径, 与数据库记录一一对应
type Folder struct {
	ID       uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string  `gorm:"type:varchar(255);not null" json:"name"`
	OwnerID  uint64  `gorm:"not null;index" json:"owner_id"`
	ParentID *uint64 `gorm:"default:null;index" json:"parent_id"`
	Path     string  `gorm:"type:varchar(1024);not null;uniqueIndex" json:"path"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// GORM 关联，方便预加载
	Owner  *User   `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Parent *Folder `gorm:"foreignKey:ParentID" json:"-"`
}

// TableName 指定 GORM 使用的表名
func (Folder) TableName() string {
	return "folders"
}

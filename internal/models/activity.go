package models

import (
	"time"
)

// Action 文件操作类型, 用于审计展示
type Action string

const (
	ActionUpload   Action = "upload"
	ActionDownload Action = "download"
	ActionShare    Action = "share"
	ActionDelete   Action = "delete"
)

// Activity 对应 activities 表, 记录文件操作审计日志.
// 删除操作的文件信息会在删除前快照到 Details 中;
// 文件夹分享这类没有具体文件的操作 FileID 为空
type Activity struct {
	ID        uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64  `gorm:"not null;index" json:"user_id"`
	FileID    *uint64 `gorm:"index" json:"file_id,omitempty"`
	Action    Action  `gorm:"type:varchar(16);not null" json:"action"`
	IPAddress string  `gorm:"type:varchar(64);not null" json:"ip_address"`
	Details   *string `gorm:"type:varchar(512);default:null" json:"details,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定 GORM 使用的表名
func (Activity) TableName() string {
	return "activities"
}

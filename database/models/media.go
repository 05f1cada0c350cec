package models

import "time"

// MediaType 媒体类型，由文件扩展名推导
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeOther MediaType = "other"
)

// MediaItem 用户上传的媒体记录
// FilePath 是存储层 identifier（生成的唯一文件名），不是磁盘绝对路径。
type MediaItem struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	UserID     uint      `gorm:"index;not null"`
	Filename   string    `gorm:"size:255;not null"`
	FilePath   string    `gorm:"size:500;not null"`
	FileType   MediaType `gorm:"size:50"`
	Width      int
	Height     int
	UploadDate time.Time `gorm:"index"`
}

// SharedMedia 分享关系：一条记录授予一个非所有者对单个媒体的可见性
// (media_id, shared_with_id) 上的唯一索引保证同一媒体不会重复分享给同一用户。
type SharedMedia struct {
	ID           uint `gorm:"primaryKey;autoIncrement"`
	MediaID      uint `gorm:"uniqueIndex:idx_media_recipient;not null"`
	OwnerID      uint `gorm:"index;not null"`
	SharedWithID uint `gorm:"uniqueIndex:idx_media_recipient;index;not null"`
	CreatedAt    time.Time
}

package models

import "time"

// ContactMessage 联系表单提交，写入后不再修改
type ContactMessage struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	Name           string    `gorm:"size:100;index"`
	Email          string    `gorm:"size:100;index"`
	Subject        string    `gorm:"size:255"`
	Message        string    `gorm:"type:text"`
	SubmissionDate time.Time `gorm:"autoCreateTime"`
}

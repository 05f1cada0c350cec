package contact

import (
	"context"

	"github.com/anoixa/snapi/database"
	"github.com/anoixa/snapi/database/models"
	"gorm.io/gorm"
)

// Repository 联系消息仓库，只写不改
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建联系消息仓库
func NewRepository(provider database.Provider) *Repository {
	return &Repository{db: provider.DB()}
}

// CreateMessage 保存一条联系表单提交
func (r *Repository) CreateMessage(ctx context.Context, msg *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// CountMessages 统计联系消息总数
func (r *Repository) CountMessages(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ContactMessage{}).Count(&count).Error
	return count, err
}

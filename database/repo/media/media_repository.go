package media

import (
	"context"
	"errors"

	"github.com/anoixa/snapi/database"
	"github.com/anoixa/snapi/database/models"
	"gorm.io/gorm"
)

// ErrMediaNotFound 媒体记录不存在错误
var ErrMediaNotFound = errors.New("media item not found")

// Repository 媒体与分享仓库
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建新的媒体仓库
func NewRepository(provider database.Provider) *Repository {
	return &Repository{db: provider.DB()}
}

// CreateMedia 创建媒体记录
func (r *Repository) CreateMedia(ctx context.Context, item *models.MediaItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// GetMediaByID 通过ID获取媒体记录
func (r *Repository) GetMediaByID(ctx context.Context, id uint) (*models.MediaItem, error) {
	var item models.MediaItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}
	return &item, nil
}

// ListByOwner 获取用户自己的媒体，按上传时间倒序
func (r *Repository) ListByOwner(ctx context.Context, userID uint) ([]*models.MediaItem, error) {
	var items []*models.MediaItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("upload_date desc").
		Find(&items).Error
	return items, err
}

// ListSharedWith 获取分享给该用户的媒体，按分享记录倒序（最新分享在前）
func (r *Repository) ListSharedWith(ctx context.Context, userID uint) ([]*models.MediaItem, error) {
	var items []*models.MediaItem
	err := r.db.WithContext(ctx).
		Model(&models.MediaItem{}).
		Joins("JOIN shared_media ON shared_media.media_id = media_items.id").
		Where("shared_media.shared_with_id = ?", userID).
		Order("shared_media.id desc").
		Find(&items).Error
	return items, err
}

// ListByOwnerTx 在指定事务中获取用户拥有的全部媒体
func (r *Repository) ListByOwnerTx(tx *gorm.DB, userID uint) ([]*models.MediaItem, error) {
	var items []*models.MediaItem
	err := tx.Where("user_id = ?", userID).Find(&items).Error
	return items, err
}

// DeleteMediaTx 在指定事务中删除媒体记录
func (r *Repository) DeleteMediaTx(tx *gorm.DB, mediaID uint) error {
	return tx.Delete(&models.MediaItem{}, mediaID).Error
}

// GetShare 获取 (media, recipient) 的分享记录
func (r *Repository) GetShare(ctx context.Context, mediaID, sharedWithID uint) (*models.SharedMedia, error) {
	var share models.SharedMedia
	err := r.db.WithContext(ctx).
		Where("media_id = ? AND shared_with_id = ?", mediaID, sharedWithID).
		First(&share).Error
	if err != nil {
		return nil, err
	}
	return &share, nil
}

// CreateShare 创建分享记录
func (r *Repository) CreateShare(ctx context.Context, share *models.SharedMedia) error {
	return r.db.WithContext(ctx).Create(share).Error
}

// CountShares 统计 (media, recipient) 的分享记录数
func (r *Repository) CountShares(ctx context.Context, mediaID, sharedWithID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SharedMedia{}).
		Where("media_id = ? AND shared_with_id = ?", mediaID, sharedWithID).
		Count(&count).Error
	return count, err
}

// ListSharesForMedia 列出某个媒体的全部分享记录
func (r *Repository) ListSharesForMedia(ctx context.Context, mediaID uint) ([]*models.SharedMedia, error) {
	var shares []*models.SharedMedia
	err := r.db.WithContext(ctx).Where("media_id = ?", mediaID).Find(&shares).Error
	return shares, err
}

// DeleteSharesForMediaTx 在指定事务中删除某个媒体的全部分享记录
func (r *Repository) DeleteSharesForMediaTx(tx *gorm.DB, mediaID uint) error {
	return tx.Where("media_id = ?", mediaID).Delete(&models.SharedMedia{}).Error
}

// DeleteSharesInvolvingUserTx 在指定事务中删除该用户作为分享者或接收者的全部分享记录
func (r *Repository) DeleteSharesInvolvingUserTx(tx *gorm.DB, userID uint) error {
	return tx.Where("owner_id = ? OR shared_with_id = ?", userID, userID).
		Delete(&models.SharedMedia{}).Error
}

// DeleteMediaByOwnerTx 在指定事务中删除用户拥有的全部媒体记录
func (r *Repository) DeleteMediaByOwnerTx(tx *gorm.DB, userID uint) error {
	return tx.Where("user_id = ?", userID).Delete(&models.MediaItem{}).Error
}

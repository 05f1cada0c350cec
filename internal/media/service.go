package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"sync"
	"time"

	"github.com/anoixa/snapi/database"
	"github.com/anoixa/snapi/database/models"
	"github.com/anoixa/snapi/database/repo/accounts"
	mediarepo "github.com/anoixa/snapi/database/repo/media"
	"github.com/anoixa/snapi/storage"
	"github.com/anoixa/snapi/utils/generator"
	"github.com/anoixa/snapi/utils/imagemeta"
	"github.com/anoixa/snapi/utils/mediatype"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	// ErrMediaNotFound 媒体记录不存在
	ErrMediaNotFound = mediarepo.ErrMediaNotFound
	// ErrForbidden 操作者不是媒体的所有者
	ErrForbidden = errors.New("media item does not belong to acting user")
	// ErrTargetUserNotFound 分享目标用户不存在
	ErrTargetUserNotFound = errors.New("share target user not found")
	// ErrAlreadyShared 该媒体已分享给目标用户
	ErrAlreadyShared = errors.New("media already shared with target user")
)

// Service 媒体所有权、分享与文件存储的编排服务
type Service struct {
	provider       database.Provider
	media          *mediarepo.Repository
	users          *accounts.Repository
	storageFactory *storage.Factory
}

// NewService 创建媒体服务
func NewService(provider database.Provider, media *mediarepo.Repository, users *accounts.Repository, storageFactory *storage.Factory) *Service {
	return &Service{
		provider:       provider,
		media:          media,
		users:          users,
		storageFactory: storageFactory,
	}
}

// UploadResult 单个文件的上传结果
type UploadResult struct {
	Item     *models.MediaItem
	Filename string
	Err      string
}

// Upload 保存上传文件并创建媒体记录
// 文件先写入存储，记录插入失败时做补偿删除，避免孤儿文件。
func (s *Service) Upload(ctx context.Context, user *models.User, fileHeader *multipart.FileHeader) (*models.MediaItem, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	// 落到临时文件，宽高探测和存储写入都需要可 Seek 的流
	tempFile, err := os.CreateTemp("", "snapi-upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		tempFile.Close()
		os.Remove(tempFile.Name())
	}()

	if _, err := io.Copy(tempFile, src); err != nil {
		return nil, fmt.Errorf("failed to buffer uploaded file: %w", err)
	}

	now := time.Now()
	storedName := generator.GenerateStoredName(user.ID, fileHeader.Filename, now)
	fileType := mediatype.Classify(fileHeader.Filename)

	var width, height int
	if fileType == models.MediaTypeImage {
		if _, err := tempFile.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to seek temp file: %w", err)
		}
		width, height = imagemeta.Dimensions(tempFile)
	}

	if _, err := tempFile.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek temp file: %w", err)
	}

	provider := s.storageFactory.GetDefault()
	if provider == nil {
		return nil, errors.New("no default storage configured")
	}

	if err := provider.SaveWithContext(ctx, storedName, tempFile); err != nil {
		return nil, fmt.Errorf("failed to save uploaded file: %w", err)
	}

	item := &models.MediaItem{
		UserID:     user.ID,
		Filename:   fileHeader.Filename,
		FilePath:   storedName,
		FileType:   fileType,
		Width:      width,
		Height:     height,
		UploadDate: now,
	}

	if err := s.media.CreateMedia(ctx, item); err != nil {
		// 补偿：插入失败时移除已写入的文件
		if delErr := provider.DeleteWithContext(ctx, storedName); delErr != nil {
			log.Printf("[Warning] Failed to remove orphaned file %s: %v", storedName, delErr)
		}
		return nil, fmt.Errorf("failed to save media metadata: %w", err)
	}

	return item, nil
}

// UploadBatch 并发上传多个文件，单个文件失败不影响其他文件
func (s *Service) UploadBatch(ctx context.Context, user *models.User, fileHeaders []*multipart.FileHeader) []*UploadResult {
	results := make([]*UploadResult, len(fileHeaders))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for i, fh := range fileHeaders {
		i, fh := i, fh
		g.Go(func() error {
			item, err := s.Upload(ctx, user, fh)
			result := &UploadResult{Filename: fh.Filename}
			if err != nil {
				result.Err = err.Error()
			} else {
				result.Item = item
			}

			mu.Lock()
			results[i] = result
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Delete 删除媒体：校验所有权，尽力删除底层文件，级联删除分享记录
// 文件删除失败只告警，不阻止记录删除。
func (s *Service) Delete(ctx context.Context, mediaID uint, acting *models.User) error {
	item, err := s.media.GetMediaByID(ctx, mediaID)
	if err != nil {
		return err
	}

	if item.UserID != acting.ID {
		return ErrForbidden
	}

	s.removeStoredFile(ctx, item.FilePath)

	return s.provider.TransactionWithContext(ctx, func(tx *gorm.DB) error {
		if err := s.media.DeleteSharesForMediaTx(tx, item.ID); err != nil {
			return err
		}
		return s.media.DeleteMediaTx(tx, item.ID)
	})
}

// Share 将媒体分享给指定用户名的用户
// 校验顺序：媒体存在 → 所有权 → 目标用户存在 → 未重复分享。
func (s *Service) Share(ctx context.Context, mediaID uint, targetUsername string, acting *models.User) error {
	item, err := s.media.GetMediaByID(ctx, mediaID)
	if err != nil {
		return err
	}

	if item.UserID != acting.ID {
		return ErrForbidden
	}

	target, err := s.users.GetUserByUsername(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, accounts.ErrUserNotFound) {
			return ErrTargetUserNotFound
		}
		return err
	}

	count, err := s.media.CountShares(ctx, item.ID, target.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyShared
	}

	share := &models.SharedMedia{
		MediaID:      item.ID,
		OwnerID:      acting.ID,
		SharedWithID: target.ID,
	}
	// (media_id, shared_with_id) 唯一索引兜底并发下的重复分享
	if err := s.media.CreateShare(ctx, share); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyShared
		}
		return err
	}
	return nil
}

// ListVisible 返回用户可见的媒体：自己的与分享给自己的
func (s *Service) ListVisible(ctx context.Context, user *models.User) (owned, sharedWithMe []*models.MediaItem, err error) {
	owned, err = s.media.ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	sharedWithMe, err = s.media.ListSharedWith(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	return owned, sharedWithMe, nil
}

// PurgeUserTx 在事务中删除用户的全部媒体记录与其涉及的全部分享记录
// 返回待清理的存储文件名，由调用者在事务提交后调用 RemoveStoredFiles。
func (s *Service) PurgeUserTx(tx *gorm.DB, userID uint) ([]string, error) {
	items, err := s.media.ListByOwnerTx(tx, userID)
	if err != nil {
		return nil, err
	}

	storedNames := make([]string, 0, len(items))
	for _, item := range items {
		storedNames = append(storedNames, item.FilePath)
	}

	if err := s.media.DeleteSharesInvolvingUserTx(tx, userID); err != nil {
		return nil, err
	}
	if err := s.media.DeleteMediaByOwnerTx(tx, userID); err != nil {
		return nil, err
	}

	return storedNames, nil
}

// RemoveStoredFiles 尽力删除一批存储文件，失败只告警
func (s *Service) RemoveStoredFiles(ctx context.Context, storedNames []string) {
	for _, name := range storedNames {
		s.removeStoredFile(ctx, name)
	}
}

func (s *Service) removeStoredFile(ctx context.Context, storedName string) {
	provider := s.storageFactory.GetDefault()
	if provider == nil {
		log.Printf("[Warning] No storage provider available to delete file %s", storedName)
		return
	}
	if err := provider.DeleteWithContext(ctx, storedName); err != nil && !errors.Is(err, storage.ErrFileNotFound) {
		log.Printf("[Warning] Could not delete file %s: %v", storedName, err)
	}
}

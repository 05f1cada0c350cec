package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/anoixa/snapi/config"
	"github.com/anoixa/snapi/database/models"
	"github.com/anoixa/snapi/database/repo/accounts"
	mediarepo "github.com/anoixa/snapi/database/repo/media"
	"github.com/anoixa/snapi/internal/media"
	"github.com/anoixa/snapi/storage"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupAccountService(t *testing.T) (*AccountService, *media.Service, *storage.Factory, *gorm.DB) {
	db := setupTestDB(t)
	provider := &testProvider{db: db}
	usersRepo := accounts.NewRepository(provider)
	mediaRepo := mediarepo.NewRepository(provider)

	factory, err := storage.NewFactory(&config.Config{
		StorageType:      "local",
		StorageLocalPath: t.TempDir(),
	})
	assert.NoError(t, err)

	resolver := NewSessionResolver(usersRepo, nil, 0)
	mediaSvc := media.NewService(provider, mediaRepo, usersRepo, factory)
	svc := NewAccountService(provider, usersRepo, mediaSvc, resolver)
	return svc, mediaSvc, factory, db
}

// --- 测试注册 ---

func TestAccountService_Signup(t *testing.T) {
	svc, _, _, _ := setupAccountService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "signup_alice", "alice@example.com", "password123")
	assert.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "signup_alice", user.Username)
	assert.NotNil(t, user.Email)
	assert.Equal(t, "alice@example.com", *user.Email)
	// 密码不落明文
	assert.NotContains(t, user.PasswordHash, "password123")
	assert.True(t, strings.HasPrefix(user.PasswordHash, "$argon2id$"))
}

func TestAccountService_Signup_DuplicateUsername(t *testing.T) {
	svc, _, _, _ := setupAccountService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "signup_bob", "bob@example.com", "password123")
	assert.NoError(t, err)

	_, err = svc.Signup(ctx, "signup_bob", "other@example.com", "password123")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAccountService_Signup_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := setupAccountService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "signup_carol", "carol@example.com", "password123")
	assert.NoError(t, err)

	_, err = svc.Signup(ctx, "signup_carol2", "carol@example.com", "password123")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAccountService_Signup_NoEmail(t *testing.T) {
	svc, _, _, _ := setupAccountService(t)

	user, err := svc.Signup(context.Background(), "signup_noemail", "", "password123")
	assert.NoError(t, err)
	assert.Nil(t, user.Email)
}

// --- 测试登录 ---

func TestAccountService_Login(t *testing.T) {
	svc, _, _, _ := setupAccountService(t)
	ctx := context.Background()

	created, err := svc.Signup(ctx, "login_dave", "", "correct-password")
	assert.NoError(t, err)

	user, err := svc.Login(ctx, "login_dave", "correct-password")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestAccountService_Login_WrongPassword(t *testing.T) {
	svc, _, _, _ := setupAccountService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "login_erin", "", "correct-password")
	assert.NoError(t, err)

	_, err = svc.Login(ctx, "login_erin", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccountService_Login_UnknownUser(t *testing.T) {
	svc, _, _, _ := setupAccountService(t)

	// 未知用户与密码错误不可区分
	_, err := svc.Login(context.Background(), "login_nobody", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// --- 测试修改密码 ---

func TestAccountService_ChangePassword(t *testing.T) {
	svc, _, _, _ := setupAccountService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "pw_frank", "", "old-password")
	assert.NoError(t, err)

	assert.NoError(t, svc.ChangePassword(ctx, user, "old-password", "new-password"))

	_, err = svc.Login(ctx, "pw_frank", "old-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	logged, err := svc.Login(ctx, "pw_frank", "new-password")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
}

func TestAccountService_ChangePassword_WrongOld(t *testing.T) {
	svc, _, _, _ := setupAccountService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "pw_grace", "", "old-password")
	assert.NoError(t, err)

	err = svc.ChangePassword(ctx, user, "not-the-old-password", "new-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// --- 测试删除账号 ---

func TestAccountService_DeleteAccount_Cascades(t *testing.T) {
	svc, mediaSvc, factory, db := setupAccountService(t)
	ctx := context.Background()

	owner, err := svc.Signup(ctx, "del_owner", "", "password123")
	assert.NoError(t, err)
	friend, err := svc.Signup(ctx, "del_friend", "", "password123")
	assert.NoError(t, err)

	// 给 owner 造一条带存储文件的媒体并分享给 friend
	storedName := "1_1700000000_cascade.jpg"
	assert.NoError(t, factory.GetDefault().SaveWithContext(ctx, storedName, strings.NewReader("bytes")))

	item := &models.MediaItem{
		UserID:     owner.ID,
		Filename:   "cascade.jpg",
		FilePath:   storedName,
		FileType:   models.MediaTypeImage,
		UploadDate: time.Now(),
	}
	assert.NoError(t, db.Create(item).Error)
	assert.NoError(t, mediaSvc.Share(ctx, item.ID, "del_friend", owner))

	assert.NoError(t, svc.DeleteAccount(ctx, owner))

	// 用户、媒体、分享记录全部消失
	var userCount, mediaCount, shareCount int64
	db.Model(&models.User{}).Where("id = ?", owner.ID).Count(&userCount)
	db.Model(&models.MediaItem{}).Where("user_id = ?", owner.ID).Count(&mediaCount)
	db.Model(&models.SharedMedia{}).Where("owner_id = ? OR shared_with_id = ?", owner.ID, owner.ID).Count(&shareCount)
	assert.Zero(t, userCount)
	assert.Zero(t, mediaCount)
	assert.Zero(t, shareCount)

	// 存储文件也被清理
	exists, err := factory.GetDefault().Exists(ctx, storedName)
	assert.NoError(t, err)
	assert.False(t, exists)

	// friend 的可见列表为空
	_, shared, err := mediaSvc.ListVisible(ctx, friend)
	assert.NoError(t, err)
	assert.Empty(t, shared)

	// 登录失败
	_, err = svc.Login(ctx, "del_owner", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

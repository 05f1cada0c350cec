package auth

import (
	"context"
	"errors"

	"github.com/anoixa/snapi/database"
	"github.com/anoixa/snapi/database/models"
	"github.com/anoixa/snapi/database/repo/accounts"
	"github.com/anoixa/snapi/internal/media"
	cryptopackage "github.com/anoixa/snapi/utils/crypto"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials 用户名或密码错误（统一返回，不区分是哪个错）
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken 用户名已被占用
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken 邮箱已被占用
	ErrEmailTaken = errors.New("email already registered")
)

// AccountService 注册、登录、密码与账号生命周期
type AccountService struct {
	provider database.Provider
	users    *accounts.Repository
	media    *media.Service
	sessions *SessionResolver
}

// NewAccountService 创建账户服务
func NewAccountService(provider database.Provider, users *accounts.Repository, mediaSvc *media.Service, sessions *SessionResolver) *AccountService {
	return &AccountService{
		provider: provider,
		users:    users,
		media:    mediaSvc,
		sessions: sessions,
	}
}

// Signup 注册新用户
func (s *AccountService) Signup(ctx context.Context, username, email, password string) (*models.User, error) {
	taken, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	if email != "" {
		taken, err = s.users.EmailExists(ctx, email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
	}

	hash, err := cryptopackage.GenerateFromPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
	}
	if email != "" {
		user.Email = &email
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login 校验用户名密码
// 用户不存在和密码错误统一返回 ErrInvalidCredentials。
func (s *AccountService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, accounts.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := cryptopackage.ComparePasswordAndHash(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// ChangePassword 校验旧密码后重新哈希
func (s *AccountService) ChangePassword(ctx context.Context, user *models.User, oldPassword, newPassword string) error {
	ok, err := cryptopackage.ComparePasswordAndHash(oldPassword, user.PasswordHash)
	if err != nil || !ok {
		return ErrInvalidCredentials
	}

	hash, err := cryptopackage.GenerateFromPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return err
	}

	s.sessions.Invalidate(ctx, user.ID)
	return nil
}

// DeleteAccount 删除账号并级联清理
// 同一事务内删除：用户拥有的媒体记录、用户作为任一方的分享记录、用户本身。
// 存储文件在事务提交后尽力删除。
func (s *AccountService) DeleteAccount(ctx context.Context, user *models.User) error {
	var storedNames []string

	err := s.provider.TransactionWithContext(ctx, func(tx *gorm.DB) error {
		names, err := s.media.PurgeUserTx(tx, user.ID)
		if err != nil {
			return err
		}
		storedNames = names
		return s.users.DeleteUserTx(tx, user.ID)
	})
	if err != nil {
		return err
	}

	s.media.RemoveStoredFiles(ctx, storedNames)
	s.sessions.Invalidate(ctx, user.ID)
	return nil
}

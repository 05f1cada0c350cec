package auth

import (
	"context"
	"database/sql"
	"strconv"
	"testing"

	"github.com/anoixa/snapi/database"
	"github.com/anoixa/snapi/database/models"
	"github.com/anoixa/snapi/database/repo/accounts"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB 创建测试数据库
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	assert.NoError(t, err)

	// 自动迁移
	err = db.AutoMigrate(&models.User{}, &models.MediaItem{}, &models.SharedMedia{})
	assert.NoError(t, err)

	return db
}

// testProvider 测试数据库提供者
type testProvider struct {
	db *gorm.DB
}

func (p *testProvider) DB() *gorm.DB {
	return p.db
}

func (p *testProvider) WithContext(ctx context.Context) *gorm.DB {
	return p.db.WithContext(ctx)
}

func (p *testProvider) Transaction(fn database.TxFunc) error {
	return p.db.Transaction(fn)
}

func (p *testProvider) TransactionWithContext(ctx context.Context, fn database.TxFunc) error {
	return p.db.WithContext(ctx).Transaction(fn)
}

func (p *testProvider) AutoMigrate(models ...interface{}) error {
	return p.db.AutoMigrate(models...)
}

func (p *testProvider) SQLDB() (*sql.DB, error) {
	return p.db.DB()
}

func (p *testProvider) Ping() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (p *testProvider) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (p *testProvider) Name() string {
	return "sqlite"
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "$argon2id$v=19$m=65536,t=2,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
	}
	assert.NoError(t, db.Create(user).Error)
	return user
}

// --- 测试会话解析 ---

func TestSessionResolver_Anonymous(t *testing.T) {
	db := setupTestDB(t)
	resolver := NewSessionResolver(accounts.NewRepository(&testProvider{db: db}), nil, 0)
	ctx := context.Background()

	assert.Nil(t, resolver.ResolveOptional(ctx, ""))

	user, failure := resolver.ResolveRequired(ctx, "", "/add-photos-videos")
	assert.Nil(t, user)
	assert.NotNil(t, failure)
	assert.Equal(t, ReasonUnauthenticated, failure.Reason)
	assert.Equal(t, "/login?next=%2Fadd-photos-videos", failure.RedirectTo)
}

func TestSessionResolver_MalformedCookie(t *testing.T) {
	db := setupTestDB(t)
	resolver := NewSessionResolver(accounts.NewRepository(&testProvider{db: db}), nil, 0)
	ctx := context.Background()

	for _, cookie := range []string{"not-a-number", "-1", "12abc", "1.5"} {
		assert.Nil(t, resolver.ResolveOptional(ctx, cookie))

		user, failure := resolver.ResolveRequired(ctx, cookie, "/settings")
		assert.Nil(t, user)
		assert.NotNil(t, failure)
		assert.Equal(t, ReasonInvalidSession, failure.Reason)
		assert.Equal(t, "/logout", failure.RedirectTo)
	}
}

func TestSessionResolver_UnknownUser(t *testing.T) {
	db := setupTestDB(t)
	resolver := NewSessionResolver(accounts.NewRepository(&testProvider{db: db}), nil, 0)

	user, failure := resolver.ResolveRequired(context.Background(), "999999", "/settings")
	assert.Nil(t, user)
	assert.NotNil(t, failure)
	assert.Equal(t, ReasonInvalidSession, failure.Reason)
	assert.Equal(t, "/logout", failure.RedirectTo)
}

func TestSessionResolver_Authenticated(t *testing.T) {
	db := setupTestDB(t)
	resolver := NewSessionResolver(accounts.NewRepository(&testProvider{db: db}), nil, 0)
	created := createTestUser(t, db, "session_user")
	cookie := strconv.FormatUint(uint64(created.ID), 10)

	user := resolver.ResolveOptional(context.Background(), cookie)
	assert.NotNil(t, user)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, "session_user", user.Username)

	user, failure := resolver.ResolveRequired(context.Background(), cookie, "/settings")
	assert.Nil(t, failure)
	assert.NotNil(t, user)
	assert.Equal(t, created.ID, user.ID)
}

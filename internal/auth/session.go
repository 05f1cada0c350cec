package auth

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/anoixa/snapi/cache"
	"github.com/anoixa/snapi/database/models"
	"github.com/anoixa/snapi/database/repo/accounts"
)

// FailureReason 会话解析失败分类
type FailureReason string

const (
	// ReasonUnauthenticated 请求未携带身份 cookie
	ReasonUnauthenticated FailureReason = "unauthenticated"
	// ReasonInvalidSession cookie 无法解析或指向不存在的用户
	ReasonInvalidSession FailureReason = "invalid_session"
)

// AuthFailure 会话解析失败，携带应跳转的地址
type AuthFailure struct {
	Reason     FailureReason
	RedirectTo string
}

// SessionResolver 从身份 cookie 解析当前用户
// cookie 值即用户 id 的十进制字符串，解析本身不产生副作用。
type SessionResolver struct {
	users      *accounts.Repository
	cache      cache.Provider
	sessionTTL time.Duration
}

// NewSessionResolver 创建会话解析器
// cacheProvider 可以为 nil，此时每次解析都直接查库。
func NewSessionResolver(users *accounts.Repository, cacheProvider cache.Provider, sessionTTL time.Duration) *SessionResolver {
	if sessionTTL <= 0 {
		sessionTTL = 5 * time.Minute
	}
	return &SessionResolver{
		users:      users,
		cache:      cacheProvider,
		sessionTTL: sessionTTL,
	}
}

// ResolveOptional 解析 cookie，任何失败都归一为匿名（返回 nil）
func (r *SessionResolver) ResolveOptional(ctx context.Context, cookieValue string) *models.User {
	user, _ := r.resolve(ctx, cookieValue)
	return user
}

// ResolveRequired 解析 cookie，失败时返回带跳转目标的 AuthFailure
// 匿名请求跳转登录页并保留原始目标路径；坏 cookie 跳转 /logout 以清除。
func (r *SessionResolver) ResolveRequired(ctx context.Context, cookieValue, requestPath string) (*models.User, *AuthFailure) {
	user, reason := r.resolve(ctx, cookieValue)
	if user != nil {
		return user, nil
	}

	switch reason {
	case ReasonUnauthenticated:
		return nil, &AuthFailure{
			Reason:     ReasonUnauthenticated,
			RedirectTo: "/login?next=" + url.QueryEscape(requestPath),
		}
	default:
		return nil, &AuthFailure{
			Reason:     ReasonInvalidSession,
			RedirectTo: "/logout",
		}
	}
}

// resolve 状态机：Anonymous → MalformedToken → UnknownUser → Authenticated
func (r *SessionResolver) resolve(ctx context.Context, cookieValue string) (*models.User, FailureReason) {
	if cookieValue == "" {
		return nil, ReasonUnauthenticated
	}

	userID, err := strconv.ParseUint(cookieValue, 10, 64)
	if err != nil {
		return nil, ReasonInvalidSession
	}

	if r.cache != nil {
		var cached models.User
		if err := r.cache.Get(ctx, cache.SessionUserKey(uint(userID)), &cached); err == nil {
			return &cached, ""
		}
	}

	user, err := r.users.GetUserByID(ctx, uint(userID))
	if err != nil {
		if errors.Is(err, accounts.ErrUserNotFound) {
			return nil, ReasonInvalidSession
		}
		// 数据库故障按无效会话处理，请求层面不致命
		return nil, ReasonInvalidSession
	}

	if r.cache != nil {
		_ = r.cache.Set(ctx, cache.SessionUserKey(user.ID), user, r.sessionTTL)
	}

	return user, ""
}

// Invalidate 清除某个用户的会话缓存
// 密码修改和账号删除后调用，保证陈旧缓存不会复活身份。
func (r *SessionResolver) Invalidate(ctx context.Context, userID uint) {
	if r.cache != nil {
		_ = r.cache.Delete(ctx, cache.SessionUserKey(userID))
	}
}

package middleware

import (
	"net/http"

	"github.com/anoixa/snapi/api/common"
	"github.com/anoixa/snapi/database/models"
	"github.com/anoixa/snapi/internal/auth"
	"github.com/gin-gonic/gin"
)

// ContextUserKey 已解析用户在 gin 上下文中的键
const ContextUserKey = "current_user"

// OptionalUser 尝试解析身份 cookie，失败时继续以匿名身份处理
func OptionalUser(resolver *auth.SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(common.AccessTokenCookie)
		if user := resolver.ResolveOptional(c.Request.Context(), token); user != nil {
			c.Set(ContextUserKey, user)
		}
		c.Next()
	}
}

// RequireUser 解析身份 cookie，失败时按失败类型跳转
// 匿名 → 登录页（保留原始路径）；坏 cookie → /logout 清除。
func RequireUser(resolver *auth.SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(common.AccessTokenCookie)
		user, failure := resolver.ResolveRequired(c.Request.Context(), token, c.Request.URL.Path)
		if failure != nil {
			c.Redirect(http.StatusFound, failure.RedirectTo)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser 从上下文取出已解析的用户，匿名时返回 nil
func CurrentUser(c *gin.Context) *models.User {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

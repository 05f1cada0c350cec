package common

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

// AccessTokenCookie 身份 cookie 名
// 值为用户 id 的十进制字符串，HttpOnly，整站路径。会话机制仅此一项。
const AccessTokenCookie = "access_token"

// SetIdentityCookie 设置身份 cookie
func SetIdentityCookie(c *gin.Context, userID uint) {
	c.SetCookie(AccessTokenCookie, strconv.FormatUint(uint64(userID), 10), 0, "/", "", false, true)
}

// ClearIdentityCookie 让浏览器删除身份 cookie
func ClearIdentityCookie(c *gin.Context) {
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", false, true)
}

// RedirectWithMessage 303 跳转并附带提示消息
func RedirectWithMessage(c *gin.Context, base, message string) {
	c.Redirect(http.StatusSeeOther, base+"?message="+url.QueryEscape(message))
}

// RedirectWithError 303 跳转并附带错误消息
func RedirectWithError(c *gin.Context, base, errMsg string) {
	c.Redirect(http.StatusSeeOther, base+"?error="+url.QueryEscape(errMsg))
}

// RenderErrorPage 渲染错误页（404/403 等显式失败）
func RenderErrorPage(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{
		"status":  status,
		"message": message,
	})
}

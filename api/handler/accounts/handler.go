package accounts

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/anoixa/snapi/api/common"
	"github.com/anoixa/snapi/api/middleware"
	"github.com/anoixa/snapi/internal/auth"
	"github.com/anoixa/snapi/utils"
	cryptopackage "github.com/anoixa/snapi/utils/crypto"
	"github.com/gin-gonic/gin"
)

// Handler 注册、登录与账户设置页
type Handler struct {
	accounts *auth.AccountService
}

// NewHandler 创建账户处理器
func NewHandler(accounts *auth.AccountService) *Handler {
	return &Handler{accounts: accounts}
}

// GetSignup 渲染注册页
func (h *Handler) GetSignup(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{
		"user": middleware.CurrentUser(c),
	})
}

// PostSignup 处理注册表单
func (h *Handler) PostSignup(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	_, err := h.accounts.Signup(c.Request.Context(), username, email, password)
	if err != nil {
		var message string
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			message = "Username already taken."
		case errors.Is(err, auth.ErrEmailTaken):
			message = "Email already registered."
		case errors.Is(err, cryptopackage.ErrEmptyPassword):
			message = "Password must not be empty."
		default:
			log.Printf("[Error] Signup failed for user %s: %v", utils.SanitizeLogUsername(username), err)
			message = "Signup failed, please try again."
		}
		c.HTML(http.StatusOK, "signup.html", gin.H{
			"error":    message,
			"username": username,
			"email":    email,
		})
		return
	}

	c.Redirect(http.StatusFound, "/login")
}

// GetLogin 渲染登录页，保留 next 参数
func (h *Handler) GetLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"next":    c.Query("next"),
		"message": c.Query("message"),
	})
}

// PostLogin 处理登录表单
// 成功后设置身份 cookie 并跳转 next（默认首页）。
func (h *Handler) PostLogin(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	next := c.PostForm("next")
	if next == "" || !strings.HasPrefix(next, "/") {
		next = "/"
	}

	user, err := h.accounts.Login(c.Request.Context(), username, password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			log.Printf("[Error] Login failed for user %s: %v", utils.SanitizeLogUsername(username), err)
		}
		c.HTML(http.StatusOK, "login.html", gin.H{
			"error":    "Invalid username or password.",
			"username": username,
			"next":     next,
		})
		return
	}

	common.SetIdentityCookie(c, user.ID)
	c.Redirect(http.StatusFound, next)
}

// Logout 清除身份 cookie 并回首页
// 坏 cookie 的统一出口，无需已登录即可访问。
func (h *Handler) Logout(c *gin.Context) {
	common.ClearIdentityCookie(c)
	c.Redirect(http.StatusFound, "/")
}

// GetSettings 渲染账户设置页
func (h *Handler) GetSettings(c *gin.Context) {
	c.HTML(http.StatusOK, "settings.html", gin.H{
		"user":    middleware.CurrentUser(c),
		"message": c.Query("message"),
		"error":   c.Query("error"),
	})
}

// PostChangePassword 处理改密表单
func (h *Handler) PostChangePassword(c *gin.Context) {
	user := middleware.CurrentUser(c)
	oldPassword := c.PostForm("old_password")
	newPassword := c.PostForm("new_password")

	err := h.accounts.ChangePassword(c.Request.Context(), user, oldPassword, newPassword)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			common.RedirectWithError(c, "/settings", "Current password is incorrect.")
		case errors.Is(err, cryptopackage.ErrEmptyPassword):
			common.RedirectWithError(c, "/settings", "New password must not be empty.")
		default:
			log.Printf("[Error] Password change failed for user %d: %v", user.ID, err)
			common.RedirectWithError(c, "/settings", "Could not change password, please try again.")
		}
		return
	}

	common.RedirectWithMessage(c, "/settings", "Password changed successfully!")
}

// PostDeleteAccount 删除账号及其全部数据
func (h *Handler) PostDeleteAccount(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := h.accounts.DeleteAccount(c.Request.Context(), user); err != nil {
		log.Printf("[Error] Account deletion failed for user %d: %v", user.ID, err)
		common.RedirectWithError(c, "/settings", "Could not delete account, please try again.")
		return
	}

	common.ClearIdentityCookie(c)
	common.RedirectWithMessage(c, "/", "Account deleted successfully.")
}

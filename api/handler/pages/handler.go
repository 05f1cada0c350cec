package pages

import (
	"log"
	"net/http"
	"strings"

	"github.com/anoixa/snapi/api/middleware"
	"github.com/anoixa/snapi/database/models"
	"github.com/anoixa/snapi/database/repo/contact"
	"github.com/gin-gonic/gin"
)

// Handler 公开静态页与联系表单
type Handler struct {
	contact *contact.Repository
}

// NewHandler 创建页面处理器
func NewHandler(contactRepo *contact.Repository) *Handler {
	return &Handler{contact: contactRepo}
}

// Home 渲染首页
func (h *Handler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", gin.H{
		"user":    middleware.CurrentUser(c),
		"message": c.Query("message"),
	})
}

// AboutUs 渲染关于页
func (h *Handler) AboutUs(c *gin.Context) {
	c.HTML(http.StatusOK, "about-us.html", gin.H{
		"user": middleware.CurrentUser(c),
	})
}

// GetContactUs 渲染联系页
func (h *Handler) GetContactUs(c *gin.Context) {
	c.HTML(http.StatusOK, "contact-us.html", gin.H{
		"user": middleware.CurrentUser(c),
	})
}

// PostContactUs 保存联系表单并回显成功提示
func (h *Handler) PostContactUs(c *gin.Context) {
	message := &models.ContactMessage{
		Name:    strings.TrimSpace(c.PostForm("name")),
		Email:   strings.TrimSpace(c.PostForm("email")),
		Subject: strings.TrimSpace(c.PostForm("subject")),
		Message: strings.TrimSpace(c.PostForm("message")),
	}

	if err := h.contact.CreateMessage(c.Request.Context(), message); err != nil {
		log.Printf("[Error] Failed to save contact message: %v", err)
		c.HTML(http.StatusOK, "contact-us.html", gin.H{
			"user":  middleware.CurrentUser(c),
			"error": "Could not send your message, please try again.",
			"form":  message,
		})
		return
	}

	c.HTML(http.StatusOK, "contact-us.html", gin.H{
		"user":    middleware.CurrentUser(c),
		"success": true,
		"form":    message,
	})
}

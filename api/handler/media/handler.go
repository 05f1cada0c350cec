package media

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/anoixa/snapi/api/common"
	"github.com/anoixa/snapi/api/middleware"
	"github.com/anoixa/snapi/internal/media"
	"github.com/gin-gonic/gin"
)

const listPagePath = "/add-photos-videos"

// Handler 媒体列表、上传、删除与分享
type Handler struct {
	media *media.Service
}

// NewHandler 创建媒体处理器
func NewHandler(mediaSvc *media.Service) *Handler {
	return &Handler{media: mediaSvc}
}

// ListMedia 渲染媒体管理页：自己的媒体 + 分享给自己的媒体
func (h *Handler) ListMedia(c *gin.Context) {
	user := middleware.CurrentUser(c)

	owned, shared, err := h.media.ListVisible(c.Request.Context(), user)
	if err != nil {
		log.Printf("[Error] Failed to list media for user %d: %v", user.ID, err)
		common.RenderErrorPage(c, http.StatusInternalServerError, "Could not load your media.")
		return
	}

	c.HTML(http.StatusOK, "add-photos-videos.html", gin.H{
		"user":         user,
		"user_media":   owned,
		"shared_media": shared,
		"message":      c.Query("message"),
		"error":        c.Query("error"),
	})
}

// Upload 处理多文件上传表单
func (h *Handler) Upload(c *gin.Context) {
	user := middleware.CurrentUser(c)

	form, err := c.MultipartForm()
	if err != nil {
		common.RedirectWithError(c, listPagePath, "Invalid upload request.")
		return
	}

	files := form.File["file"]
	if len(files) == 0 {
		common.RedirectWithError(c, listPagePath, "No file selected.")
		return
	}

	results := h.media.UploadBatch(c.Request.Context(), user, files)

	var failed []string
	for _, result := range results {
		if result.Err != "" {
			log.Printf("[Error] Upload of %s failed for user %d: %s", result.Filename, user.ID, result.Err)
			failed = append(failed, result.Filename)
		}
	}

	if len(failed) > 0 {
		common.RedirectWithError(c, listPagePath, fmt.Sprintf("Failed to upload: %s", strings.Join(failed, ", ")))
		return
	}

	common.RedirectWithMessage(c, listPagePath, "Media uploaded successfully!")
}

// Delete 删除指定媒体
// 不存在返回 404，不是所有者返回 403。
func (h *Handler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	mediaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.RenderErrorPage(c, http.StatusNotFound, "Media item not found.")
		return
	}

	err = h.media.Delete(c.Request.Context(), uint(mediaID), user)
	switch {
	case err == nil:
		common.RedirectWithMessage(c, listPagePath, "Media item deleted successfully!")
	case errors.Is(err, media.ErrMediaNotFound):
		common.RenderErrorPage(c, http.StatusNotFound, "Media item not found.")
	case errors.Is(err, media.ErrForbidden):
		common.RenderErrorPage(c, http.StatusForbidden, "You do not own this media item.")
	default:
		log.Printf("[Error] Failed to delete media %d for user %d: %v", mediaID, user.ID, err)
		common.RedirectWithError(c, listPagePath, "Could not delete media item.")
	}
}

// Share 将媒体分享给指定用户名
// 重复分享按提示处理而非错误。
func (h *Handler) Share(c *gin.Context) {
	user := middleware.CurrentUser(c)

	mediaID, err := strconv.ParseUint(c.PostForm("media_id"), 10, 64)
	if err != nil {
		common.RenderErrorPage(c, http.StatusNotFound, "Media item not found.")
		return
	}
	targetUsername := strings.TrimSpace(c.PostForm("share_with_username"))
	if targetUsername == "" {
		common.RedirectWithError(c, listPagePath, "Please enter a username to share with.")
		return
	}

	err = h.media.Share(c.Request.Context(), uint(mediaID), targetUsername, user)
	switch {
	case err == nil:
		common.RedirectWithMessage(c, listPagePath, fmt.Sprintf("Shared successfully with %s!", targetUsername))
	case errors.Is(err, media.ErrAlreadyShared):
		common.RedirectWithMessage(c, listPagePath, fmt.Sprintf("Already shared with %s.", targetUsername))
	case errors.Is(err, media.ErrMediaNotFound):
		common.RenderErrorPage(c, http.StatusNotFound, "Media item not found.")
	case errors.Is(err, media.ErrForbidden):
		common.RenderErrorPage(c, http.StatusForbidden, "You do not own this media item.")
	case errors.Is(err, media.ErrTargetUserNotFound):
		common.RedirectWithError(c, listPagePath, fmt.Sprintf("User %s not found.", targetUsername))
	default:
		log.Printf("[Error] Failed to share media %d for user %d: %v", mediaID, user.ID, err)
		common.RedirectWithError(c, listPagePath, "Could not share media item.")
	}
}

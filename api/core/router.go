package core

import (
	"net/http"
	"time"

	handlerAccounts "github.com/anoixa/snapi/api/handler/accounts"
	handlerMedia "github.com/anoixa/snapi/api/handler/media"
	handlerPages "github.com/anoixa/snapi/api/handler/pages"
	"github.com/anoixa/snapi/api/middleware"
	"github.com/anoixa/snapi/cache"
	"github.com/anoixa/snapi/config"
	"github.com/anoixa/snapi/database"
	"github.com/anoixa/snapi/internal/auth"
	"github.com/anoixa/snapi/internal/media"
	"github.com/anoixa/snapi/internal/repositories"
	"github.com/anoixa/snapi/storage"
	"github.com/gin-gonic/gin"
)

// RouterDependencies 路由注册依赖
type RouterDependencies struct {
	Provider        database.Provider
	Repositories    *repositories.Repositories
	CacheProvider   cache.Provider
	StorageFactory  *storage.Factory
	SessionResolver *auth.SessionResolver
	AccountService  *auth.AccountService
	MediaService    *media.Service
	AuthRateLimiter *middleware.IPRateLimiter
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(router *gin.Engine, deps *RouterDependencies) {
	registerBasicRoutes(router, deps)
	registerPageRoutes(router, deps)
	registerAccountRoutes(router, deps)
	registerMediaRoutes(router, deps)
}

// registerBasicRoutes 注册基础路由
func registerBasicRoutes(router *gin.Engine, deps *RouterDependencies) {
	router.GET("/health", func(context *gin.Context) {
		health := gin.H{
			"status":  "ok",
			"uptime":  time.Since(startTime).Round(time.Second).String(),
			"version": config.Version,
			"checks": gin.H{
				"database": checkDatabaseHealth(deps.Provider),
				"cache":    checkCacheHealth(deps.CacheProvider),
				"storage":  checkStorageHealth(deps.StorageFactory),
			},
		}
		httpStatus := http.StatusOK
		for _, checkResult := range health["checks"].(gin.H) {
			if result, ok := checkResult.(string); ok && result != "ok" {
				httpStatus = http.StatusServiceUnavailable
				break
			}
		}
		context.JSON(httpStatus, health)
	})

	router.GET("/version", func(context *gin.Context) {
		context.JSON(http.StatusOK, gin.H{
			"version": config.Version,
			"commit":  config.CommitHash,
		})
	})
}

// registerPageRoutes 注册公开页面路由
func registerPageRoutes(router *gin.Engine, deps *RouterDependencies) {
	pagesHandler := handlerPages.NewHandler(deps.Repositories.Contact)

	publicGroup := router.Group("/")
	publicGroup.Use(middleware.OptionalUser(deps.SessionResolver))
	{
		publicGroup.GET("", pagesHandler.Home)              // GET /
		publicGroup.GET("/about-us", pagesHandler.AboutUs)  // GET /about-us
		publicGroup.GET("/contact-us", pagesHandler.GetContactUs)
		publicGroup.POST("/contact-us", pagesHandler.PostContactUs)
	}
}

// registerAccountRoutes 注册账户路由
func registerAccountRoutes(router *gin.Engine, deps *RouterDependencies) {
	accountsHandler := handlerAccounts.NewHandler(deps.AccountService)

	// 注册与登录走限流
	authGroup := router.Group("/")
	authGroup.Use(deps.AuthRateLimiter.Middleware())
	{
		authGroup.GET("/signup", accountsHandler.GetSignup)
		authGroup.POST("/signup", accountsHandler.PostSignup)
		authGroup.GET("/login", accountsHandler.GetLogin)
		authGroup.POST("/login", accountsHandler.PostLogin)
	}

	// /logout 同时是坏 cookie 的清除出口，不要求已登录
	router.GET("/logout", accountsHandler.Logout)

	settingsGroup := router.Group("/")
	settingsGroup.Use(middleware.RequireUser(deps.SessionResolver))
	{
		settingsGroup.GET("/settings", accountsHandler.GetSettings)
		settingsGroup.POST("/change-password", accountsHandler.PostChangePassword)
		settingsGroup.POST("/delete-account", accountsHandler.PostDeleteAccount)
	}
}

// registerMediaRoutes 注册媒体路由，全部要求已登录
func registerMediaRoutes(router *gin.Engine, deps *RouterDependencies) {
	mediaHandler := handlerMedia.NewHandler(deps.MediaService)

	mediaGroup := router.Group("/")
	mediaGroup.Use(middleware.RequireUser(deps.SessionResolver))
	{
		mediaGroup.GET("/add-photos-videos", mediaHandler.ListMedia)
		mediaGroup.POST("/upload-media", mediaHandler.Upload)
		mediaGroup.POST("/delete-media/:id", mediaHandler.Delete)
		mediaGroup.POST("/share-media", mediaHandler.Share)
	}
}

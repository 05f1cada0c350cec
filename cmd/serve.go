package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anoixa/snapi/api/core"
	"github.com/anoixa/snapi/cache"
	"github.com/anoixa/snapi/config"
	"github.com/anoixa/snapi/database"
	"github.com/anoixa/snapi/internal/auth"
	"github.com/anoixa/snapi/internal/media"
	"github.com/anoixa/snapi/internal/repositories"
	"github.com/anoixa/snapi/storage"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start web server",
	Run: func(cmd *cobra.Command, args []string) {
		RunServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func RunServer() {
	config.InitConfig()
	cfg := config.Get()

	if err := os.MkdirAll("./data", os.ModePerm); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// 数据库
	provider, err := database.NewGormProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	log.Printf("Initializing database, database type: %s", provider.Name())

	// 自动DDL
	if err := database.AutoMigrateAll(provider); err != nil {
		log.Fatalf("Failed to auto migrate database: %v", err)
	}
	log.Println("Database initialized successfully")

	repos := repositories.NewRepositories(provider)

	// 缓存
	cacheProvider, err := cache.NewProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}
	log.Printf("Cache provider: %s", cacheProvider.Name())

	// 存储
	storageFactory, err := storage.NewFactory(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	log.Printf("Default storage provider: %s", storageFactory.GetDefaultName())

	// 服务
	sessionResolver := auth.NewSessionResolver(repos.Accounts, cacheProvider, cfg.CacheSessionTTL)
	mediaService := media.NewService(provider, repos.Media, repos.Accounts, storageFactory)
	accountService := auth.NewAccountService(provider, repos.Accounts, mediaService, sessionResolver)

	deps := &core.RouterDependencies{
		Provider:        provider,
		Repositories:    repos,
		CacheProvider:   cacheProvider,
		StorageFactory:  storageFactory,
		SessionResolver: sessionResolver,
		AccountService:  accountService,
		MediaService:    mediaService,
	}

	// 启动gin
	server, cleanup := core.StartServer(deps)
	go func() {
		log.Printf("Server started on %s", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// 处理退出signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if cleanup != nil {
		cleanup()
		log.Println("Cleanup tasks finished.")
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := cacheProvider.Close(); err != nil {
		log.Printf("Error closing cache provider: %v", err)
	}
	if err := provider.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	log.Println("Server exited successfully")
}

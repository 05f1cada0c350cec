package cache

import (
	"fmt"

	cacheredis "github.com/anoixa/snapi/cache/redis"
	cacheristretto "github.com/anoixa/snapi/cache/ristretto"
	"github.com/anoixa/snapi/config"
)

// NewProvider 根据配置创建缓存提供者
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.CacheType {
	case "", "memory":
		return cacheristretto.NewRistretto(cacheristretto.DefaultConfig())
	case "redis":
		return cacheredis.NewRedis(cfg.CacheRedisAddr, cfg.CacheRedisPassword, cfg.CacheRedisDB)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.CacheType)
	}
}

package ristretto

import (
	"context"
	"encoding/json"
	"time"

	"github.com/anoixa/snapi/cache/types"
	"github.com/dgraph-io/ristretto"
)

// Ristretto 进程内缓存实现
type Ristretto struct {
	client *ristretto.Cache
}

// Config Ristretto配置
type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
}

// DefaultConfig 会话缓存的默认规格
func DefaultConfig() Config {
	return Config{
		NumCounters: 1e5,
		MaxCost:     32 << 20, // 32 MB
		BufferItems: 64,
	}
}

// NewRistretto 创建新的Ristretto实例
func NewRistretto(config Config) (*Ristretto, error) {
	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: config.NumCounters,
		MaxCost:     config.MaxCost,
		BufferItems: config.BufferItems,
	})
	if err != nil {
		return nil, err
	}

	return &Ristretto{client: client}, nil
}

// Set 设置缓存项
func (r *Ristretto) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if r.client.SetWithTTL(key, data, int64(len(data)), expiration) {
		// 等待值被实际设置
		r.client.Wait()
	}
	return nil
}

// Get 获取缓存项
func (r *Ristretto) Get(ctx context.Context, key string, dest interface{}) error {
	value, found := r.client.Get(key)
	if !found {
		return types.ErrCacheMiss
	}

	data, ok := value.([]byte)
	if !ok {
		return types.ErrCacheMiss
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return types.ErrCacheMiss
	}
	return nil
}

// Delete 删除缓存项
func (r *Ristretto) Delete(ctx context.Context, key string) error {
	r.client.Del(key)
	return nil
}

// Exists 检查缓存项是否存在
func (r *Ristretto) Exists(ctx context.Context, key string) (bool, error) {
	_, found := r.client.Get(key)
	return found, nil
}

// Close 关闭缓存连接
func (r *Ristretto) Close() error {
	r.client.Close()
	return nil
}

// Name 返回缓存提供者名称
func (r *Ristretto) Name() string {
	return "memory"
}

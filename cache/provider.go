package cache

import (
	"errors"
	"fmt"

	"github.com/anoixa/snapi/cache/types"
)

// Provider 缓存提供者
type Provider = types.Cache

// ErrCacheMiss 缓存未命中错误
var ErrCacheMiss = types.ErrCacheMiss

// IsCacheMiss 判断是否为缓存未命中错误
func IsCacheMiss(err error) bool {
	return errors.Is(err, types.ErrCacheMiss)
}

// SessionUserKey 会话解析缓存键
func SessionUserKey(userID uint) string {
	return fmt.Sprintf("session:user:%d", userID)
}

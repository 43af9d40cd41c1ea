package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss 表示 key 不存在
var ErrCacheMiss = errors.New("缓存未命中")

// Cache 缓存通用接口
// 仅用于展示类数据(管理端统计视图), 配额校验与权限检查永远走实时查询
type Cache interface {
	// Set 在缓存中设置一个值并指定过期时间
	// value 应该是可以被 JSON 序列化的结构体或指针
	Set(ctx context.Context, key string, value any, expiration time.Duration) error

	// Get 从缓存中取值并反序列化到 target(指针)
	// key 不存在时返回 ErrCacheMiss
	Get(ctx context.Context, key string, target any) error

	// Del 删除一个或多个 key
	Del(ctx context.Context, keys ...string) error

	// Exists 检查 key 是否存在
	Exists(ctx context.Context, key string) (bool, error)
}

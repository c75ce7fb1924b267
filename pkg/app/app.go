// pkg/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"tinygit/pkg/compression"
	"tinygit/pkg/logging"
	"tinygit/pkg/object"
	"tinygit/pkg/storage"
	"tinygit/pkg/storage/cache"
	"tinygit/pkg/storage/disk"
	"tinygit/pkg/storage/s3"
	"tinygit/pkg/types"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// App 是整个应用程序的依赖容器 (Dependency Container)
type App struct {
	Store  storage.Store
	Codec  *compression.Codec
	Writer *object.Writer
	Log    *zap.Logger

	closers []io.Closer
}

// NewApp 按 Viper 配置组装存储、编解码器和 logger，不关心具体的 CLI 命令
func NewApp(ctx context.Context) (*App, error) {
	log, err := logging.New(viper.GetString("log.level"), viper.GetString("log.format"))
	if err != nil {
		return nil, err
	}
	return NewAppWithLogger(ctx, log)
}

// NewAppWithLogger 供测试注入 logger
func NewAppWithLogger(ctx context.Context, log *zap.Logger) (*App, error) {
	codec, err := compression.NewCodec(viper.GetInt("compression.level"))
	if err != nil {
		return nil, err
	}

	a := &App{Codec: codec, Log: log}
	store, err := a.initStore(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Store = store
	a.Writer = object.NewWriter(store, codec, log)
	return a, nil
}

// initStore 根据 storage.type 选择后端，再按配置叠加缓存装饰器
func (a *App) initStore(ctx context.Context) (storage.Store, error) {
	var store storage.Store

	storeType := strings.ToLower(viper.GetString("storage.type"))
	switch storeType {
	case "", "disk":
		path := viper.GetString("storage.path")
		if path == "" {
			return nil, fmt.Errorf("storage path not set")
		}
		d, err := disk.NewAdapter(path)
		if err != nil {
			return nil, fmt.Errorf("failed to init storage: %w", err)
		}
		store = d
	case "s3":
		cfg := s3.Config{
			Endpoint:        viper.GetString("s3.endpoint"),
			Region:          viper.GetString("s3.region"),
			Bucket:          viper.GetString("s3.bucket"),
			AccessKeyID:     viper.GetString("s3.access_key"),
			SecretAccessKey: viper.GetString("s3.secret_key"),
			KeyPrefix:       viper.GetString("s3.key_prefix"),
		}
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("s3 bucket is required (set s3.bucket)")
		}
		s, err := s3.NewAdapter(ctx, cfg, a.Log.Named("s3"))
		if err != nil {
			return nil, fmt.Errorf("failed to init storage: %w", err)
		}
		store = s
	default:
		return nil, fmt.Errorf("unsupported storage type: %q", storeType)
	}
	a.Log.Debug("storage backend ready", zap.String("type", storeType))

	if url := viper.GetString("cache.redis_url"); url != "" {
		cs, err := cache.NewCachedStore(store, cache.Config{
			RedisURL: url,
			TTL:      viper.GetDuration("cache.ttl"),
		}, a.Log.Named("redis"))
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, cs)
		store = cs
	}

	if size := viper.GetInt("cache.lru_size"); size > 0 {
		lc, err := cache.NewLRUStore(store, size)
		if err != nil {
			return nil, err
		}
		store = lc
	}

	return store, nil
}

// Reader 为一个完整 Hash 创建独立的 Reader
func (a *App) Reader(hash types.Hash) *object.Reader {
	return object.NewReader(a.Store, a.Codec, hash)
}

// Resolve 把用户输入的 (可能是缩写的) Hash 展开为完整 Hash
func (a *App) Resolve(ctx context.Context, input string) (types.Hash, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	p := types.HashPrefix(input)
	if p.IsFull() {
		return types.Hash(input), nil
	}
	// 过短的输入直接交给 Reader，由存储层报告 NotFound
	if len(input) < storage.MinPrefixLen {
		return types.Hash(input), nil
	}
	return a.Store.ExpandHash(ctx, p)
}

// Close 释放外部连接，并刷新日志
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	if a.Log != nil {
		_ = a.Log.Sync()
	}
	return errors.Join(errs...)
}

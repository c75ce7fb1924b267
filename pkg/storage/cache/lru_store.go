package cache

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"tinygit/pkg/core"
	"tinygit/pkg/storage"
	"tinygit/pkg/types"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultLRUSize 是进程内缓存的默认对象数
const DefaultLRUSize = 1024

// LRUStore 在进程内缓存对象的原始 (压缩) 数据
// 对象不可变，缓存永远不会过期失效
type LRUStore struct {
	backend storage.Store
	objects *lru.Cache[types.Hash, []byte]
}

func NewLRUStore(backend storage.Store, size int) (*LRUStore, error) {
	if size <= 0 {
		size = DefaultLRUSize
	}
	c, err := lru.New[types.Hash, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &LRUStore{backend: backend, objects: c}, nil
}

func (s *LRUStore) Put(ctx context.Context, obj core.Object) error {
	if err := s.backend.Put(ctx, obj); err != nil {
		return err
	}
	s.objects.Add(obj.ID(), obj.Bytes())
	return nil
}

func (s *LRUStore) Get(ctx context.Context, hash types.Hash) (io.ReadCloser, error) {
	if data, ok := s.objects.Get(hash); ok {
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	data, err := storage.ReadAll(ctx, s.backend, hash)
	if err != nil {
		return nil, err
	}
	s.objects.Add(hash, data)
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *LRUStore) Has(ctx context.Context, hash types.Hash) (bool, error) {
	if s.objects.Contains(hash) {
		return true, nil
	}
	return s.backend.Has(ctx, hash)
}

func (s *LRUStore) ExpandHash(ctx context.Context, short types.HashPrefix) (types.Hash, error) {
	return s.backend.ExpandHash(ctx, short)
}

// Len 返回当前缓存的对象数
func (s *LRUStore) Len() int { return s.objects.Len() }

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tinygit/pkg/core"
	"tinygit/pkg/types"
)

var (
	ErrNotFound      = errors.New("object not found")
	ErrAmbiguousHash = errors.New("ambiguous hash prefix")
)

// MinPrefixLen 是 ExpandHash 接受的最短前缀
const MinPrefixLen = 4

// Store defines the interface for a storage backend.
// Implementations can be local disk, cloud storage, or in-memory storage.
type Store interface {
	// Put 持久化一个已密封的对象，已存在时直接成功 (CAS 幂等)
	Put(ctx context.Context, obj core.Object) error

	// Get 根据 Hash 读取落盘的原始 (压缩) 数据
	Get(ctx context.Context, hash types.Hash) (io.ReadCloser, error)

	// Has 检查对象是否存在
	Has(ctx context.Context, hash types.Hash) (bool, error)

	// ExpandHash 把短哈希展开为完整 Hash
	ExpandHash(ctx context.Context, short types.HashPrefix) (types.Hash, error)
}

// ShardKey 把 Hash 拆成分片目录和文件名: "aabbcc..." -> "aa", "bbcc..."
func ShardKey(hash types.Hash) (dir, file string, err error) {
	if len(hash) < 2 {
		return "", "", fmt.Errorf("%w: hash %q is too short to map", ErrNotFound, hash)
	}
	return hash.Prefix(), hash.Suffix(), nil
}

// CheckPrefix 校验短哈希，供各后端的 ExpandHash 共用
func CheckPrefix(short types.HashPrefix) error {
	if len(short) < MinPrefixLen {
		return fmt.Errorf("hash prefix %q too short (need at least %d chars)", short, MinPrefixLen)
	}
	if len(short) > types.HashLen {
		return fmt.Errorf("hash prefix %q too long", short)
	}
	for _, c := range []byte(short) {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return fmt.Errorf("hash prefix %q is not lowercase hex", short)
		}
	}
	return nil
}

// ReadAll 读取整个对象并关闭 reader
func ReadAll(ctx context.Context, s Store, hash types.Hash) ([]byte, error) {
	rc, err := s.Get(ctx, hash)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", hash, err)
	}
	return data, nil
}

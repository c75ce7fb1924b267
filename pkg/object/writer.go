package object

import (
	"context"
	"fmt"

	"tinygit/pkg/compression"
	"tinygit/pkg/core"
	"tinygit/pkg/storage"
	"tinygit/pkg/types"

	"go.uber.org/zap"
)

// Writer 负责 序列化 -> 计算 Hash -> 压缩 -> 持久化
type Writer struct {
	store storage.Store
	codec *compression.Codec
	log   *zap.Logger
}

func NewWriter(store storage.Store, codec *compression.Codec, log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{store: store, codec: codec, log: log}
}

// HashOf 计算对象 Hash，不做 I/O
func HashOf(kind core.Kind, content []byte) types.Hash {
	return core.HashOf(kind, content)
}

// Hash 与 Write 相同的校验，但不落盘
func (w *Writer) Hash(kind core.Kind, content []byte) (types.Hash, error) {
	if !kind.Valid() {
		return "", core.InvalidType(kind, "store")
	}
	return HashOf(kind, content), nil
}

// Write 持久化对象并返回 Hash
// 头部写入的是调用方给出的 kind；对象已存在时是无操作
func (w *Writer) Write(ctx context.Context, kind core.Kind, content []byte) (types.Hash, error) {
	hash, err := w.Hash(kind, content)
	if err != nil {
		return "", err
	}

	// 已存在就不必再压缩一遍
	if ok, err := w.store.Has(ctx, hash); err == nil && ok {
		w.log.Debug("object already stored", zap.String("hash", hash.String()))
		return hash, nil
	}

	compressed, err := w.codec.Compress(core.Envelope(kind, content))
	if err != nil {
		return "", fmt.Errorf("compress object %s: %w", hash, err)
	}

	if err := w.store.Put(ctx, core.NewLoose(kind, hash, compressed)); err != nil {
		return "", fmt.Errorf("store object %s: %w", hash, err)
	}

	w.log.Debug("object written",
		zap.String("hash", hash.String()),
		zap.String("kind", kind.String()),
		zap.Int("size", len(content)),
		zap.Int("compressed", len(compressed)))
	return hash, nil
}

// WriteTree 按给定顺序编码条目并写入 tree 对象
func (w *Writer) WriteTree(ctx context.Context, entries []core.TreeEntry) (types.Hash, error) {
	body, err := core.BuildEntries(entries)
	if err != nil {
		return "", err
	}
	return w.Write(ctx, core.KindTree, body)
}

// HashTree 与 WriteTree 相同但不落盘
func (w *Writer) HashTree(entries []core.TreeEntry) (types.Hash, error) {
	body, err := core.BuildEntries(entries)
	if err != nil {
		return "", err
	}
	return w.Hash(core.KindTree, body)
}

package object

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	"tinygit/pkg/compression"
	"tinygit/pkg/core"
	"tinygit/pkg/storage"
	"tinygit/pkg/types"
)

// State 表示 Reader 已经推进到的阶段
type State int

const (
	StateUnread State = iota
	StateRawLoaded
	StateDecompressed
	StateHeaderParsed
	StateRecordsParsed
	StateEntriesParsed
)

func (s State) String() string {
	switch s {
	case StateRawLoaded:
		return "raw-loaded"
	case StateDecompressed:
		return "decompressed"
	case StateHeaderParsed:
		return "header-parsed"
	case StateRecordsParsed:
		return "records-parsed"
	case StateEntriesParsed:
		return "entries-parsed"
	default:
		return "unread"
	}
}

// Record 是解压数据按 NUL 切分后的一段原始字节
type Record []byte

// Text 仅在内容是合法 UTF-8 时返回文本
func (r Record) Text() (string, bool) {
	if !utf8.Valid(r) {
		return "", false
	}
	return string(r), true
}

// Reader 读取单个松散对象
// 每个阶段只计算一次并缓存结果 (包括错误)，重复调用是幂等的
// Reader 之间不共享任何可变状态
type Reader struct {
	store storage.Store
	codec *compression.Codec
	hash  types.Hash

	raw     lazy[[]byte]
	decoded lazy[[]byte]
	header  lazy[core.Header]
	records lazy[[]Record]
	entries lazy[[]core.TreeEntry]
}

// NewReader 创建 Reader，此时不做任何 I/O
func NewReader(store storage.Store, codec *compression.Codec, hash types.Hash) *Reader {
	return &Reader{store: store, codec: codec, hash: hash}
}

// Hash 返回被读取对象的 Hash
func (r *Reader) Hash() types.Hash { return r.hash }

// State 返回当前已完成的最远阶段
func (r *Reader) State() State {
	switch {
	case r.entries.ok():
		return StateEntriesParsed
	case r.records.ok():
		return StateRecordsParsed
	case r.header.ok():
		return StateHeaderParsed
	case r.decoded.ok():
		return StateDecompressed
	case r.raw.ok():
		return StateRawLoaded
	default:
		return StateUnread
	}
}

func (r *Reader) loadRaw(ctx context.Context) ([]byte, error) {
	return r.raw.get(func() ([]byte, error) {
		return storage.ReadAll(ctx, r.store, r.hash)
	})
}

// Decode 读取并解压对象，返回 "<kind> <size>\0<content>"
func (r *Reader) Decode(ctx context.Context) ([]byte, error) {
	return r.decoded.get(func() ([]byte, error) {
		raw, err := r.loadRaw(ctx)
		if err != nil {
			return nil, err
		}
		out, err := r.codec.Decompress(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: object %s: %w", core.ErrDecode, r.hash, err)
		}
		return out, nil
	})
}

// Header 解析头部，并校验声明长度与实际 body 长度
func (r *Reader) Header(ctx context.Context) (core.Header, error) {
	return r.header.get(func() (core.Header, error) {
		data, err := r.Decode(ctx)
		if err != nil {
			return core.Header{}, err
		}
		h, err := core.ParseHeader(data)
		if err != nil {
			return core.Header{}, fmt.Errorf("object %s: %w", r.hash, err)
		}
		if err := h.Check(h.Body(data)); err != nil {
			return core.Header{}, fmt.Errorf("object %s: %w", r.hash, err)
		}
		return h, nil
	})
}

// Kind 返回头部记录的类型
func (r *Reader) Kind(ctx context.Context) (core.Kind, error) {
	h, err := r.Header(ctx)
	if err != nil {
		return "", err
	}
	return h.Kind, nil
}

// DeclaredSize 返回头部声明的 body 长度
func (r *Reader) DeclaredSize(ctx context.Context) (uint64, error) {
	h, err := r.Header(ctx)
	if err != nil {
		return 0, err
	}
	return h.Size, nil
}

// Body 返回头部之后的原始字节，二进制安全
func (r *Reader) Body(ctx context.Context) ([]byte, error) {
	h, err := r.Header(ctx)
	if err != nil {
		return nil, err
	}
	data, err := r.Decode(ctx)
	if err != nil {
		return nil, err
	}
	return h.Body(data), nil
}

// TextRecords 把解压数据按 NUL 切分，第一段是头部 "<kind> <size>"
// 仅对 blob/commit 有效；不要求内容是 UTF-8
func (r *Reader) TextRecords(ctx context.Context) ([]Record, error) {
	return r.records.get(func() ([]Record, error) {
		h, err := r.Header(ctx)
		if err != nil {
			return nil, err
		}
		if h.Kind != core.KindBlob && h.Kind != core.KindCommit {
			return nil, fmt.Errorf("object %s: %w", r.hash, core.InvalidType(h.Kind, "text records"))
		}
		data, err := r.Decode(ctx)
		if err != nil {
			return nil, err
		}

		parts := bytes.Split(data, []byte{0})
		records := make([]Record, len(parts))
		for i, p := range parts {
			records[i] = Record(p)
		}
		return records, nil
	})
}

// Entries 解析 tree 对象的条目，仅对 tree 有效
func (r *Reader) Entries(ctx context.Context) ([]core.TreeEntry, error) {
	return r.entries.get(func() ([]core.TreeEntry, error) {
		h, err := r.Header(ctx)
		if err != nil {
			return nil, err
		}
		if h.Kind != core.KindTree {
			return nil, fmt.Errorf("object %s: %w", r.hash, core.InvalidType(h.Kind, "entries"))
		}
		body, err := r.Body(ctx)
		if err != nil {
			return nil, err
		}
		entries, err := core.ParseEntries(body)
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", r.hash, err)
		}
		return entries, nil
	})
}

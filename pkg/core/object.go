package core

import "tinygit/pkg/types"

// Kind 定义了对象头部记录的类型
type Kind string

const (
	KindBlob   Kind = "blob"   // 文件内容
	KindTree   Kind = "tree"   // 目录树
	KindCommit Kind = "commit" // 版本快照
)

func (k Kind) String() string { return string(k) }

// Valid 只接受三种可写入的类型
func (k Kind) Valid() bool {
	switch k {
	case KindBlob, KindTree, KindCommit:
		return true
	}
	return false
}

// ParseKind 把用户输入 (比如 --type 参数) 转换为 Kind
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", invalidType("unsupported object kind %q", s)
	}
	return k, nil
}

// Object 是存储层可以持久化的对象
type Object interface {
	// Kind 返回对象类型
	Kind() Kind

	// ID 返回对象的哈希值，对象创建后不可变
	ID() types.Hash

	// Bytes 返回落盘的数据 (压缩后的 header+content)
	Bytes() []byte
}

// Loose 是一个已经密封的松散对象：Hash 与压缩数据都已计算完毕
type Loose struct {
	kind       Kind
	hash       types.Hash
	compressed []byte
}

// NewLoose 组装一个松散对象，调用方保证 hash 与 compressed 一致
func NewLoose(kind Kind, hash types.Hash, compressed []byte) *Loose {
	return &Loose{kind: kind, hash: hash, compressed: compressed}
}

func (o *Loose) Kind() Kind     { return o.kind }
func (o *Loose) ID() types.Hash { return o.hash }
func (o *Loose) Bytes() []byte  { return o.compressed }
func (o *Loose) Size() int64    { return int64(len(o.compressed)) }

// pkg/types/common.go
package types

import "encoding/hex"

// HashLen 是 SHA-1 十六进制表示的长度
const HashLen = 40

// Hash 代表对象的唯一标识符 (SHA-1 Hex String)
// 这是一个“值对象”，应当是不可变的。
type Hash string

func (h Hash) String() string { return string(h) }

func (h Hash) IsZero() bool { return h == "" }

// IsValid 要求 40 个小写十六进制字符
func (h Hash) IsValid() bool {
	if len(h) != HashLen {
		return false
	}
	for i := 0; i < len(h); i++ {
		c := h[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// Prefix 返回分片目录名 (前 2 个字符)
func (h Hash) Prefix() string {
	if len(h) < 2 {
		return ""
	}
	return string(h[:2])
}

// Suffix 返回分片目录下的文件名
func (h Hash) Suffix() string {
	if len(h) < 2 {
		return ""
	}
	return string(h[2:])
}

// Bytes 返回 20 字节的原始摘要
func (h Hash) Bytes() ([]byte, error) {
	return hex.DecodeString(string(h))
}

// HashFromBytes 把原始摘要渲染为小写 Hex
func HashFromBytes(b []byte) Hash {
	return Hash(hex.EncodeToString(b))
}

// HashPrefix 是用户输入的短哈希 (例如 "c268")
type HashPrefix string

func (p HashPrefix) String() string { return string(p) }

// IsFull 表示前缀本身已经是完整的 Hash，无需展开
func (p HashPrefix) IsFull() bool { return Hash(p).IsValid() }

package core

import (
	"crypto/sha1"
	"encoding/hex"

	"tinygit/pkg/types"
)

// HashOf 计算对象的 Hash: sha1("<kind> <len>\0" + content)
// 纯函数，不做 I/O
func HashOf(kind Kind, content []byte) types.Hash {
	h := sha1.New()
	h.Write(BuildHeader(kind, len(content)))
	h.Write(content)
	return types.Hash(hex.EncodeToString(h.Sum(nil)))
}

// Envelope 返回 header+content，即被压缩落盘的原文
func Envelope(kind Kind, content []byte) []byte {
	header := BuildHeader(kind, len(content))
	out := make([]byte, 0, len(header)+len(content))
	out = append(out, header...)
	return append(out, content...)
}

package core

import (
	"crypto/sha1"
	"encoding/hex"
	"testing"

	"tinygit/pkg/types"

	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// 辅助工具
// -----------------------------------------------------------------------------

// mockHash 生成一个合法的 20 字节 Hex 字符串 (40字符长度)
func mockHash(input string) types.Hash {
	sum := sha1.Sum([]byte(input))
	return types.Hash(hex.EncodeToString(sum[:]))
}

// rawEntry 手工拼出一条 tree 记录，不经过 BuildEntries
func rawEntry(mode, name string, hash types.Hash) []byte {
	raw, _ := hex.DecodeString(string(hash))
	out := []byte(mode + " " + name + "\x00")
	return append(out, raw...)
}

func mustBuildEntries(t *testing.T, entries []TreeEntry) []byte {
	t.Helper()
	body, err := BuildEntries(entries)
	require.NoError(t, err)
	return body
}

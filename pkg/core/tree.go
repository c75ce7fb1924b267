package core

import (
	"bytes"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"tinygit/pkg/types"
)

// rawHashLen 是 tree 条目里二进制摘要的固定宽度
const rawHashLen = 20

// TreeEntry 是 tree 对象中的一条记录
type TreeEntry struct {
	Mode uint32
	Name string
	Hash types.Hash // 子对象 Hash (40 位小写 Hex)
}

// Kind 返回 mode 的分类
func (e TreeEntry) Kind() EntryKind { return ClassifyMode(e.Mode) }

// IsDir 目录在排序时按 "name/" 比较
func (e TreeEntry) IsDir() bool { return e.Mode == ModeDirectory }

// ParseEntries 解析 tree body
// 每条记录: "<mode> <name>\0<20 字节摘要>"，重复直到 body 耗尽
// 任何结构错误都会丢弃整个列表，不返回部分结果
func ParseEntries(body []byte) ([]TreeEntry, error) {
	var entries []TreeEntry

	offset := 0
	for offset < len(body) {
		rest := body[offset:]

		// 1. mode: 直到下一个空格
		sp := bytes.IndexByte(rest, ' ')
		if sp < 0 {
			return nil, truncated(offset, "mode is not terminated by a space")
		}
		mode, err := parseMode(rest[:sp])
		if err != nil {
			return nil, err
		}
		rest = rest[sp+1:]

		// 2. name: 直到下一个 NUL，NUL 被消费
		nul := bytes.IndexByte(rest, 0)
		if nul < 0 {
			return nil, truncated(offset, "name is not terminated by NUL")
		}
		if nul == 0 {
			return nil, formatError("entry at offset %d has an empty name", offset)
		}
		name := string(rest[:nul])
		rest = rest[nul+1:]

		// 3. 摘要: 固定 20 字节，按二进制处理，绝不当作文本
		if len(rest) < rawHashLen {
			return nil, truncated(offset, "entry %q needs %d hash bytes, %d remain", name, rawHashLen, len(rest))
		}
		hash := types.Hash(hex.EncodeToString(rest[:rawHashLen]))

		entries = append(entries, TreeEntry{Mode: mode, Name: name, Hash: hash})
		offset += sp + 1 + nul + 1 + rawHashLen
	}

	return entries, nil
}

func parseMode(text []byte) (uint32, error) {
	if len(text) == 0 {
		return 0, formatError("empty entry mode")
	}
	for _, c := range text {
		if c < '0' || c > '9' {
			return 0, formatError("entry mode %q is not numeric", text)
		}
	}
	mode, err := strconv.ParseUint(string(text), 10, 32)
	if err != nil {
		return 0, formatError("entry mode %q out of range", text)
	}
	return uint32(mode), nil
}

// BuildEntries 是 ParseEntries 的逆操作，按给定顺序拼接
func BuildEntries(entries []TreeEntry) ([]byte, error) {
	var buf bytes.Buffer
	for _, e := range entries {
		if e.Name == "" {
			return nil, formatError("tree entry has an empty name")
		}
		if strings.IndexByte(e.Name, 0) >= 0 {
			return nil, formatError("tree entry name %q contains NUL", e.Name)
		}
		if !e.Hash.IsValid() {
			return nil, formatError("tree entry %q has invalid hash %q", e.Name, e.Hash)
		}
		raw, err := e.Hash.Bytes()
		if err != nil {
			return nil, formatError("tree entry %q: %v", e.Name, err)
		}

		buf.WriteString(strconv.FormatUint(uint64(e.Mode), 10))
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(raw)
	}
	return buf.Bytes(), nil
}

// SortEntries 按 git 的规范顺序排序 (目录名视为带 "/" 后缀)
// 保证同一目录内容总是得到同一个 tree Hash
func SortEntries(entries []TreeEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return sortKey(entries[i]) < sortKey(entries[j])
	})
}

func sortKey(e TreeEntry) string {
	if e.IsDir() {
		return e.Name + "/"
	}
	return e.Name
}

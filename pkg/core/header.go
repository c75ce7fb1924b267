package core

import (
	"bytes"
	"fmt"
	"strconv"
)

// Header 是松散对象解压后的前导部分: "<kind> <size>\0"
type Header struct {
	Kind   Kind
	Size   uint64 // 头部声明的 body 长度
	Offset int    // body 在解压数据中的起始位置 (NUL 之后)
}

// BuildHeader 构造 "<kind> <n>\0"
func BuildHeader(kind Kind, n int) []byte {
	buf := make([]byte, 0, len(kind)+22)
	buf = append(buf, kind...)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(n), 10)
	return append(buf, 0)
}

// ParseHeader 解析解压数据开头的头部
// 前缀中必须恰好有一个空格，kind 非空，size 为十进制无符号整数
func ParseHeader(data []byte) (Header, error) {
	nul := bytes.IndexByte(data, 0)
	if nul < 0 {
		return Header{}, formatError("header has no NUL terminator")
	}
	prefix := data[:nul]

	sp := bytes.IndexByte(prefix, ' ')
	if sp < 0 {
		return Header{}, formatError("header %q has no space", prefix)
	}
	if sp == 0 {
		return Header{}, formatError("header %q has an empty kind", prefix)
	}

	// ParseUint 会拒绝第二个空格、符号和空串
	sizeText := string(prefix[sp+1:])
	size, err := strconv.ParseUint(sizeText, 10, 64)
	if err != nil {
		return Header{}, formatError("header size %q is not a non-negative integer", sizeText)
	}

	return Header{
		Kind:   Kind(prefix[:sp]),
		Size:   size,
		Offset: nul + 1,
	}, nil
}

// Body 返回头部之后的内容
func (h Header) Body(data []byte) []byte {
	return data[h.Offset:]
}

// Check 校验声明长度与实际 body 长度一致
func (h Header) Check(body []byte) error {
	if h.Size != uint64(len(body)) {
		return fmt.Errorf("%w: header declares %d bytes, body has %d", ErrCorruptObject, h.Size, len(body))
	}
	return nil
}

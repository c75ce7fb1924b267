package core

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat 头部或条目的语法不合法
	ErrFormat = errors.New("malformed object")
	// ErrCorruptObject 头部声明的长度与实际 body 不一致
	ErrCorruptObject = errors.New("corrupt object")
	// ErrInvalidType 操作对当前对象类型无效 (例如对 blob 列出条目)
	ErrInvalidType = errors.New("invalid object type")
	// ErrTruncatedEntry tree body 在某个条目中途结束
	ErrTruncatedEntry = errors.New("truncated tree entry")
	// ErrDecode 压缩流无法解开
	ErrDecode = errors.New("decode failed")
)

func formatError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, args...))
}

func invalidType(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidType, fmt.Sprintf(format, args...))
}

func truncated(offset int, format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrTruncatedEntry, offset, fmt.Sprintf(format, args...))
}

// InvalidType 供其他包构造带上下文的 ErrInvalidType
func InvalidType(got Kind, op string) error {
	return invalidType("%s is not valid for %s objects", op, got)
}

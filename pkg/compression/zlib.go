package compression

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ErrCompression 压缩流格式错误或编码失败
var ErrCompression = errors.New("compression error")

// Codec 封装松散对象使用的 zlib 编解码
// 零值可用，Level 为 0 时使用 zlib.DefaultCompression
type Codec struct {
	Level int
}

// NewCodec 校验压缩级别
func NewCodec(level int) (*Codec, error) {
	if level < zlib.HuffmanOnly || level > zlib.BestCompression {
		return nil, fmt.Errorf("%w: invalid zlib level %d", ErrCompression, level)
	}
	return &Codec{Level: level}, nil
}

func (c *Codec) level() int {
	if c == nil || c.Level == 0 {
		return zlib.DefaultCompression
	}
	return c.Level
}

// Compress 返回 data 的 zlib 流
func (c *Codec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, c.level())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompression, err)
	}
	if _, err := zw.Write(data); err != nil {
		_ = zw.Close()
		return nil, fmt.Errorf("%w: write: %v", ErrCompression, err)
	}
	// Close 负责写入 Adler-32 校验尾
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: close: %v", ErrCompression, err)
	}
	return buf.Bytes(), nil
}

// Decompress 完整解开一个 zlib 流，校验和错误也会报告
func (c *Codec) Decompress(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompression, err)
	}
	out, err := io.ReadAll(zr)
	if err != nil {
		_ = zr.Close()
		return nil, fmt.Errorf("%w: inflate: %v", ErrCompression, err)
	}
	if err := zr.Close(); err != nil {
		return nil, fmt.Errorf("%w: close: %v", ErrCompression, err)
	}
	return out, nil
}

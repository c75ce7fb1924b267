package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"tinygit/pkg/core"
	"tinygit/pkg/storage"
	"tinygit/pkg/types"
)

// Adapter 实现了 storage.Store 接口
type Adapter struct {
	rootPath string // 比如: /home/user/project/.git/objects
}

// NewAdapter 创建一个新的磁盘存储适配器
func NewAdapter(root string) (*Adapter, error) {
	// 确保根目录存在
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root storage dir: %w", err)
	}
	return &Adapter{rootPath: root}, nil
}

// Root 返回对象目录
func (s *Adapter) Root() string { return s.rootPath }

// layout 返回哈希对应的物理路径
// 策略：使用前 2 个字符作为子目录 (Sharding)
// Example: hash "aabbcc..." -> root/aa/bbcc...
func (s *Adapter) layout(hash types.Hash) (string, error) {
	dir, file, err := storage.ShardKey(hash)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.rootPath, dir, file), nil
}

// Locate 返回对象文件的路径，文件不存在时返回 storage.ErrNotFound
func (s *Adapter) Locate(hash types.Hash) (string, error) {
	p, err := s.layout(hash)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", storage.ErrNotFound, hash)
		}
		return "", err
	}
	return p, nil
}

func (s *Adapter) Put(ctx context.Context, obj core.Object) error {
	targetPath, err := s.layout(obj.ID())
	if err != nil {
		return err
	}

	// 1. 检查是否存在 (幂等性)
	if _, err := os.Stat(targetPath); err == nil {
		return nil // 已经存在，直接跳过 (CAS 的好处)
	}

	// 2. 准备目录，并发创建时 MkdirAll 对已存在的目录返回 nil
	dir := filepath.Dir(targetPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("object write mkdir: %w", err)
	}

	// 3. 原子写入 (Atomic Write)
	// 先写到同目录的临时文件，再 Rename，读者不会看到写了一半的对象
	tempFile, err := os.CreateTemp(dir, "tmp_obj_*")
	if err != nil {
		return fmt.Errorf("object write tmpfile: %w", err)
	}
	// Rename 成功后这个删除是无害的
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(obj.Bytes()); err != nil {
		tempFile.Close()
		return fmt.Errorf("object write: %w", err)
	}
	if err := tempFile.Close(); err != nil { // 必须先关闭才能 Rename
		return fmt.Errorf("object write close: %w", err)
	}

	// 松散对象是只读的
	if err := os.Chmod(tempFile.Name(), 0444); err != nil {
		return fmt.Errorf("object write chmod: %w", err)
	}

	// 4. 移动到最终位置
	if err := os.Rename(tempFile.Name(), targetPath); err != nil {
		// 另一个写者抢先完成了，内容必然相同
		if _, statErr := os.Stat(targetPath); statErr == nil {
			return nil
		}
		return fmt.Errorf("object write rename: %w", err)
	}

	return nil
}

func (s *Adapter) Get(ctx context.Context, hash types.Hash) (io.ReadCloser, error) {
	targetPath, err := s.layout(hash)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(targetPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, hash)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Adapter) Has(ctx context.Context, hash types.Hash) (bool, error) {
	targetPath, err := s.layout(hash)
	if err != nil {
		return false, nil
	}
	_, err = os.Stat(targetPath)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// ExpandHash 在分片目录中查找唯一匹配前缀的对象
func (s *Adapter) ExpandHash(ctx context.Context, short types.HashPrefix) (types.Hash, error) {
	if err := storage.CheckPrefix(short); err != nil {
		return "", err
	}
	prefix := string(short)

	dirEntries, err := os.ReadDir(filepath.Join(s.rootPath, prefix[:2]))
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", storage.ErrNotFound, short)
	}
	if err != nil {
		return "", err
	}

	var match types.Hash
	for _, de := range dirEntries {
		// 跳过未完成的临时文件
		if de.IsDir() || !strings.HasPrefix(de.Name(), prefix[2:]) {
			continue
		}
		candidate := types.Hash(prefix[:2] + de.Name())
		if !candidate.IsValid() {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("%w: %s", storage.ErrAmbiguousHash, short)
		}
		match = candidate
	}

	if match == "" {
		return "", fmt.Errorf("%w: %s", storage.ErrNotFound, short)
	}
	return match, nil
}

package treebuilder

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sync"

	"tinygit/pkg/core"
	"tinygit/pkg/ignore"
	"tinygit/pkg/object"
	"tinygit/pkg/types"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Builder 把一个目录快照为 tree 对象
type Builder struct {
	writer  *object.Writer
	matcher *ignore.Matcher
	log     *zap.Logger

	// DryRun 为 true 时只计算 Hash，不落盘
	DryRun bool
	// Concurrency 是同一层目录里并发写 blob 的上限
	Concurrency int
}

func NewBuilder(writer *object.Writer, matcher *ignore.Matcher, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		writer:      writer,
		matcher:     matcher,
		log:         log,
		Concurrency: runtime.NumCPU(),
	}
}

// Build 自底向上处理 root，返回根树的 Hash
// 空的子目录不产生条目，根目录为空时得到空树
func (b *Builder) Build(ctx context.Context, root string) (types.Hash, error) {
	info, err := os.Stat(root)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", root)
	}
	entries, err := b.buildDir(ctx, root, "")
	if err != nil {
		return "", err
	}
	return b.storeTree(ctx, entries)
}

// buildDir 返回 dir 这一层排好序的条目
// rel 是相对 root 的斜杠路径，用于忽略规则匹配
func (b *Builder) buildDir(ctx context.Context, dir, rel string) ([]core.TreeEntry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		entries []core.TreeEntry
	)
	add := func(e core.TreeEntry) {
		mu.Lock()
		entries = append(entries, e)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(b.Concurrency, 1))

	for _, item := range items {
		name := item.Name()
		relPath := path.Join(rel, name)
		if b.matcher.Matches(relPath) {
			b.log.Debug("ignored", zap.String("path", relPath))
			continue
		}
		full := filepath.Join(dir, name)

		switch {
		case item.IsDir():
			// 子目录串行递归，避免占满并发槽位
			children, err := b.buildDir(ctx, full, relPath)
			if err != nil {
				return nil, err
			}
			if len(children) == 0 {
				continue
			}
			h, err := b.storeTree(ctx, children)
			if err != nil {
				return nil, err
			}
			add(core.TreeEntry{Mode: core.ModeDirectory, Name: name, Hash: h})

		case item.Type()&os.ModeSymlink != 0:
			target, err := os.Readlink(full)
			if err != nil {
				return nil, err
			}
			h, err := b.storeBlob(ctx, []byte(target))
			if err != nil {
				return nil, err
			}
			add(core.TreeEntry{Mode: core.ModeSymlink, Name: name, Hash: h})

		case item.Type().IsRegular():
			info, err := item.Info()
			if err != nil {
				return nil, err
			}
			mode := core.ModeRegular
			if info.Mode().Perm()&0o111 != 0 {
				mode = core.ModeExecutable
			}
			g.Go(func() error {
				data, err := os.ReadFile(full)
				if err != nil {
					return err
				}
				h, err := b.storeBlob(gctx, data)
				if err != nil {
					return fmt.Errorf("%s: %w", relPath, err)
				}
				add(core.TreeEntry{Mode: mode, Name: name, Hash: h})
				return nil
			})

		default:
			b.log.Warn("skipping special file", zap.String("path", relPath))
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	core.SortEntries(entries)
	return entries, nil
}

func (b *Builder) storeBlob(ctx context.Context, data []byte) (types.Hash, error) {
	if b.DryRun {
		return b.writer.Hash(core.KindBlob, data)
	}
	return b.writer.Write(ctx, core.KindBlob, data)
}

func (b *Builder) storeTree(ctx context.Context, entries []core.TreeEntry) (types.Hash, error) {
	if b.DryRun {
		return b.writer.HashTree(entries)
	}
	return b.writer.WriteTree(ctx, entries)
}

package printer

import (
	"context"
	"fmt"
	"io"

	"tinygit/pkg/core"
	"tinygit/pkg/object"
)

// Contents 打印对象内容
// blob/commit 打印按 NUL 切分后的第二段，tree 每个条目打印一行
func Contents(ctx context.Context, r *object.Reader, w io.Writer) error {
	kind, err := r.Kind(ctx)
	if err != nil {
		return err
	}

	switch kind {
	case core.KindBlob, core.KindCommit:
		return printRecord(ctx, r, w)
	case core.KindTree:
		return printTree(ctx, r, w)
	default:
		return fmt.Errorf("object %s: %w", r.Hash(), core.InvalidType(kind, "show contents"))
	}
}

// printRecord 原样写出字节，不假设内容是 UTF-8
func printRecord(ctx context.Context, r *object.Reader, w io.Writer) error {
	records, err := r.TextRecords(ctx)
	if err != nil {
		return err
	}
	// 头部本身带一个 NUL，所以至少有两段
	if len(records) < 2 {
		return fmt.Errorf("object %s: %w", r.Hash(), core.ErrFormat)
	}
	if _, err := w.Write(records[1]); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

func printTree(ctx context.Context, r *object.Reader, w io.Writer) error {
	entries, err := r.Entries(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, FormatEntry(e)); err != nil {
			return err
		}
	}
	return nil
}

// FormatEntry 模拟 git ls-tree 的输出格式
func FormatEntry(e core.TreeEntry) string {
	return fmt.Sprintf("%06d %s %s\t%s", e.Mode, e.Kind().ObjectKind(), e.Hash, e.Name)
}

// Type 打印 "<kind> object"
func Type(ctx context.Context, r *object.Reader, w io.Writer) error {
	kind, err := r.Kind(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s object\n", kind)
	return err
}

// Size 打印头部声明的大小
func Size(ctx context.Context, r *object.Reader, w io.Writer) error {
	size, err := r.DeclaredSize(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, size)
	return err
}

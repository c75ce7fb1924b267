package core

// tree 条目中的 mode 以十进制 ASCII 存储，这里按同样的数值保存
const (
	ModeRegular    uint32 = 100644
	ModeExecutable uint32 = 100755
	ModeDirectory  uint32 = 40000
	ModeSymlink    uint32 = 120000
	ModeSubmodule  uint32 = 160000
)

// EntryKind 是 mode 的分类结果，集合是封闭的
// 未知 mode 归为 EntryOther，原始数值仍保留在 TreeEntry.Mode 中
type EntryKind int

const (
	EntryOther EntryKind = iota
	EntryRegularFile
	EntryExecutable
	EntryDirectory
	EntrySymlink
	EntrySubmodule
)

// ClassifyMode 把 mode 映射到 EntryKind，从不拒绝
func ClassifyMode(mode uint32) EntryKind {
	switch mode {
	case ModeRegular:
		return EntryRegularFile
	case ModeExecutable:
		return EntryExecutable
	case ModeDirectory:
		return EntryDirectory
	case ModeSymlink:
		return EntrySymlink
	case ModeSubmodule:
		return EntrySubmodule
	default:
		return EntryOther
	}
}

func (k EntryKind) String() string {
	switch k {
	case EntryRegularFile:
		return "regular-file"
	case EntryExecutable:
		return "executable-file"
	case EntryDirectory:
		return "directory"
	case EntrySymlink:
		return "symlink"
	case EntrySubmodule:
		return "submodule"
	default:
		return "other"
	}
}

// ObjectKind 返回子对象的类型，和 git ls-tree 的第二列一致
func (k EntryKind) ObjectKind() Kind {
	switch k {
	case EntryRegularFile, EntryExecutable, EntrySymlink:
		return KindBlob
	case EntryDirectory:
		return KindTree
	case EntrySubmodule:
		return KindCommit
	default:
		return Kind("unknown")
	}
}

package ignore

import (
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFile 是用户自定义忽略规则的文件名
const IgnoreFile = ".tgignore"

// Matcher 判断一个路径在 store-tree 时是否应该跳过
type Matcher struct {
	ignorer *gitignore.GitIgnore
}

// NewMatcher 初始化忽略匹配器
// rootPath: 被快照的目录 (用于查找 .tgignore)
func NewMatcher(rootPath string) (*Matcher, error) {
	// 默认规则强制生效
	defaultRules := []string{
		".git",     // 对象库本身，否则会把自己写进树里
		".tinygit", // 本地配置目录
		IgnoreFile,

		".DS_Store",
		"Thumbs.db",
	}

	ignoreFilePath := filepath.Join(rootPath, IgnoreFile)

	var (
		ignorer *gitignore.GitIgnore
		err     error
	)
	if _, errStat := os.Stat(ignoreFilePath); errStat == nil {
		ignorer, err = gitignore.CompileIgnoreFileAndLines(ignoreFilePath, defaultRules...)
		if err != nil {
			return nil, err
		}
	} else {
		ignorer = gitignore.CompileIgnoreLines(defaultRules...)
	}

	return &Matcher{ignorer: ignorer}, nil
}

// Matches 检查相对路径 (斜杠分隔，例如 "data/model.bin") 是否应被忽略
// 目录可以带尾部斜杠，匹配前会去掉
func (m *Matcher) Matches(path string) bool {
	if m == nil || m.ignorer == nil {
		return false
	}
	path = strings.TrimSuffix(filepath.ToSlash(path), "/")
	if path == "" || path == "." {
		return false
	}
	return m.ignorer.MatchesPath(path)
}

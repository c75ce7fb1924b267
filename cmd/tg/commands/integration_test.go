package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tinygit/pkg/core"
	"tinygit/pkg/storage"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupIntegrationEnv 准备一个临时工作目录，返回它和对象目录
func setupIntegrationEnv(t *testing.T) (string, string) {
	t.Helper()
	viper.Reset()
	tmpDir := t.TempDir()
	chdir(t, tmpDir)
	return tmpDir, filepath.Join(tmpDir, ".git", "objects")
}

// run 执行一次 CLI，返回 stdout
func run(t *testing.T, objects string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--storage-path", objects}, args...))
	err := cmd.Execute()
	if TG != nil {
		_ = TG.Close()
		TG = nil
	}
	return out.String(), err
}

func mustRun(t *testing.T, objects string, args ...string) string {
	t.Helper()
	out, err := run(t, objects, args...)
	require.NoError(t, err, "tg %s", strings.Join(args, " "))
	return out
}

func TestIntegration_StoreAndShow(t *testing.T) {
	tmpDir, objects := setupIntegrationEnv(t)

	out := mustRun(t, objects, "init")
	assert.Contains(t, out, "Initialized empty object directory")
	assert.DirExists(t, objects)

	// 5 字节的文件
	file := filepath.Join(tmpDir, "hello.txt")
	require.NoError(t, os.WriteFile(file, []byte("hello"), 0644))

	hash := strings.TrimSpace(mustRun(t, objects, "store-object", "--write", file))
	assert.Equal(t, core.HashOf(core.KindBlob, []byte("hello")).String(), hash)
	assert.FileExists(t, filepath.Join(objects, hash[:2], hash[2:]))

	assert.Equal(t, "blob object\n", mustRun(t, objects, "show-object", "--type", hash))
	assert.Equal(t, "5\n", mustRun(t, objects, "show-object", "--size", hash))
	assert.Equal(t, "hello\n", mustRun(t, objects, "show-object", "-p", hash))

	// 缩写 Hash
	assert.Equal(t, "5\n", mustRun(t, objects, "show-object", "-s", hash[:7]))
}

func TestIntegration_StoreWithoutWrite(t *testing.T) {
	tmpDir, objects := setupIntegrationEnv(t)

	file := filepath.Join(tmpDir, "hoge.txt")
	require.NoError(t, os.WriteFile(file, []byte("hoge"), 0644))

	hash := strings.TrimSpace(mustRun(t, objects, "store-object", file))
	assert.Equal(t, "c2684e0321eedff1890b7690c89726387d2af3ca", hash)
	assert.NoFileExists(t, filepath.Join(objects, hash[:2], hash[2:]))

	_, err := run(t, objects, "show-object", "-t", hash)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_StoreObjectKind(t *testing.T) {
	tmpDir, objects := setupIntegrationEnv(t)

	file := filepath.Join(tmpDir, "msg")
	require.NoError(t, os.WriteFile(file, []byte("tree 4b825dc642cb6eb9a060e54bf8d69288fbee4904\n\ninit"), 0644))

	hash := strings.TrimSpace(mustRun(t, objects, "store-object", "-t", "commit", "-w", file))
	assert.Equal(t, "commit object\n", mustRun(t, objects, "show-object", "-t", hash))

	_, err := run(t, objects, "store-object", "-t", "tag", file)
	assert.ErrorIs(t, err, core.ErrInvalidType)
}

func TestIntegration_StoreTree(t *testing.T) {
	tmpDir, objects := setupIntegrationEnv(t)

	work := filepath.Join(tmpDir, "work")
	require.NoError(t, os.MkdirAll(filepath.Join(work, "dir"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(work, "a.txt"), []byte("hoge"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(work, "dir", "b.txt"), []byte("fuga"), 0644))

	dry := strings.TrimSpace(mustRun(t, objects, "store-tree", work))
	hash := strings.TrimSpace(mustRun(t, objects, "store-tree", "--write", work))
	assert.Equal(t, dry, hash)

	out := mustRun(t, objects, "show-object", "-p", hash)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "100644 blob c2684e0321eedff1890b7690c89726387d2af3ca\ta.txt", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "040000 tree "))
	assert.True(t, strings.HasSuffix(lines[1], "\tdir"))
}

func TestIntegration_Errors(t *testing.T) {
	_, objects := setupIntegrationEnv(t)
	mustRun(t, objects, "init")

	missing := core.HashOf(core.KindBlob, []byte("missing")).String()

	tests := []struct {
		name string
		args []string
	}{
		{"no mode flag", []string{"show-object", missing}},
		{"two mode flags", []string{"show-object", "-t", "-s", missing}},
		{"no argument", []string{"show-object", "-t"}},
		{"missing object", []string{"show-object", "-t", missing}},
		{"unknown prefix", []string{"show-object", "-t", "abcd"}},
		{"missing file", []string{"store-object", "does-not-exist"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, objects, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestIntegration_CorruptObject(t *testing.T) {
	_, objects := setupIntegrationEnv(t)

	// 直接写一个不是 zlib 的文件
	hash := core.HashOf(core.KindBlob, []byte("x")).String()
	require.NoError(t, os.MkdirAll(filepath.Join(objects, hash[:2]), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(objects, hash[:2], hash[2:]), []byte("not zlib"), 0644))

	_, err := run(t, objects, "show-object", "-t", hash)
	assert.ErrorIs(t, err, core.ErrDecode)
}

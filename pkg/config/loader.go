package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load 初始化 Viper 配置
// cfgFile: 可选，用户显式指定的配置文件路径
// 返回实际使用的配置文件 (没找到时为空)，由调用方决定是否记日志
func Load(cfgFile string) (string, error) {
	// 1. 设置默认值 (Defaults)
	setDefaults()

	// 2. 配置搜索路径
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}

		// 搜索顺序：当前目录 -> .git -> ~/.tinygit
		viper.AddConfigPath(".")
		viper.AddConfigPath(".git")
		viper.AddConfigPath(filepath.Join(home, ".tinygit"))

		viper.SetConfigType("yaml")
		viper.SetConfigName("tinygit") // 找 tinygit.yaml
	}

	// 3. 读取环境变量 (TG_STORAGE_PATH 等)
	viper.SetEnvPrefix("TG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 4. 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		// 只是没找到配置文件不算错，格式错才是错
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("fatal error config file: %w", err)
	}

	return viper.ConfigFileUsed(), nil
}

func setDefaults() {
	// 存储默认值
	wd, _ := os.Getwd()
	viper.SetDefault("storage.path", filepath.Join(wd, ".git", "objects"))
	viper.SetDefault("storage.type", "disk")

	viper.SetDefault("s3.region", "us-east-1")
	viper.SetDefault("s3.key_prefix", "")

	// 缓存默认关闭
	viper.SetDefault("cache.redis_url", "")
	viper.SetDefault("cache.ttl", 24*time.Hour)
	viper.SetDefault("cache.lru_size", 0)

	viper.SetDefault("compression.level", 0)

	viper.SetDefault("log.level", "warn")
	viper.SetDefault("log.format", "console")
}

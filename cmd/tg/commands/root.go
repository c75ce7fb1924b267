package commands

import (
	"fmt"

	"tinygit/pkg/app"
	"tinygit/pkg/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// TG 是全局应用实例，由 PersistentPreRunE 初始化，供子命令使用
var TG *app.App

// NewRootCmd 每次构造一棵新的命令树，测试可以反复执行而不共享 flag 状态
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:           "tg",
		Short:         "tinygit: git loose-object plumbing",
		SilenceUsage:  true,
		SilenceErrors: true,
		// PersistentPreRunE 会在所有子命令执行前运行
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			used, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			// init 只需要配置，它就是去创建对象目录的
			if cmd.Name() == "init" {
				return nil
			}

			TG, err = app.NewApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize tinygit: %w", err)
			}
			TG.Log.Debug("config loaded",
				zap.String("file", used),
				zap.String("storage", viper.GetString("storage.type")))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if TG == nil {
				return nil
			}
			err := TG.Close()
			TG = nil
			return err
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./tinygit.yaml, .git/tinygit.yaml or ~/.tinygit/tinygit.yaml)")

	// 既可以在 yaml 里写，也可以用命令行覆盖
	flags.String("storage-path", "", "directory holding loose objects")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("storage.path", flags.Lookup("storage-path"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))

	rootCmd.AddCommand(
		newInitCmd(),
		newShowObjectCmd(),
		newStoreObjectCmd(),
		newStoreTreeCmd(),
	)
	return rootCmd
}

// Execute 是入口
func Execute() error {
	err := NewRootCmd().Execute()
	// 命令失败时 PersistentPostRunE 不会执行
	if TG != nil {
		_ = TG.Close()
		TG = nil
	}
	return err
}

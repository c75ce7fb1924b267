package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an empty object directory",
		Long:  `Create the loose-object directory (storage.path, default .git/objects) if it does not exist yet.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if viper.GetString("storage.type") == "s3" {
				return fmt.Errorf("init only applies to disk storage")
			}
			objectsPath := viper.GetString("storage.path")

			if info, err := os.Stat(objectsPath); err == nil && info.IsDir() {
				fmt.Fprintf(cmd.OutOrStdout(), "Reinitialized existing object directory in %s\n", objectsPath)
				return nil
			}

			if err := os.MkdirAll(objectsPath, 0755); err != nil {
				return fmt.Errorf("failed to create object directory: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty object directory in %s\n", objectsPath)
			return nil
		},
	}
}

package commands

import (
	"fmt"
	"os"

	"tinygit/pkg/core"
	"tinygit/pkg/types"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newStoreObjectCmd() *cobra.Command {
	var (
		kindName string
		write    bool
	)

	cmd := &cobra.Command{
		Use:   "store-object [-t <kind>] [-w] <file>",
		Short: "Compute the object hash of a file and optionally store it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := core.ParseKind(kindName)
			if err != nil {
				return err
			}

			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			var hash types.Hash
			if write {
				hash, err = TG.Writer.Write(cmd.Context(), kind, content)
			} else {
				hash, err = TG.Writer.Hash(kind, content)
			}
			if err != nil {
				return err
			}

			TG.Log.Info("store-object",
				zap.String("file", args[0]),
				zap.String("hash", hash.String()),
				zap.Bool("written", write))
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindName, "type", "t", string(core.KindBlob), "object kind (blob, tree, commit)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the object into the object directory")
	return cmd
}

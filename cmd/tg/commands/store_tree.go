package commands

import (
	"fmt"

	"tinygit/pkg/ignore"
	"tinygit/pkg/treebuilder"

	"github.com/spf13/cobra"
)

func newStoreTreeCmd() *cobra.Command {
	var (
		write bool
		jobs  int
	)

	cmd := &cobra.Command{
		Use:   "store-tree [-w] [dir]",
		Short: "Hash a directory into tree objects",
		Long:  `Snapshot a directory as blob and tree objects and print the root tree hash. Paths matched by .tgignore are skipped.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			matcher, err := ignore.NewMatcher(dir)
			if err != nil {
				return fmt.Errorf("load ignore rules: %w", err)
			}

			b := treebuilder.NewBuilder(TG.Writer, matcher, TG.Log.Named("tree"))
			b.DryRun = !write
			if jobs > 0 {
				b.Concurrency = jobs
			}

			hash, err := b.Build(cmd.Context(), dir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the objects into the object directory")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "max concurrent blob writes per directory (default: number of CPUs)")
	return cmd
}

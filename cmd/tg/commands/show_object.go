package commands

import (
	"tinygit/pkg/printer"

	"github.com/spf13/cobra"
)

func newShowObjectCmd() *cobra.Command {
	var showContents, showType, showSize bool

	cmd := &cobra.Command{
		Use:   "show-object (-p | -t | -s) <object>",
		Short: "Show content, type or size of a stored object",
		Long: `Read a loose object by hash (full, or an unambiguous prefix of at least 4 characters).
  -p  blob/commit: print the content; tree: one "<mode> <kind> <hash>\t<name>" line per entry
  -t  print "<kind> object"
  -s  print the size declared in the object header`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			hash, err := TG.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			r := TG.Reader(hash)
			out := cmd.OutOrStdout()

			switch {
			case showType:
				return printer.Type(ctx, r, out)
			case showSize:
				return printer.Size(ctx, r, out)
			default:
				return printer.Contents(ctx, r, out)
			}
		},
	}

	cmd.Flags().BoolVarP(&showContents, "hash", "p", false, "pretty-print object content")
	cmd.Flags().BoolVarP(&showType, "type", "t", false, "show object type")
	cmd.Flags().BoolVarP(&showSize, "size", "s", false, "show object size")
	cmd.MarkFlagsMutuallyExclusive("hash", "type", "size")
	cmd.MarkFlagsOneRequired("hash", "type", "size")
	return cmd
}

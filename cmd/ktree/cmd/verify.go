package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	ktree "github.com/hupe1980/ktreego"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <tree_file>",
		Short: "Check the invariants of a persisted k-tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := ktree.LoadFromFile(args[0])
			if err != nil {
				return err
			}
			defer tree.Close()

			if err := tree.Verify(); err != nil {
				return err
			}

			stats := tree.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d vectors, %d nodes (%d leaves), height %d\n",
				stats.Objects, stats.Nodes, stats.Leaves, stats.Height)
			return nil
		},
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	ktree "github.com/hupe1980/ktreego"
	"github.com/hupe1980/ktreego/codec"
)

func newDumpCmd() *cobra.Command {
	var codecName string

	cmd := &cobra.Command{
		Use:   "dump <tree_file>",
		Short: "Print a persisted k-tree as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ok := codec.ByName(codecName)
			if !ok {
				return fmt.Errorf("unknown codec %q", codecName)
			}

			tree, err := ktree.LoadFromFile(args[0])
			if err != nil {
				return err
			}
			defer tree.Close()

			data, err := tree.Export(c)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&codecName, "codec", codec.Default.Name(), "Dump codec: json or go-json")

	return cmd
}

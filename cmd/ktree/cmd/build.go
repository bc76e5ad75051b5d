package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hupe1980/ktreego/loader"
	"github.com/hupe1980/ktreego/persistence"
)

func newBuildCmd() *cobra.Command {
	var compression string

	cmd := &cobra.Command{
		Use:   "build <in_file> <tree_order> <out_file>",
		Short: "Build a k-tree from a vector file",
		Long: `Build reads an ASCII file of vectors (one per line, whitespace
separated, dimensionality fixed by the first line), clusters them into a
k-tree of the given order, and writes the tree to out_file.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("tree order must be an integer: %w", err)
			}

			c, err := parseCompression(compression)
			if err != nil {
				return err
			}

			logger := buildLogger()
			tree, n, err := loader.BuildFile(cmd.Context(), args[0], order, loader.WithLogger(logger))
			if err != nil {
				return err
			}
			defer tree.Close()

			if err := tree.SaveToFile(args[2], c); err != nil {
				return err
			}

			stats := tree.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "built tree: %d vectors, %d nodes, height %d, %d splits\n",
				n, stats.Nodes, stats.Height, stats.Splits)
			return nil
		},
	}

	cmd.Flags().StringVar(&compression, "compression", "none", "Compression codec: none, zstd or lz4")

	return cmd
}

func parseCompression(name string) (persistence.Compression, error) {
	switch name {
	case "none", "":
		return persistence.CompressionNone, nil
	case "zstd":
		return persistence.CompressionZstd, nil
	case "lz4":
		return persistence.CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression codec %q", name)
	}
}

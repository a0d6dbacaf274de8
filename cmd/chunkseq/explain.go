package main

import (
	"fmt"

	"chunkseq/chunked"
	"chunkseq/spliter"
	"chunkseq/stream"

	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Show how a chunked range is partitioned for parallel traversal",
	Long: `Chunk the integers [0, --count) by --size and split the result --depth
levels deep, the way a parallel evaluation would, printing the split tree.`,
	Args: cobra.NoArgs,
	RunE: runExplain,
}

func init() {
	f := explainCmd.Flags()
	f.Int("count", 20, "number of integers in the range")
	f.IntP("size", "n", 0, "maximum chunk size (default from config)")
	f.Int("depth", 2, "maximum split depth")
	f.Bool("contents", false, "list the chunks produced by every part")
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("size") {
		cfg.ChunkSize, _ = f.GetInt("size")
	}
	count, _ := f.GetInt("count")
	depth, _ := f.GetInt("depth")
	contents, _ := f.GetBool("contents")

	c, err := chunked.New[int](spliter.Range(0, count), cfg.ChunkSize)
	if err != nil {
		return err
	}
	var tree string
	if contents {
		tree = stream.ExplainContents[[]int](c, depth)
	} else {
		tree = stream.Explain[[]int](c, depth)
	}
	fmt.Fprint(cmd.OutOrStdout(), tree)
	return nil
}

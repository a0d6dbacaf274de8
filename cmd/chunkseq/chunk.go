package main

import (
	"bufio"
	"io"
	"iter"
	"os"
	"strings"
	"sync/atomic"

	"chunkseq/spliter"
	"chunkseq/stream"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var chunkCmd = &cobra.Command{
	Use:   "chunk [file]",
	Short: "Print input lines grouped into chunks, one chunk per line",
	Long: `Read lines from file, or stdin when no file is given, and print them in
chunks of at most --size lines. The lines of a chunk are joined by --separator.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChunk,
}

func init() {
	f := chunkCmd.Flags()
	f.IntP("size", "n", 0, "maximum chunk size (default from config: 100)")
	f.StringP("separator", "s", "", "separator between the elements of a chunk")
	f.Bool("parallel", false, "split the input and chunk the parts concurrently")
	f.Int("workers", 0, "parallel workers (default GOMAXPROCS)")
	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("size") {
		cfg.ChunkSize, _ = f.GetInt("size")
	}
	if f.Changed("separator") {
		cfg.Separator, _ = f.GetString("separator")
	}
	if f.Changed("parallel") {
		cfg.Parallel, _ = f.GetBool("parallel")
	}
	if f.Changed("workers") {
		cfg.Workers, _ = f.GetInt("workers")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	name := "stdin"
	if len(args) == 1 {
		file, err := os.Open(args[0])
		if err != nil {
			return errors.Wrap(err, "open input")
		}
		defer file.Close()
		in, name = file, args[0]
	}
	scanner := bufio.NewScanner(in)

	var lines *stream.Stream[string]
	if cfg.Parallel {
		// Lines are pulled in growing batches so the parts can be chunked concurrently.
		lines = stream.FromSeq(scanLines(scanner))
		opts := []stream.Option{stream.WithContext(cmd.Context())}
		if cfg.Workers > 0 {
			opts = append(opts, stream.WithWorkers(cfg.Workers))
		}
		if cfg.MaxDepth >= 0 {
			opts = append(opts, stream.WithMaxDepth(cfg.MaxDepth))
		}
		lines.Parallel(opts...)
	} else {
		lines = stream.Of[string](spliter.FromFunc[string](func() (string, error) {
			if scanner.Scan() {
				return scanner.Text(), nil
			}
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}))
	}

	var total atomic.Int64
	lines = lines.Peek(func(string) { total.Add(1) })
	chunks, err := stream.Chunked(lines, cfg.ChunkSize)
	if err != nil {
		return err
	}
	log.Debug("chunking", "input", name, "size", cfg.ChunkSize, "parallel", cfg.Parallel)

	// bufio.Writer keeps the first write error and reports it again from Flush.
	out := bufio.NewWriter(cmd.OutOrStdout())
	var count int64
	emit := func(chunk []string) {
		count++
		_, _ = out.WriteString(strings.Join(chunk, cfg.Separator))
		_ = out.WriteByte('\n')
	}

	err = emitChunks(chunks, cfg.Parallel, emit)
	if ferr := out.Flush(); ferr != nil && err == nil {
		err = errors.Wrap(ferr, "write output")
	}
	if err == nil && cfg.Parallel {
		err = scanner.Err()
	}
	if err != nil {
		return errors.Wrapf(err, "chunk %s", name)
	}

	log.Info("chunked input",
		"input", name,
		"lines", humanize.Comma(total.Load()),
		"chunks", humanize.Comma(count),
		"size", cfg.ChunkSize)
	return nil
}

// emitChunks passes every chunk to emit in input order. Parallel streams are
// collected first since their parts finish out of order.
func emitChunks(chunks *stream.Stream[[]string], parallel bool, emit func([]string)) error {
	if !parallel {
		return chunks.ForEach(emit)
	}
	all, err := chunks.Collect()
	if err != nil {
		return err
	}
	for _, chunk := range all {
		emit(chunk)
	}
	return nil
}

// scanLines adapts scanner to an iterator. Scan errors end the sequence and are
// left for the caller to read from scanner.Err.
func scanLines(scanner *bufio.Scanner) iter.Seq[string] {
	return func(yield func(string) bool) {
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}
}

// Package stream composes spliterators into lazy pipelines that can be evaluated
// sequentially or in parallel.
//
// Intermediate operations wrap the underlying spliter.Spliterator and keep it
// splittable where order can be preserved. Parallel evaluation partitions the
// pipeline with TrySplit, traverses the parts on a bounded set of goroutines and
// reassembles results in encounter order.
//
//	s, err := stream.Chunked(stream.FromSlice(ids).Parallel(), 100)
//	if err != nil {
//		return err
//	}
//	batches, err := s.Collect()
//
// A Stream is single use: running a terminal operation consumes it.
package stream

import (
	"context"
	"iter"
	"math/bits"
	"runtime"

	"chunkseq/chunked"
	"chunkseq/spliter"
)

type config struct {
	ctx      context.Context
	workers  int
	maxDepth int
}

// Option configures parallel evaluation.
type Option func(*config)

// WithContext sets the context checked between pulls. Cancelling it stops the
// traversal and the terminal operation returns ctx.Err().
func WithContext(ctx context.Context) Option {
	if ctx == nil {
		panic("chunkseq.WithContext: context cannot be nil")
	}
	return func(c *config) {
		c.ctx = ctx
	}
}

// WithWorkers bounds the number of goroutines traversing parts concurrently.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n < 1 {
			n = 1
		}
		c.workers = n
	}
}

// WithMaxDepth bounds how many times the pipeline is split recursively. A depth
// of d yields at most 2^d parts.
func WithMaxDepth(d int) Option {
	return func(c *config) {
		if d < 0 {
			d = 0
		}
		c.maxDepth = d
	}
}

func defaultConfig() config {
	return config{ctx: context.Background(), workers: runtime.GOMAXPROCS(0), maxDepth: -1}
}

func (c config) depth() int {
	if c.maxDepth >= 0 {
		return c.maxDepth
	}
	return bits.Len(uint(c.workers)) + 2
}

// Stream is a lazy pipeline over a spliterator.
type Stream[T any] struct {
	src      spliter.Spliterator[T]
	parallel bool
	cfg      config
}

// Of returns a sequential stream over src.
func Of[T any](src spliter.Spliterator[T]) *Stream[T] {
	return &Stream[T]{src: src, cfg: defaultConfig()}
}

func FromSlice[T any](values []T) *Stream[T] {
	return Of[T](spliter.FromSlice(values))
}

func FromSeq[T any](seq iter.Seq[T]) *Stream[T] {
	return Of[T](spliter.FromSeq(seq))
}

// Parallel marks the stream for parallel evaluation.
func (s *Stream[T]) Parallel(opts ...Option) *Stream[T] {
	s.parallel = true
	for _, opt := range opts {
		opt(&s.cfg)
	}
	return s
}

// Sequential marks the stream for evaluation on the calling goroutine.
func (s *Stream[T]) Sequential() *Stream[T] {
	s.parallel = false
	return s
}

func (s *Stream[T]) IsParallel() bool {
	return s.parallel
}

// Spliterator returns the pipeline as a spliterator, for callers that want to
// drive the traversal themselves.
func (s *Stream[T]) Spliterator() spliter.Spliterator[T] {
	return s.src
}

func derive[T, R any](s *Stream[T], src spliter.Spliterator[R]) *Stream[R] {
	return &Stream[R]{src: src, parallel: s.parallel, cfg: s.cfg}
}

// Chunked groups the elements of s into chunks of at most max elements.
func Chunked[T any](s *Stream[T], max int) (*Stream[[]T], error) {
	c, err := chunked.New(s.src, max)
	if err != nil {
		return nil, err
	}
	return derive[T, []T](s, c), nil
}

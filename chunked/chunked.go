// Package chunked groups the elements of a spliter.Spliterator into ordered,
// bounded chunks.
//
// A Chunker is itself a spliter.Spliterator of []T, so it can be traversed with
// TryAdvance, split for parallel traversal, nested, or composed by the stream
// package. Every chunk except possibly the last holds exactly MaxChunkSize
// elements; the last holds between 1 and MaxChunkSize. Concatenating all chunks
// reproduces the source order.
package chunked

import (
	"chunkseq/queues"
	"chunkseq/spliter"

	"github.com/pkg/errors"
)

// initialChunkCap bounds the capacity reserved for a new pending chunk, so a very
// large chunk size does not allocate ahead of the elements that fill it.
const initialChunkCap = 1 << 10

var (
	// ErrInvalidChunkSize is returned by New when the chunk size is below 1.
	ErrInvalidChunkSize = errors.New("chunkseq: chunk size must be at least 1")
	// ErrNilSource is returned by New when the source is nil.
	ErrNilSource = errors.New("chunkseq: source cannot be nil")
)

// Chunker adapts a source spliterator into a spliterator of chunks.
//
// A Chunker is not safe for concurrent use. Use TrySplit to obtain independent
// Chunkers that can be traversed on other goroutines.
type Chunker[T any] struct {
	src     spliter.Spliterator[T]
	max     int
	pending []T               // chunk under accumulation, nil when absent
	ready   *queues.FIFO[[]T] // sealed chunks awaiting emission
	push    func(T)
}

// New returns a Chunker over src emitting chunks of at most max elements.
func New[T any](src spliter.Spliterator[T], max int) (*Chunker[T], error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if max < 1 {
		return nil, errors.Wrapf(ErrInvalidChunkSize, "got %d", max)
	}
	c := &Chunker[T]{src: src, max: max, ready: queues.NewFIFO[[]T](1)}
	c.push = c.add
	return c, nil
}

func (c *Chunker[T]) add(v T) {
	if c.pending == nil {
		c.pending = make([]T, 0, min(c.max, initialChunkCap))
	}
	c.pending = append(c.pending, v)
	if len(c.pending) == c.max {
		c.ready.Push(c.pending)
		c.pending = nil
	}
}

// TryAdvance pulls from the source until one chunk is complete, or the source is
// exhausted, and passes that chunk to action. It never pulls more elements than
// needed to fill the chunk it returns.
func (c *Chunker[T]) TryAdvance(action func([]T)) bool {
	for c.src.TryAdvance(c.push) {
		if chunk, ok := c.ready.Pop(); ok {
			action(chunk)
			return true
		}
	}
	if chunk, ok := c.ready.Pop(); ok {
		action(chunk)
		return true
	}
	// A failed source leaves a partial chunk that is never emitted.
	if len(c.pending) > 0 && spliter.Err(c.src) == nil {
		chunk := c.pending
		c.pending = nil
		action(chunk)
		return true
	}
	c.pending = nil
	c.ready.Release()
	return false
}

// TrySplit splits the source and wraps the split-off part in a new Chunker with
// the same chunk size. Buffered elements stay with the receiver.
func (c *Chunker[T]) TrySplit() spliter.Spliterator[[]T] {
	split := c.src.TrySplit()
	if split == nil {
		return nil
	}
	sibling, _ := New(split, c.max)
	return sibling
}

// EstimateSize returns the number of sealed chunks waiting to be emitted. It is a
// lower bound, not an estimate of the remaining chunk count.
func (c *Chunker[T]) EstimateSize() int64 {
	return int64(c.ready.Len())
}

// Characteristics returns the source's characteristics unchanged.
func (c *Chunker[T]) Characteristics() spliter.Characteristics {
	return c.src.Characteristics()
}

// Err returns the source's traversal failure, if any.
func (c *Chunker[T]) Err() error {
	return spliter.Err(c.src)
}

// Stop releases the source if it holds resources, such as the goroutine behind
// spliter.FromSeq, and drops any buffered elements.
func (c *Chunker[T]) Stop() {
	spliter.Stop(c.src)
	c.pending = nil
	c.ready.Release()
}

// MaxChunkSize returns the chunk size bound given to New.
func (c *Chunker[T]) MaxChunkSize() int {
	return c.max
}

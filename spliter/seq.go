package spliter

import (
	"io"
	"iter"

	"github.com/pkg/errors"
)

const (
	batchUnit = 1 << 10
	maxBatch  = 1 << 25
)

// SeqSpliterator pulls from a Go iterator. It has no size information; splitting
// buffers a growing batch from the head of the sequence into a slice spliterator.
type SeqSpliterator[T any] struct {
	next  func() (T, bool)
	stop  func()
	batch int
	done  bool
}

// FromSeq returns a spliterator over seq. The iterator is pulled lazily from a
// separate goroutine owned by iter.Pull; it is released when the sequence is
// exhausted or Stop is called.
func FromSeq[T any](seq iter.Seq[T]) *SeqSpliterator[T] {
	next, stop := iter.Pull(seq)
	return &SeqSpliterator[T]{next: next, stop: stop}
}

func (s *SeqSpliterator[T]) TryAdvance(action func(T)) bool {
	if s.done {
		return false
	}
	v, ok := s.next()
	if !ok {
		s.Stop()
		return false
	}
	action(v)
	return true
}

// TrySplit moves the next batch of elements into a new slice spliterator. Batches
// grow by batchUnit on every split, so later splits carry more work.
func (s *SeqSpliterator[T]) TrySplit() Spliterator[T] {
	if s.done {
		return nil
	}
	n := min(s.batch+batchUnit, maxBatch)
	buf := make([]T, 0, n)
	for len(buf) < n {
		v, ok := s.next()
		if !ok {
			s.Stop()
			break
		}
		buf = append(buf, v)
	}
	if len(buf) == 0 {
		return nil
	}
	s.batch = n
	return FromSlice(buf)
}

func (s *SeqSpliterator[T]) EstimateSize() int64 {
	if s.done {
		return 0
	}
	return UnknownSize
}

func (s *SeqSpliterator[T]) Characteristics() Characteristics {
	return Ordered
}

// Stop releases the underlying iterator. Further pulls report exhaustion.
func (s *SeqSpliterator[T]) Stop() {
	if !s.done {
		s.done = true
		s.stop()
	}
}

// FetchFunc pulls one element. It returns io.EOF when the source is exhausted.
type FetchFunc[T any] func() (T, error)

// FuncSpliterator adapts a fallible fetch function. It cannot split.
type FuncSpliterator[T any] struct {
	fetch FetchFunc[T]
	err   error
	done  bool
}

// FromFunc returns a spliterator calling fetch for each element. io.EOF ends the
// traversal cleanly; any other error ends it and is reported by Err unchanged.
func FromFunc[T any](fetch FetchFunc[T]) *FuncSpliterator[T] {
	if fetch == nil {
		panic("chunkseq.FromFunc: fetch cannot be nil")
	}
	return &FuncSpliterator[T]{fetch: fetch}
}

func (f *FuncSpliterator[T]) TryAdvance(action func(T)) bool {
	if f.done {
		return false
	}
	v, err := f.fetch()
	if err != nil {
		f.done = true
		if !errors.Is(err, io.EOF) {
			f.err = err
		}
		return false
	}
	action(v)
	return true
}

func (f *FuncSpliterator[T]) TrySplit() Spliterator[T] {
	return nil
}

func (f *FuncSpliterator[T]) EstimateSize() int64 {
	if f.done {
		return 0
	}
	return UnknownSize
}

func (f *FuncSpliterator[T]) Characteristics() Characteristics {
	return Ordered
}

// Err returns the first non-EOF error returned by fetch.
func (f *FuncSpliterator[T]) Err() error {
	return f.err
}

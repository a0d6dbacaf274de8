package stream

import (
	"context"
	"iter"
	"sync"

	"chunkseq/spliter"
)

// ctxCheckInterval is how many elements are pulled between context checks.
const ctxCheckInterval = 64

// Partition splits s recursively up to depth levels and returns the parts in
// encounter order. s itself becomes the last part.
func Partition[T any](s spliter.Spliterator[T], depth int) []spliter.Spliterator[T] {
	if depth <= 0 {
		return []spliter.Spliterator[T]{s}
	}
	prefix := s.TrySplit()
	if prefix == nil {
		return []spliter.Spliterator[T]{s}
	}
	return append(Partition(prefix, depth-1), Partition(s, depth-1)...)
}

// drain traverses part, calling action for each element, until it is exhausted,
// fails, or ctx is done. part is stopped on return.
func drain[T any](ctx context.Context, part spliter.Spliterator[T], action func(T)) error {
	defer spliter.Stop(part)
	for n := 1; part.TryAdvance(action); n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
	if err := spliter.Err(part); err != nil {
		return err
	}
	return ctx.Err()
}

// run evaluates fn once per part. Sequential streams use a single part on the
// calling goroutine; parallel streams fan parts out to at most cfg.workers
// goroutines. The first error in encounter order is returned.
func (s *Stream[T]) run(fn func(i int, part spliter.Spliterator[T]) error) (int, error) {
	if !s.parallel {
		return 1, fn(0, s.src)
	}
	parts := Partition(s.src, s.cfg.depth())
	if len(parts) == 1 {
		return 1, fn(0, parts[0])
	}

	errs := make([]error, len(parts))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(s.cfg.workers, len(parts)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				errs[i] = fn(i, parts[i])
			}
		}()
	}
	for i := range parts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return len(parts), err
		}
	}
	return len(parts), nil
}

// Collect gathers all elements in encounter order.
func (s *Stream[T]) Collect() ([]T, error) {
	if !s.parallel {
		var out []T
		err := drain(s.cfg.ctx, s.src, func(v T) { out = append(out, v) })
		return out, err
	}

	var (
		mu      sync.Mutex
		results = map[int][]T{}
	)
	n, err := s.run(func(i int, part spliter.Spliterator[T]) error {
		var out []T
		err := drain(s.cfg.ctx, part, func(v T) { out = append(out, v) })
		mu.Lock()
		results[i] = out
		mu.Unlock()
		return err
	})
	if err != nil {
		return nil, err
	}
	var out []T
	for i := 0; i < n; i++ {
		out = append(out, results[i]...)
	}
	return out, nil
}

// Count returns the number of elements.
func (s *Stream[T]) Count() (int64, error) {
	var (
		mu    sync.Mutex
		total int64
	)
	_, err := s.run(func(_ int, part spliter.Spliterator[T]) error {
		var n int64
		err := drain(s.cfg.ctx, part, func(T) { n++ })
		mu.Lock()
		total += n
		mu.Unlock()
		return err
	})
	return total, err
}

// ForEach calls action for every element. On a parallel stream action is called
// concurrently from several goroutines and in no particular order across parts.
func (s *Stream[T]) ForEach(action func(T)) error {
	_, err := s.run(func(_ int, part spliter.Spliterator[T]) error {
		return drain(s.cfg.ctx, part, action)
	})
	return err
}

// Seq returns a sequential iterator over the stream regardless of the parallel flag.
// A traversal failure ends the iteration; use Seq2 to observe it.
// Breaking out of the loop early stops the source.
func (s *Stream[T]) Seq() iter.Seq[T] {
	seq := spliter.Seq(s.src)
	return func(yield func(T) bool) {
		defer spliter.Stop(s.src)
		seq(yield)
	}
}

// Seq2 is like Seq but yields a final error pair if the source failed.
func (s *Stream[T]) Seq2() iter.Seq2[T, error] {
	seq := spliter.Seq2(s.src)
	return func(yield func(T, error) bool) {
		defer spliter.Stop(s.src)
		seq(yield)
	}
}

package stream

import "chunkseq/spliter"

// wrapped forwards the traversal failure and the release of the wrapped
// spliterator.
type wrapped[T any] struct {
	inner spliter.Spliterator[T]
}

func (w wrapped[T]) Err() error {
	return spliter.Err(w.inner)
}

func (w wrapped[T]) Stop() {
	spliter.Stop(w.inner)
}

type mapSpliterator[T, R any] struct {
	wrapped[T]
	fn func(T) R
}

func (m *mapSpliterator[T, R]) TryAdvance(action func(R)) bool {
	return m.inner.TryAdvance(func(v T) { action(m.fn(v)) })
}

func (m *mapSpliterator[T, R]) TrySplit() spliter.Spliterator[R] {
	split := m.inner.TrySplit()
	if split == nil {
		return nil
	}
	return &mapSpliterator[T, R]{wrapped: wrapped[T]{split}, fn: m.fn}
}

func (m *mapSpliterator[T, R]) EstimateSize() int64 { return m.inner.EstimateSize() }

func (m *mapSpliterator[T, R]) Characteristics() spliter.Characteristics {
	return m.inner.Characteristics() &^ (spliter.Distinct | spliter.Sorted)
}

// Map applies fn to every element. fn may run concurrently on a parallel stream.
func Map[T, R any](s *Stream[T], fn func(T) R) *Stream[R] {
	return derive[T, R](s, &mapSpliterator[T, R]{wrapped: wrapped[T]{s.src}, fn: fn})
}

type filterSpliterator[T any] struct {
	wrapped[T]
	pred func(T) bool
}

func (f *filterSpliterator[T]) TryAdvance(action func(T)) bool {
	for {
		matched := false
		if !f.inner.TryAdvance(func(v T) {
			if f.pred(v) {
				matched = true
				action(v)
			}
		}) {
			return false
		}
		if matched {
			return true
		}
	}
}

func (f *filterSpliterator[T]) TrySplit() spliter.Spliterator[T] {
	split := f.inner.TrySplit()
	if split == nil {
		return nil
	}
	return &filterSpliterator[T]{wrapped: wrapped[T]{split}, pred: f.pred}
}

// EstimateSize is an upper bound.
func (f *filterSpliterator[T]) EstimateSize() int64 { return f.inner.EstimateSize() }

func (f *filterSpliterator[T]) Characteristics() spliter.Characteristics {
	return f.inner.Characteristics() &^ (spliter.Sized | spliter.Subsized)
}

// Filter keeps the elements satisfying pred.
func (s *Stream[T]) Filter(pred func(T) bool) *Stream[T] {
	return derive[T, T](s, &filterSpliterator[T]{wrapped: wrapped[T]{s.src}, pred: pred})
}

// Peek calls action on every element as it passes through.
func (s *Stream[T]) Peek(action func(T)) *Stream[T] {
	return Map(s, func(v T) T {
		action(v)
		return v
	})
}

type flatSpliterator[T, R any] struct {
	wrapped[T]
	fn  func(T) []R
	buf []R
}

func (f *flatSpliterator[T, R]) TryAdvance(action func(R)) bool {
	for len(f.buf) == 0 {
		if !f.inner.TryAdvance(func(v T) { f.buf = f.fn(v) }) {
			return false
		}
	}
	v := f.buf[0]
	f.buf = f.buf[1:]
	action(v)
	return true
}

// TrySplit refuses while elements of an expanded value are still buffered, since
// they precede everything the split would hand out.
func (f *flatSpliterator[T, R]) TrySplit() spliter.Spliterator[R] {
	if len(f.buf) > 0 {
		return nil
	}
	split := f.inner.TrySplit()
	if split == nil {
		return nil
	}
	return &flatSpliterator[T, R]{wrapped: wrapped[T]{split}, fn: f.fn}
}

func (f *flatSpliterator[T, R]) EstimateSize() int64 { return spliter.UnknownSize }

func (f *flatSpliterator[T, R]) Characteristics() spliter.Characteristics {
	return f.inner.Characteristics() & (spliter.Ordered | spliter.Immutable | spliter.Infinite)
}

// FlatMap replaces every element with the elements of fn's result.
func FlatMap[T, R any](s *Stream[T], fn func(T) []R) *Stream[R] {
	return derive[T, R](s, &flatSpliterator[T, R]{wrapped: wrapped[T]{s.src}, fn: fn})
}

// Flatten concatenates chunks back into elements.
func Flatten[T any](s *Stream[[]T]) *Stream[T] {
	return FlatMap(s, func(chunk []T) []T { return chunk })
}

type limitSpliterator[T any] struct {
	wrapped[T]
	remaining int64
}

func (l *limitSpliterator[T]) TryAdvance(action func(T)) bool {
	if l.remaining <= 0 {
		return false
	}
	if !l.inner.TryAdvance(action) {
		return false
	}
	l.remaining--
	return true
}

// TrySplit never splits: which elements fall under the limit depends on the
// whole prefix, so a limited pipeline is always traversed sequentially.
func (l *limitSpliterator[T]) TrySplit() spliter.Spliterator[T] { return nil }

func (l *limitSpliterator[T]) EstimateSize() int64 {
	return min(l.remaining, l.inner.EstimateSize())
}

func (l *limitSpliterator[T]) Characteristics() spliter.Characteristics {
	return l.inner.Characteristics() &^ spliter.Infinite
}

// Limit truncates the stream to at most n elements. The source is pulled only as
// far as needed, so Limit makes infinite sources finite.
func (s *Stream[T]) Limit(n int64) *Stream[T] {
	if n < 0 {
		n = 0
	}
	return derive[T, T](s, &limitSpliterator[T]{wrapped: wrapped[T]{s.src}, remaining: n})
}

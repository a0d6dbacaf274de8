package spliter

import "cmp"

const sliceTraits = Ordered | Sized | Subsized | Immutable

// SliceSpliterator traverses a slice without copying it.
type SliceSpliterator[T any] struct {
	values []T
	index  int // next element to yield
	end    int // one past the last element owned
	traits Characteristics
}

// FromSlice returns a splittable spliterator over values. The slice must not be
// modified while it is being traversed.
func FromSlice[T any](values []T) *SliceSpliterator[T] {
	return &SliceSpliterator[T]{values: values, end: len(values), traits: sliceTraits}
}

// Of returns a splittable spliterator over the given values.
func Of[T any](values ...T) *SliceSpliterator[T] {
	return FromSlice(values)
}

// FromSorted is like FromSlice but also reports the Sorted and Distinct traits.
// The caller guarantees values are strictly increasing.
func FromSorted[T cmp.Ordered](values []T) *SliceSpliterator[T] {
	s := FromSlice(values)
	s.traits |= Sorted | Distinct
	return s
}

func (s *SliceSpliterator[T]) TryAdvance(action func(T)) bool {
	if s.index >= s.end {
		return false
	}
	v := s.values[s.index]
	s.index++
	action(v)
	return true
}

// TrySplit hands the first half of the remaining elements to a new spliterator.
func (s *SliceSpliterator[T]) TrySplit() Spliterator[T] {
	lo, mid := s.index, s.index+(s.end-s.index)/2
	if lo >= mid {
		return nil
	}
	s.index = mid
	return &SliceSpliterator[T]{values: s.values, index: lo, end: mid, traits: s.traits}
}

func (s *SliceSpliterator[T]) EstimateSize() int64 {
	return int64(s.end - s.index)
}

func (s *SliceSpliterator[T]) Characteristics() Characteristics {
	return s.traits
}

// RangeSpliterator yields the integers of a half-open interval.
type RangeSpliterator struct {
	next, end int
}

// Range returns a splittable spliterator over [start, end).
func Range(start, end int) *RangeSpliterator {
	if end < start {
		end = start
	}
	return &RangeSpliterator{next: start, end: end}
}

func (r *RangeSpliterator) TryAdvance(action func(int)) bool {
	if r.next >= r.end {
		return false
	}
	v := r.next
	r.next++
	action(v)
	return true
}

func (r *RangeSpliterator) TrySplit() Spliterator[int] {
	lo, mid := r.next, r.next+(r.end-r.next)/2
	if lo >= mid {
		return nil
	}
	r.next = mid
	return &RangeSpliterator{next: lo, end: mid}
}

func (r *RangeSpliterator) EstimateSize() int64 {
	return int64(r.end - r.next)
}

func (r *RangeSpliterator) Characteristics() Characteristics {
	return sliceTraits | Sorted | Distinct
}

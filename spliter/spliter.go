// Package spliter defines the pull-based, optionally splittable source contract
// used throughout chunkseq, together with concrete sources over slices, integer
// ranges, generators, Go iterators and fallible fetch functions.
//
// A Spliterator is traversed by repeated calls to TryAdvance. Sources that can be
// partitioned implement TrySplit: on success the receiver keeps the suffix of its
// remaining elements and the returned Spliterator owns the prefix. The two halves
// share no mutable state and may be traversed on different goroutines.
package spliter

import (
	"iter"
	"math"
	"strings"
)

// UnknownSize is reported by EstimateSize when the remaining element count is
// unknown, too expensive to compute, or infinite.
const UnknownSize int64 = math.MaxInt64

// Spliterator is a single-pass, pull-based sequence of T.
//
// A Spliterator is not safe for concurrent use.
type Spliterator[T any] interface {
	// TryAdvance passes the next element to action and reports whether one existed.
	TryAdvance(action func(T)) bool
	// TrySplit partitions the remaining elements. It returns nil when the
	// source cannot or will not split.
	TrySplit() Spliterator[T]
	// EstimateSize returns a best-effort count of remaining elements.
	EstimateSize() int64
	// Characteristics returns the traversal traits of this source.
	Characteristics() Characteristics
}

// Failer is implemented by sources whose traversal can fail. TryAdvance returns
// false on failure and Err reports the cause.
type Failer interface {
	Err() error
}

// Err returns the traversal failure of s, or nil if s cannot fail or has not failed.
func Err[T any](s Spliterator[T]) error {
	if f, ok := s.(Failer); ok {
		return f.Err()
	}
	return nil
}

// Stopper is implemented by sources that hold resources until they are
// exhausted, such as the goroutine behind FromSeq.
type Stopper interface {
	Stop()
}

// Stop releases the resources held by s, if it is a Stopper. It is safe to
// call more than once.
func Stop[T any](s Spliterator[T]) {
	if st, ok := s.(Stopper); ok {
		st.Stop()
	}
}

// Characteristics is a set of traversal traits.
type Characteristics uint16

const (
	Ordered Characteristics = 1 << iota
	Distinct
	Sorted
	Sized
	Subsized
	Immutable
	Concurrent
	Infinite
)

var characteristicNames = []struct {
	flag Characteristics
	name string
}{
	{Ordered, "Ordered"},
	{Distinct, "Distinct"},
	{Sorted, "Sorted"},
	{Sized, "Sized"},
	{Subsized, "Subsized"},
	{Immutable, "Immutable"},
	{Concurrent, "Concurrent"},
	{Infinite, "Infinite"},
}

// Has reports whether all flags in f are set in c.
func (c Characteristics) Has(f Characteristics) bool {
	return c&f == f
}

func (c Characteristics) String() string {
	if c == 0 {
		return "None"
	}
	var parts []string
	for _, n := range characteristicNames {
		if c.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Seq adapts s to a standard Go iterator. Ranging over the result consumes s.
func Seq[T any](s Spliterator[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		more := true
		for more && s.TryAdvance(func(v T) { more = yield(v) }) {
		}
	}
}

// Seq2 is like Seq but yields a final (zero, err) pair if the traversal of s failed.
func Seq2[T any](s Spliterator[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		more := true
		for more && s.TryAdvance(func(v T) { more = yield(v, nil) }) {
		}
		if !more {
			return
		}
		if err := Err(s); err != nil {
			var zero T
			yield(zero, err)
		}
	}
}

package chunked_test

import (
	"errors"
	"io"
	"math"
	"math/rand"
	"slices"
	"sync"
	"sync/atomic"
	"testing"

	"chunkseq/chunked"
	"chunkseq/spliter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain[T any](s spliter.Spliterator[T]) []T {
	var out []T
	for s.TryAdvance(func(v T) { out = append(out, v) }) {
	}
	return out
}

func mustNew[T any](t testing.TB, src spliter.Spliterator[T], max int) *chunked.Chunker[T] {
	t.Helper()
	c, err := chunked.New(src, max)
	require.NoError(t, err)
	return c
}

// assertChunkLaw checks that all chunks but the last are full and none is empty.
func assertChunkLaw[T any](t *testing.T, chunks [][]T, max int) {
	t.Helper()
	for i, chunk := range chunks {
		require.NotEmpty(t, chunk, "chunk %d is empty", i)
		if i < len(chunks)-1 {
			require.Len(t, chunk, max, "chunk %d is not full", i)
		} else {
			require.LessOrEqual(t, len(chunk), max)
		}
	}
}

func TestNew_InvalidChunkSize(t *testing.T) {
	for _, size := range []int{0, -1, -100} {
		c, err := chunked.New[int](spliter.Of(1, 2, 3), size)
		assert.Nil(t, c)
		assert.ErrorIs(t, err, chunked.ErrInvalidChunkSize)
	}

	_, err := chunked.New[int](nil, 3)
	assert.ErrorIs(t, err, chunked.ErrNilSource)
}

func TestChunker_Grouping(t *testing.T) {
	tests := []struct {
		name  string
		input []int
		size  int
		want  [][]int
	}{
		{"Empty", nil, 100, nil},
		{"Single", []int{42}, 100, [][]int{{42}}},
		{"SingleSizeOne", []int{42}, 1, [][]int{{42}}},
		{"OddBy2", []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, 2, [][]int{{1, 2}, {3, 4}, {5, 6}, {7, 8}, {9}}},
		{"EvenBy2", []int{1, 2, 3, 4, 5, 6, 7, 8}, 2, [][]int{{1, 2}, {3, 4}, {5, 6}, {7, 8}}},
		{"EvenBy3", []int{1, 2, 3, 4, 5, 6, 7, 8}, 3, [][]int{{1, 2, 3}, {4, 5, 6}, {7, 8}}},
		{"SizeOne", []int{1, 2, 3}, 1, [][]int{{1}, {2}, {3}}},
		{"ExactFit", []int{1, 2, 3}, 3, [][]int{{1, 2, 3}}},
		{"HugeSize", []int{42}, math.MaxInt, [][]int{{42}}},
		{"LargerThanInitialCap", slices.Repeat([]int{1}, 3000), 2500, [][]int{slices.Repeat([]int{1}, 2500), slices.Repeat([]int{1}, 500)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := drain[[]int](mustNew[int](t, spliter.FromSlice(tt.input), tt.size))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChunker_RoundTrip(t *testing.T) {
	rd := rand.New(rand.NewSource(42))
	for _, n := range []int{0, 1, 2, 7, 64, 1000} {
		var input []int
		for range n {
			input = append(input, rd.Int())
		}
		for _, k := range []int{1, 2, 3, 10, 1000, 5000} {
			chunks := drain[[]int](mustNew[int](t, spliter.FromSlice(input), k))
			assertChunkLaw(t, chunks, k)
			assert.Equal(t, input, slices.Concat(chunks...), "n=%d k=%d", n, k)
		}
	}
}

func TestChunker_ExhaustedStaysExhausted(t *testing.T) {
	c := mustNew[int](t, spliter.Of(1, 2, 3), 2)
	require.Len(t, drain[[]int](c), 2)

	called := false
	assert.False(t, c.TryAdvance(func([]int) { called = true }))
	assert.False(t, called)
	assert.Zero(t, c.EstimateSize())
}

func TestChunker_ChunksAreNotReused(t *testing.T) {
	c := mustNew[int](t, spliter.Range(0, 6), 2)
	var first []int
	c.TryAdvance(func(chunk []int) { first = chunk })
	drain[[]int](c)
	assert.Equal(t, []int{0, 1}, first)
}

type countingSource struct {
	spliter.Spliterator[int]
	pulls atomic.Int64
}

func (c *countingSource) TryAdvance(action func(int)) bool {
	c.pulls.Add(1)
	return c.Spliterator.TryAdvance(action)
}

func TestChunker_InfiniteSourceIsDemandDriven(t *testing.T) {
	src := &countingSource{Spliterator: spliter.Generate(func() int { return 42 })}
	c := mustNew[int](t, src, 3)

	for i := 0; i < 100; i++ {
		require.True(t, c.TryAdvance(func(chunk []int) {
			assert.Equal(t, []int{42, 42, 42}, chunk)
		}))
	}
	assert.Equal(t, int64(300), src.pulls.Load())
}

func TestChunker_StopReleasesSource(t *testing.T) {
	var released atomic.Bool
	src := spliter.FromSeq(func(yield func(int) bool) {
		defer released.Store(true)
		for i := 0; ; i++ {
			if !yield(i) {
				return
			}
		}
	})
	c := mustNew[int](t, src, 4)
	require.True(t, c.TryAdvance(func(chunk []int) {
		assert.Equal(t, []int{0, 1, 2, 3}, chunk)
	}))

	c.Stop()
	assert.True(t, released.Load())
	assert.False(t, c.TryAdvance(func([]int) {}))
	c.Stop()
}

func TestChunker_EstimateAndCharacteristics(t *testing.T) {
	src := spliter.Range(0, 10)
	c := mustNew[int](t, src, 4)

	assert.Equal(t, src.Characteristics(), c.Characteristics())
	assert.Zero(t, c.EstimateSize())
	assert.Equal(t, 4, c.MaxChunkSize())

	gen := mustNew[int](t, spliter.Generate(func() int { return 0 }), 4)
	assert.True(t, gen.Characteristics().Has(spliter.Infinite))
}

func TestChunker_SplitUnsupported(t *testing.T) {
	i := 0
	src := spliter.FromFunc(func() (int, error) {
		if i == 5 {
			return 0, io.EOF
		}
		i++
		return i, nil
	})
	c := mustNew[int](t, src, 2)
	assert.Nil(t, c.TrySplit())
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, drain[[]int](c))
}

func TestChunker_Split(t *testing.T) {
	input := make([]int, 1000)
	for i := range input {
		input[i] = i + 1
	}

	for _, k := range []int{1, 3, 7, 64} {
		c := mustNew[int](t, spliter.FromSlice(input), k)
		prefix := c.TrySplit()
		require.NotNil(t, prefix)

		// drain the halves concurrently
		var wg sync.WaitGroup
		var left, right [][]int
		wg.Add(2)
		go func() { defer wg.Done(); left = drain(prefix) }()
		go func() { defer wg.Done(); right = drain[[]int](c) }()
		wg.Wait()

		assertChunkLaw(t, left, k)
		assertChunkLaw(t, right, k)
		assert.Equal(t, input, slices.Concat(slices.Concat(left, right)...), "k=%d", k)
	}
}

func TestChunker_SplitReverseOrderDrain(t *testing.T) {
	c := mustNew[int](t, spliter.Range(0, 50), 4)
	prefix := c.TrySplit()
	require.NotNil(t, prefix)

	right := drain[[]int](c)
	left := drain(prefix)
	assert.Equal(t, drain[int](spliter.Range(0, 50)), slices.Concat(slices.Concat(left, right)...))
}

func TestChunker_SplitMidTraversal(t *testing.T) {
	c := mustNew[int](t, spliter.Range(0, 100), 3)

	var consumed [][]int
	for i := 0; i < 5; i++ {
		c.TryAdvance(func(chunk []int) { consumed = append(consumed, chunk) })
	}
	prefix := c.TrySplit()
	require.NotNil(t, prefix)

	left := drain(prefix)
	right := drain[[]int](c)
	all := slices.Concat(consumed, left, right)
	assert.Equal(t, drain[int](spliter.Range(0, 100)), slices.Concat(all...))
	assertChunkLaw(t, left, 3)
	assertChunkLaw(t, right, 3)
}

func TestChunker_RecursiveSplit(t *testing.T) {
	var parts []spliter.Spliterator[[]int]
	var split func(s spliter.Spliterator[[]int], depth int)
	split = func(s spliter.Spliterator[[]int], depth int) {
		if depth > 0 {
			if p := s.TrySplit(); p != nil {
				split(p, depth-1)
				split(s, depth-1)
				return
			}
		}
		parts = append(parts, s)
	}
	split(mustNew[int](t, spliter.Range(0, 1000), 9), 4)
	require.Len(t, parts, 16)

	results := make([][][]int, len(parts))
	var wg sync.WaitGroup
	for i, p := range parts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = drain(p)
		}()
	}
	wg.Wait()

	var flat []int
	for _, r := range results {
		assertChunkLaw(t, r, 9)
		flat = append(flat, slices.Concat(r...)...)
	}
	assert.Equal(t, drain[int](spliter.Range(0, 1000)), flat)
}

func TestChunker_SourceFailure(t *testing.T) {
	boom := errors.New("boom")
	i := 0
	src := spliter.FromFunc(func() (int, error) {
		if i == 5 {
			return 0, boom
		}
		i++
		return i, nil
	})
	c := mustNew[int](t, src, 2)

	// the partial chunk [5] is dropped once the source fails
	assert.Equal(t, [][]int{{1, 2}, {3, 4}}, drain[[]int](c))
	assert.Same(t, boom, c.Err())
	assert.Equal(t, boom, spliter.Err[[]int](c))
}

func TestChunker_Nested(t *testing.T) {
	inner := mustNew[int](t, spliter.Range(1, 10), 2)
	outer := mustNew[[]int](t, inner, 2)

	got := drain[[][]int](outer)
	assert.Equal(t, [][][]int{
		{{1, 2}, {3, 4}},
		{{5, 6}, {7, 8}},
		{{9}},
	}, got)
}

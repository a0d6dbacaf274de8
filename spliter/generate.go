package spliter

// GenerateSpliterator is an infinite source that calls a supplier for every element.
type GenerateSpliterator[T any] struct {
	supply func() T
	// budget bounds how many more times this generator agrees to split.
	budget int64
}

// Generate returns an infinite spliterator producing supply() on every pull.
// Splitting yields two infinite generators sharing the supplier, so supply must be
// safe for concurrent use when the halves are traversed in parallel.
func Generate[T any](supply func() T) *GenerateSpliterator[T] {
	if supply == nil {
		panic("chunkseq.Generate: supplier cannot be nil")
	}
	return &GenerateSpliterator[T]{supply: supply, budget: 1 << 10}
}

func (g *GenerateSpliterator[T]) TryAdvance(action func(T)) bool {
	action(g.supply())
	return true
}

func (g *GenerateSpliterator[T]) TrySplit() Spliterator[T] {
	if g.budget == 0 {
		return nil
	}
	g.budget >>= 1
	return &GenerateSpliterator[T]{supply: g.supply, budget: g.budget}
}

func (g *GenerateSpliterator[T]) EstimateSize() int64 {
	return UnknownSize
}

func (g *GenerateSpliterator[T]) Characteristics() Characteristics {
	return Immutable | Infinite
}

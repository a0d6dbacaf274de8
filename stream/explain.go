package stream

import (
	"fmt"
	"strconv"

	"chunkseq/spliter"

	"github.com/xlab/treeprint"
)

func describe[T any](s spliter.Spliterator[T]) string {
	size := "unknown"
	if est := s.EstimateSize(); est != spliter.UnknownSize {
		size = strconv.FormatInt(est, 10)
	}
	return fmt.Sprintf("size=%s [%s]", size, s.Characteristics())
}

// Explain splits s the way a parallel evaluation with the given depth would and
// renders the resulting split tree. Nothing is traversed, but s keeps only the
// last part afterwards.
func Explain[T any](s spliter.Spliterator[T], depth int) string {
	tree := treeprint.NewWithRoot(describe(s))
	explain(tree, s, depth, nil)
	return tree.String()
}

// ExplainContents is like Explain but also drains every part and lists the
// elements it produced under its leaf. It consumes s.
func ExplainContents[T any](s spliter.Spliterator[T], depth int) string {
	tree := treeprint.NewWithRoot(describe(s))
	explain(tree, s, depth, func(leaf treeprint.Tree, part spliter.Spliterator[T]) {
		for v := range spliter.Seq(part) {
			leaf.AddNode(fmt.Sprint(v))
		}
	})
	return tree.String()
}

func explain[T any](node treeprint.Tree, s spliter.Spliterator[T], depth int, leaf func(treeprint.Tree, spliter.Spliterator[T])) {
	var prefix spliter.Spliterator[T]
	if depth > 0 {
		prefix = s.TrySplit()
	}
	if prefix == nil {
		if leaf != nil {
			leaf(node, s)
		}
		return
	}
	explain(node.AddBranch("prefix "+describe(prefix)), prefix, depth-1, leaf)
	explain(node.AddBranch("suffix "+describe(s)), s, depth-1, leaf)
}

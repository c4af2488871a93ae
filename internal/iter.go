// Package internal holds helpers shared by the MISC packages.
package internal

import (
	"iter"
)

// Concat2 chains pair iterators, yielding every pair of seqs[0], then of
// seqs[1], and so on. Iteration stops as soon as the consumer does.
func Concat2[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for k, v := range seq {
				if !yield(k, v) {
					return
				}
			}
		}
	}
}

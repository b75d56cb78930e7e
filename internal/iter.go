// Package internal holds helpers shared by the micro8 packages.
package internal

import (
	"iter"
)

// IterSeq2Concat chains key/value sequences. Later sequences are visited
// after earlier ones, so a consumer that stores into a map lets the later
// sequence win on duplicate keys.
func IterSeq2Concat[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for key, value := range seq {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}

package batch

import (
	"errors"
	"fmt"
	"iter"
)

var ErrInvalidBatchSize = errors.New("batch size must be positive")

// Chunks slices items into contiguous batches of at most size elements,
// preserving order. The sequence is lazy and can be ranged over repeatedly;
// each pass yields the batch number and a subslice of items.
func Chunks[T any](items []T, size int) (iter.Seq2[int, []T], error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBatchSize, size)
	}
	return func(yield func(int, []T) bool) {
		for n, start := 0, 0; start < len(items); n, start = n+1, start+size {
			end := min(start+size, len(items))
			if !yield(n, items[start:end:end]) {
				return
			}
		}
	}, nil
}

// Count returns the number of batches Chunks yields for total items.
func Count(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

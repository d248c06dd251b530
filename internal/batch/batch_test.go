package batch

import (
	"errors"
	"testing"
)

func TestChunksCoverInputInOrder(t *testing.T) {
	for _, tt := range []struct {
		total int
		size  int
	}{
		{total: 0, size: 3},
		{total: 1, size: 3},
		{total: 9, size: 3},
		{total: 10, size: 3},
		{total: 10, size: 1},
		{total: 10, size: 50000},
	} {
		items := make([]int, tt.total)
		for i := range items {
			items[i] = i
		}
		seq, err := Chunks(items, tt.size)
		if err != nil {
			t.Fatalf("Chunks(%d, %d): %v", tt.total, tt.size, err)
		}

		var joined []int
		chunks := 0
		for n, chunk := range seq {
			if n != chunks {
				t.Fatalf("batch number: want=%d got=%d", chunks, n)
			}
			if len(chunk) == 0 || len(chunk) > tt.size {
				t.Fatalf("chunk %d size %d out of range (size=%d)", n, len(chunk), tt.size)
			}
			if len(chunk) != tt.size && len(joined)+len(chunk) != tt.total {
				t.Fatalf("only the last chunk may be short: chunk %d len=%d", n, len(chunk))
			}
			joined = append(joined, chunk...)
			chunks++
		}
		if chunks != Count(tt.total, tt.size) {
			t.Fatalf("chunk count (%d/%d): want=%d got=%d", tt.total, tt.size, Count(tt.total, tt.size), chunks)
		}
		if len(joined) != tt.total {
			t.Fatalf("joined length: want=%d got=%d", tt.total, len(joined))
		}
		for i, v := range joined {
			if v != i {
				t.Fatalf("order broken at %d: got=%d", i, v)
			}
		}
	}
}

func TestChunksRestartable(t *testing.T) {
	seq, err := Chunks([]string{"a", "b", "c"}, 2)
	if err != nil {
		t.Fatalf("Chunks: %v", err)
	}
	for pass := 0; pass < 2; pass++ {
		var firsts []string
		for _, chunk := range seq {
			firsts = append(firsts, chunk[0])
		}
		if len(firsts) != 2 || firsts[0] != "a" || firsts[1] != "c" {
			t.Fatalf("pass %d: got=%v", pass, firsts)
		}
	}
}

func TestChunksStopEarly(t *testing.T) {
	seq, _ := Chunks([]int{1, 2, 3, 4, 5}, 1)
	seen := 0
	for range seq {
		seen++
		if seen == 2 {
			break
		}
	}
	if seen != 2 {
		t.Fatalf("want=2 got=%d", seen)
	}
}

func TestChunksAppendDoesNotClobberNext(t *testing.T) {
	items := []int{1, 2, 3, 4}
	seq, _ := Chunks(items, 2)
	for n, chunk := range seq {
		if n == 0 {
			_ = append(chunk, 99)
		}
	}
	if items[2] != 3 {
		t.Fatalf("append through chunk overwrote input: %v", items)
	}
}

func TestChunksInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := Chunks([]int{1}, size); !errors.Is(err, ErrInvalidBatchSize) {
			t.Fatalf("size %d: want=%v got=%v", size, ErrInvalidBatchSize, err)
		}
	}
}

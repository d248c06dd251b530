package puzzle

import (
	"strconv"
	"strings"
)

// Blank is the tile value that marks the empty cell.
const Blank = 0

// Configuration is one arrangement of tiles on the board, stored one byte per
// cell in row-major order. It is immutable and comparable, so it can be used
// directly as a map key; two configurations are equal iff every cell matches.
type Configuration string

// NewConfiguration copies tiles into a Configuration. Values must fit in a byte.
func NewConfiguration(tiles []int) Configuration {
	b := make([]byte, len(tiles))
	for i, v := range tiles {
		b[i] = byte(v)
	}
	return Configuration(b)
}

func (c Configuration) Len() int { return len(c) }

func (c Configuration) At(i int) int { return int(c[i]) }

// BlankIndex returns the linear index of the blank, or -1 if there is none.
func (c Configuration) BlankIndex() int {
	return strings.IndexByte(string(c), Blank)
}

// Swap returns a new configuration with cells i and j exchanged.
func (c Configuration) Swap(i, j int) Configuration {
	b := []byte(c)
	b[i], b[j] = b[j], b[i]
	return Configuration(b)
}

func (c Configuration) Tiles() []int {
	out := make([]int, len(c))
	for i := range c {
		out[i] = int(c[i])
	}
	return out
}

func (c Configuration) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := range c {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(int(c[i])))
	}
	sb.WriteByte(']')
	return sb.String()
}

// Valid reports whether c holds each value 0..Len()-1 exactly once.
func (c Configuration) Valid() bool {
	if len(c) == 0 {
		return false
	}
	seen := make([]bool, len(c))
	for i := range c {
		v := int(c[i])
		if v >= len(c) || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

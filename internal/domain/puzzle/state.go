package puzzle

import (
	"fmt"
	"strconv"
	"strings"
)

// StatePrefix is prepended to the counter when a StateID is rendered.
const StatePrefix = "s"

// StateID is the counter part of a state identifier. IDs are assigned from 1
// in generation order and compare numerically, so s2 sorts before s10.
type StateID uint32

func (id StateID) String() string {
	return StatePrefix + strconv.FormatUint(uint64(id), 10)
}

// Less reports whether id sorts strictly before other.
func (id StateID) Less(other StateID) bool { return id < other }

// ParseStateID is the inverse of StateID.String.
func ParseStateID(raw string) (StateID, error) {
	num, ok := strings.CutPrefix(strings.TrimSpace(raw), StatePrefix)
	if !ok {
		return 0, fmt.Errorf("state id %q: missing %q prefix", raw, StatePrefix)
	}
	n, err := strconv.ParseUint(num, 10, 32)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("state id %q: invalid counter", raw)
	}
	return StateID(n), nil
}

// State pairs a configuration with its identifier.
type State struct {
	ID     StateID
	Config Configuration
}

// MoveEdge is an undirected adjacency between two states one blank slide
// apart. From always sorts before To.
type MoveEdge struct {
	From StateID
	To   StateID
}

func (e MoveEdge) String() string {
	return e.From.String() + "-" + e.To.String()
}

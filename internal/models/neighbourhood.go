package models

import (
	"strconv"
	"strings"
)

// Neighbour is a synset reached from a walk's source with its signed distance.
// Positive distances lie on the hypernym side, negative on the hyponym side.
type Neighbour struct {
	ID       NodeID `json:"id"`
	Distance int    `json:"distance"`
}

// Neighbourhood maps reached synsets to signed distances, in first-visit order.
// The source of the walk is never an entry.
type Neighbourhood struct {
	Source  NodeID
	entries []Neighbour
	index   map[NodeID]int
}

// NewNeighbourhood returns an empty neighbourhood of source.
func NewNeighbourhood(source NodeID) *Neighbourhood {
	return &Neighbourhood{Source: source, index: make(map[NodeID]int)}
}

// Add records id at distance unless id is the source or already present.
// It reports whether the entry was added.
func (n *Neighbourhood) Add(id NodeID, distance int) bool {
	if id == n.Source {
		return false
	}

	if _, ok := n.index[id]; ok {
		return false
	}

	n.index[id] = len(n.entries)
	n.entries = append(n.entries, Neighbour{ID: id, Distance: distance})

	return true
}

// Len returns the number of neighbours.
func (n *Neighbourhood) Len() int { return len(n.entries) }

// Distance returns the signed distance of id.
func (n *Neighbourhood) Distance(id NodeID) (int, bool) {
	i, ok := n.index[id]
	if !ok {
		return 0, false
	}

	return n.entries[i].Distance, true
}

// Neighbours returns a copy of the entries in first-visit order.
func (n *Neighbourhood) Neighbours() []Neighbour {
	out := make([]Neighbour, len(n.entries))
	copy(out, n.entries)

	return out
}

// Encode renders the entries as "id:distance" pairs joined by commas.
func (n *Neighbourhood) Encode() string {
	var b strings.Builder
	b.Grow(len(n.entries) * 16)

	for i, e := range n.entries {
		if i > 0 {
			b.WriteByte(',')
		}

		b.WriteString(string(e.ID))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(e.Distance))
	}

	return b.String()
}

package models

import (
	"fmt"
	"strings"
)

// Cluster is an externally produced group of word senses, e.g. one line of
// Chinese Whispers output. Values are immutable once constructed.
type Cluster struct {
	id     int
	senses []string
	lemmas []string
}

// NewCluster validates senses and derives their lemmas: the part of each
// sense label before the first '#', lower-cased.
func NewCluster(id int, senses []string) (Cluster, error) {
	if len(senses) == 0 {
		return Cluster{}, fmt.Errorf("cluster %d: %w", id, ErrEmptyCluster)
	}

	c := Cluster{
		id:     id,
		senses: make([]string, len(senses)),
		lemmas: make([]string, len(senses)),
	}

	for i, s := range senses {
		s = strings.TrimSpace(s)

		lemma, _, _ := strings.Cut(s, "#")
		if lemma == "" {
			return Cluster{}, fmt.Errorf("cluster %d, sense %d: %w", id, i, ErrEmptySense)
		}

		c.senses[i] = s
		c.lemmas[i] = strings.ToLower(lemma)
	}

	return c, nil
}

// ID returns the cluster identifier.
func (c Cluster) ID() int { return c.id }

// Senses returns the sense labels.
func (c Cluster) Senses() []string { return append([]string(nil), c.senses...) }

// Lemmas returns the lemma of each sense, aligned with Senses.
func (c Cluster) Lemmas() []string { return append([]string(nil), c.lemmas...) }

// DistinctLemmas returns each lemma once, in order of first appearance.
func (c Cluster) DistinctLemmas() []string {
	seen := make(map[string]bool, len(c.lemmas))
	out := make([]string, 0, len(c.lemmas))

	for _, l := range c.lemmas {
		if seen[l] {
			continue
		}

		seen[l] = true
		out = append(out, l)
	}

	return out
}

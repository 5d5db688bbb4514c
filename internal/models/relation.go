package models

import (
	"fmt"
	"slices"
)

// RelationKind tags a directed edge between two synsets.
type RelationKind string

// Relation kinds known to the ontology.
const (
	Hypernym         RelationKind = "hypernym"
	InstanceHypernym RelationKind = "instance_hypernym"
	WikidataHypernym RelationKind = "wikidata_hypernym"
	Hyponym          RelationKind = "hyponym"
	InstanceHyponym  RelationKind = "instance_hyponym"
	WikidataHyponym  RelationKind = "wikidata_hyponym"
	Meronym          RelationKind = "meronym"
	Holonym          RelationKind = "holonym"
	Antonym          RelationKind = "antonym"
	Similar          RelationKind = "similar"
	Related          RelationKind = "related"
)

// HypernymClass lists the kinds that lead to more general synsets.
var HypernymClass = []RelationKind{Hypernym, InstanceHypernym, WikidataHypernym}

// HyponymClass lists the kinds that lead to more specific synsets.
var HyponymClass = []RelationKind{Hyponym, InstanceHyponym, WikidataHyponym}

var otherKinds = []RelationKind{Meronym, Holonym, Antonym, Similar, Related}

// TraversalKinds returns the kinds followed by the neighbourhood walk.
func TraversalKinds() []RelationKind {
	return slices.Concat(HypernymClass, HyponymClass)
}

// IsHypernym reports whether k belongs to the hypernym class.
func (k RelationKind) IsHypernym() bool { return slices.Contains(HypernymClass, k) }

// IsHyponym reports whether k belongs to the hyponym class.
func (k RelationKind) IsHyponym() bool { return slices.Contains(HyponymClass, k) }

// ParseRelationKind validates a relation kind name.
func ParseRelationKind(s string) (RelationKind, error) {
	k := RelationKind(s)
	if k.IsHypernym() || k.IsHyponym() || slices.Contains(otherKinds, k) {
		return k, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownRelation, s)
}

// Relation is a directed, typed edge.
type Relation struct {
	Source NodeID       `json:"source"`
	Target NodeID       `json:"target"`
	Kind   RelationKind `json:"relation"`
}

// Validate checks that both endpoints and the kind are well formed.
func (r Relation) Validate() error {
	if err := r.Source.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}

	if err := r.Target.Validate(); err != nil {
		return fmt.Errorf("target: %w", err)
	}

	if _, err := ParseRelationKind(string(r.Kind)); err != nil {
		return err
	}

	return nil
}

// FilterKinds returns the relations whose kind is in kinds; all of them when kinds is empty.
func FilterKinds(rels []Relation, kinds []RelationKind) []Relation {
	if len(kinds) == 0 {
		return rels
	}

	out := make([]Relation, 0, len(rels))
	for _, r := range rels {
		if slices.Contains(kinds, r.Kind) {
			out = append(out, r)
		}
	}

	return out
}

// Package domain defines the canonical interfaces shared across the
// extraction core, the ontology backends and the HTTP surface. Consumers
// should depend on these interfaces rather than re-declaring equivalent ones.
package domain

import (
	"context"

	"github.com/lexiconlab/babelex/internal/models"
)

// Ontology is a read-only lexical-ontology graph. Implementations must be
// safe for concurrent use.
type Ontology interface {
	// Edges returns the outgoing relations of id restricted to kinds (all
	// kinds when none are given) in a stable order. Unknown IDs yield an
	// error wrapping models.ErrSynsetNotFound.
	Edges(ctx context.Context, id models.NodeID, kinds ...models.RelationKind) ([]models.Relation, error)

	// SynsetsByLemma returns the synsets lexicalised by lemma in lang,
	// restricted to pos unless pos is models.POSAny.
	SynsetsByLemma(ctx context.Context, lemma string, lang models.Language, pos models.POS) ([]models.NodeID, error)

	// Senses returns the senses of id in lang.
	Senses(ctx context.Context, id models.NodeID, lang models.Language) ([]models.Sense, error)
}

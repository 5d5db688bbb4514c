package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lexiconlab/babelex/internal/domain"
	"github.com/lexiconlab/babelex/internal/models"
)

// Compile-time check: *OntologyStore must satisfy domain.Ontology.
var _ domain.Ontology = (*OntologyStore)(nil)

// OntologyStore answers ontology lookups from PostgreSQL. Edges and senses
// come back in import order.
type OntologyStore struct {
	Base
}

// NewOntologyStore creates an OntologyStore.
func NewOntologyStore(base Base) *OntologyStore {
	return &OntologyStore{Base: base}
}

// Edges returns the outgoing relations of id restricted to kinds.
func (s *OntologyStore) Edges(ctx context.Context, id models.NodeID, kinds ...models.RelationKind) ([]models.Relation, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing edges: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only; rollback ends the tx.

	if err := requireSynset(ctx, tx, id); err != nil {
		return nil, err
	}

	var kindFilter []string
	for _, k := range kinds {
		kindFilter = append(kindFilter, string(k))
	}

	rows, err := tx.Query(ctx, `
		SELECT source, target, relation
		FROM synset_edges
		WHERE source = $1 AND ($2::text[] IS NULL OR relation = ANY ($2))
		ORDER BY ordinal`,
		string(id), kindFilter,
	)
	if err != nil {
		return nil, fmt.Errorf("querying edges: %w", err)
	}

	rels, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Relation, error) {
		var r models.Relation
		err := row.Scan(&r.Source, &r.Target, &r.Kind)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning edge rows: %w", err)
	}

	return rels, nil
}

// SynsetsByLemma returns the synsets with a sense whose normalised lemma
// matches lemma in lang, restricted to pos unless it is models.POSAny.
func (s *OntologyStore) SynsetsByLemma(ctx context.Context, lemma string, lang models.Language, pos models.POS) ([]models.NodeID, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx, `
		SELECT se.synset
		FROM senses se
		JOIN synsets sy ON sy.id = se.synset
		WHERE se.language = $1 AND se.lemma_key = $2 AND ($3 = '' OR sy.pos = $3)
		GROUP BY se.synset
		ORDER BY min(se.ordinal)`,
		string(lang), models.NormalizeLemma(lemma), string(pos),
	)
	if err != nil {
		return nil, fmt.Errorf("querying synsets by lemma: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[models.NodeID])
	if err != nil {
		return nil, fmt.Errorf("scanning synset rows: %w", err)
	}

	return ids, nil
}

// Senses returns the senses of id in lang.
func (s *OntologyStore) Senses(ctx context.Context, id models.NodeID, lang models.Language) ([]models.Sense, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing senses: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only; rollback ends the tx.

	if err := requireSynset(ctx, tx, id); err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT lemma, frequency
		FROM senses
		WHERE synset = $1 AND language = $2
		ORDER BY ordinal`,
		string(id), string(lang),
	)
	if err != nil {
		return nil, fmt.Errorf("querying senses: %w", err)
	}

	senses, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.Sense])
	if err != nil {
		return nil, fmt.Errorf("scanning sense rows: %w", err)
	}

	return senses, nil
}

// Count returns the number of synsets, edges and senses stored.
func (s *OntologyStore) Count(ctx context.Context) (ImportStats, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var st ImportStats

	err := s.Pool.QueryRow(ctx, `
		SELECT (SELECT count(*) FROM synsets),
		       (SELECT count(*) FROM synset_edges),
		       (SELECT count(*) FROM senses)`,
	).Scan(&st.Synsets, &st.Edges, &st.Senses)
	if err != nil {
		return ImportStats{}, fmt.Errorf("counting ontology rows: %w", err)
	}

	return st, nil
}

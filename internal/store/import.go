package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lexiconlab/babelex/internal/models"
	"github.com/lexiconlab/babelex/internal/ontology"
)

// importBatchSize bounds the statements queued per round trip.
const importBatchSize = 1000

// ImportStats counts rows. For an import they are the rows newly inserted;
// rows already present are skipped.
type ImportStats struct {
	Synsets int64 `json:"synsets"`
	Edges   int64 `json:"edges"`
	Senses  int64 `json:"senses"`
}

// ImportStore loads ontology dumps into PostgreSQL.
type ImportStore struct {
	Base
}

// NewImportStore creates an ImportStore.
func NewImportStore(base Base) *ImportStore {
	return &ImportStore{Base: base}
}

// Import writes d in one transaction. Import order is kept so that lookups
// enumerate edges and senses the way the dump lists them.
func (s *ImportStore) Import(ctx context.Context, d *ontology.Dump) (ImportStats, error) {
	tx, err := s.beginTx(ctx)
	if err != nil {
		return ImportStats{}, fmt.Errorf("importing dump: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	var st ImportStats

	synsets := d.Synsets()

	st.Synsets, err = execBatched(ctx, tx, len(synsets), func(b *pgx.Batch, i int) {
		b.Queue(`INSERT INTO synsets (id, pos) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
			string(synsets[i]), string(synsets[i].POS()))
	})
	if err != nil {
		return ImportStats{}, fmt.Errorf("inserting synsets: %w", err)
	}

	st.Edges, err = execBatched(ctx, tx, len(d.Edges), func(b *pgx.Batch, i int) {
		e := d.Edges[i]
		b.Queue(`INSERT INTO synset_edges (source, target, relation) VALUES ($1, $2, $3)
			ON CONFLICT (source, target, relation) DO NOTHING`,
			string(e.Source), string(e.Target), string(e.Kind))
	})
	if err != nil {
		return ImportStats{}, fmt.Errorf("inserting edges: %w", err)
	}

	st.Senses, err = execBatched(ctx, tx, len(d.Senses), func(b *pgx.Batch, i int) {
		sn := d.Senses[i]
		b.Queue(`INSERT INTO senses (synset, language, lemma, lemma_key, frequency) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (synset, language, lemma) DO NOTHING`,
			string(sn.Synset), string(sn.Language), sn.Sense.Lemma, models.NormalizeLemma(sn.Sense.Lemma), sn.Sense.Frequency)
	})
	if err != nil {
		return ImportStats{}, fmt.Errorf("inserting senses: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return ImportStats{}, fmt.Errorf("committing import: %w", err)
	}

	s.Log.WithField("synsets", st.Synsets).
		WithField("edges", st.Edges).
		WithField("senses", st.Senses).
		Info("ontology dump imported")

	return st, nil
}

// execBatched queues n statements in batches of importBatchSize and
// returns the total number of affected rows.
func execBatched(ctx context.Context, tx pgx.Tx, n int, queue func(b *pgx.Batch, i int)) (int64, error) {
	var affected int64

	for start := 0; start < n; start += importBatchSize {
		end := min(start+importBatchSize, n)
		batch := &pgx.Batch{}

		for i := start; i < end; i++ {
			queue(batch, i)
		}

		br := tx.SendBatch(ctx, batch)

		for range end - start {
			tag, err := br.Exec()
			if err != nil {
				br.Close() //nolint:errcheck // the Exec error is the one to report.
				return affected, err
			}

			affected += tag.RowsAffected()
		}

		if err := br.Close(); err != nil {
			return affected, err
		}
	}

	return affected, nil
}

package extract

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/lexiconlab/babelex/internal/models"
	"github.com/lexiconlab/babelex/internal/ontology"
	"github.com/lexiconlab/babelex/internal/records"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

// graphOf builds an in-memory ontology from (source, target, kind) triples.
func graphOf(edges ...models.Relation) *ontology.Memory {
	m := ontology.NewMemory()
	for _, e := range edges {
		m.AddEdge(e)
	}
	return m
}

func hyper(s, t models.NodeID) models.Relation {
	return models.Relation{Source: s, Target: t, Kind: models.Hypernym}
}

func hypo(s, t models.NodeID) models.Relation {
	return models.Relation{Source: s, Target: t, Kind: models.Hyponym}
}

// mockOntology records calls and returns configured responses.
type mockOntology struct {
	mu    sync.Mutex
	calls []string

	edges          func(ctx context.Context, id models.NodeID, kinds ...models.RelationKind) ([]models.Relation, error)
	synsetsByLemma func(ctx context.Context, lemma string, lang models.Language, pos models.POS) ([]models.NodeID, error)
	senses         func(ctx context.Context, id models.NodeID, lang models.Language) ([]models.Sense, error)
}

func (m *mockOntology) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockOntology) Edges(ctx context.Context, id models.NodeID, kinds ...models.RelationKind) ([]models.Relation, error) {
	m.record("Edges")
	return m.edges(ctx, id, kinds...)
}

func (m *mockOntology) SynsetsByLemma(ctx context.Context, lemma string, lang models.Language, pos models.POS) ([]models.NodeID, error) {
	m.record("SynsetsByLemma")
	return m.synsetsByLemma(ctx, lemma, lang, pos)
}

func (m *mockOntology) Senses(ctx context.Context, id models.NodeID, lang models.Language) ([]models.Sense, error) {
	m.record("Senses")
	return m.senses(ctx, id, lang)
}

// memorySink collects appended rows and can be made to fail.
type memorySink struct {
	mu      sync.Mutex
	batches [][]records.Row
	err     error
}

func (s *memorySink) Append(rows ...records.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}

	s.batches = append(s.batches, rows)

	return nil
}

func (s *memorySink) rows() []records.Row {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []records.Row
	for _, b := range s.batches {
		out = append(out, b...)
	}

	return out
}

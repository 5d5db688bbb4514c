package service

import (
	"context"
	"sync"

	"github.com/lexiconlab/babelex/internal/models"
)

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

func (m *mockOntology) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
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

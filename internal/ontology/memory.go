// Package ontology provides an in-memory lexical-ontology backend, loaded
// from TSV dumps or built programmatically.
package ontology

import (
	"context"
	"slices"
	"sync"

	"github.com/lexiconlab/babelex/internal/domain"
	"github.com/lexiconlab/babelex/internal/models"
)

// Compile-time check: *Memory must satisfy domain.Ontology.
var _ domain.Ontology = (*Memory)(nil)

type lemmaKey struct {
	lang  models.Language
	lemma string
}

// Memory is a thread-safe in-memory ontology. Edges are enumerated in
// insertion order.
type Memory struct {
	mu     sync.RWMutex
	edges  map[models.NodeID][]models.Relation
	senses map[models.NodeID]map[models.Language][]models.Sense
	lemmas map[lemmaKey][]models.NodeID
}

// NewMemory returns an empty graph.
func NewMemory() *Memory {
	return &Memory{
		edges:  make(map[models.NodeID][]models.Relation),
		senses: make(map[models.NodeID]map[models.Language][]models.Sense),
		lemmas: make(map[lemmaKey][]models.NodeID),
	}
}

// AddSynset declares id; adding an existing synset is a no-op.
func (m *Memory) AddSynset(id models.NodeID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.addSynsetLocked(id)
}

func (m *Memory) addSynsetLocked(id models.NodeID) {
	if _, ok := m.edges[id]; !ok {
		m.edges[id] = nil
	}
}

// AddEdge declares both endpoints and appends the relation to the source.
func (m *Memory) AddEdge(rel models.Relation) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.addSynsetLocked(rel.Source)
	m.addSynsetLocked(rel.Target)
	m.edges[rel.Source] = append(m.edges[rel.Source], rel)
}

// AddSense declares id and appends a sense in lang.
func (m *Memory) AddSense(id models.NodeID, lang models.Language, sense models.Sense) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.addSynsetLocked(id)

	byLang, ok := m.senses[id]
	if !ok {
		byLang = make(map[models.Language][]models.Sense)
		m.senses[id] = byLang
	}

	byLang[lang] = append(byLang[lang], sense)

	key := lemmaKey{lang: lang, lemma: models.NormalizeLemma(sense.Lemma)}
	if !slices.Contains(m.lemmas[key], id) {
		m.lemmas[key] = append(m.lemmas[key], id)
	}
}

// Len returns the number of synsets.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.edges)
}

// Edges implements domain.Ontology.
func (m *Memory) Edges(ctx context.Context, id models.NodeID, kinds ...models.RelationKind) ([]models.Relation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rels, ok := m.edges[id]
	if !ok {
		return nil, models.NotFound(id)
	}

	return slices.Clone(models.FilterKinds(rels, kinds)), nil
}

// SynsetsByLemma implements domain.Ontology.
func (m *Memory) SynsetsByLemma(ctx context.Context, lemma string, lang models.Language, pos models.POS) ([]models.NodeID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.NodeID

	for _, id := range m.lemmas[lemmaKey{lang: lang, lemma: models.NormalizeLemma(lemma)}] {
		if pos.Matches(id.POS()) {
			out = append(out, id)
		}
	}

	return out, nil
}

// Senses implements domain.Ontology.
func (m *Memory) Senses(ctx context.Context, id models.NodeID, lang models.Language) ([]models.Sense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.edges[id]; !ok {
		return nil, models.NotFound(id)
	}

	return slices.Clone(m.senses[id][lang]), nil
}

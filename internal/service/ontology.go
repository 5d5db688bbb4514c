// Package service provides the logic between the extraction core or the
// API handlers and an ontology backend.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/lexiconlab/babelex/internal/domain"
	"github.com/lexiconlab/babelex/internal/metrics"
	"github.com/lexiconlab/babelex/internal/models"
)

// OntologyBackend is the data-access interface OntologyService depends on.
type OntologyBackend = domain.Ontology

// Compile-time check: *OntologyService must satisfy domain.Ontology.
var _ domain.Ontology = (*OntologyService)(nil)

// OntologyService wraps a backend with logging, lookup metrics and
// de-duplication of concurrent identical Edges calls. Nothing is cached
// once a call returns.
type OntologyService struct {
	backend OntologyBackend
	group   singleflight.Group
	log     *logrus.Logger

	mu      sync.Mutex
	flights map[string]*flight
}

// flight is the context of one shared Edges call. It is cancelled when the
// last caller waiting on it leaves, never by a single caller.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// NewOntologyService creates an OntologyService.
func NewOntologyService(backend OntologyBackend, log *logrus.Logger) *OntologyService {
	return &OntologyService{backend: backend, log: log, flights: make(map[string]*flight)}
}

// Edges returns the relations of id. Concurrent callers asking for the same
// id and kinds share one backend call. A caller whose ctx ends gets its
// context error back at once; the shared call keeps running for the others.
func (s *OntologyService) Edges(ctx context.Context, id models.NodeID, kinds ...models.RelationKind) ([]models.Relation, error) {
	key := edgesKey(id, kinds)
	f := s.join(ctx, key)
	defer s.leave(key, f)

	ch := s.group.DoChan(key, func() (any, error) {
		return s.backend.Edges(f.ctx, id, kinds...)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		err := context.Cause(ctx)
		s.observe("edges", id, err)
		return nil, err
	case res = <-ch:
	}

	s.observe("edges", id, res.Err)

	if res.Err != nil {
		return nil, res.Err
	}

	rels, ok := res.Val.([]models.Relation)
	if !ok {
		return nil, fmt.Errorf("service: unexpected singleflight result type %T", res.Val)
	}

	if res.Shared {
		s.log.WithField("synset", id).Trace("shared edges lookup")
	}

	return slices.Clone(rels), nil
}

// join registers a caller on the flight for key, starting one that keeps
// ctx's values but not its cancellation.
func (s *OntologyService) join(ctx context.Context, key string) *flight {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flights[key]
	if !ok {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: fctx, cancel: cancel}
		s.flights[key] = f
	}
	f.waiters++

	return f
}

// leave drops a caller from f. The last one out cancels the backend call and
// makes singleflight forget it, so a later caller never joins a dead call.
func (s *OntologyService) leave(key string, f *flight) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f.waiters--
	if f.waiters > 0 {
		return
	}

	f.cancel()
	s.group.Forget(key)
	if s.flights[key] == f {
		delete(s.flights, key)
	}
}

// SynsetsByLemma returns the synsets lexicalised by lemma (pass-through).
func (s *OntologyService) SynsetsByLemma(ctx context.Context, lemma string, lang models.Language, pos models.POS) ([]models.NodeID, error) {
	ids, err := s.backend.SynsetsByLemma(ctx, lemma, lang, pos)
	s.observe("synsets_by_lemma", models.NodeID(lemma), err)

	return ids, err
}

// Senses returns the senses of id (pass-through).
func (s *OntologyService) Senses(ctx context.Context, id models.NodeID, lang models.Language) ([]models.Sense, error) {
	senses, err := s.backend.Senses(ctx, id, lang)
	s.observe("senses", id, err)

	return senses, err
}

func (s *OntologyService) observe(op string, key models.NodeID, err error) {
	outcome := "ok"

	switch {
	case err == nil:
	case errors.Is(err, models.ErrSynsetNotFound):
		outcome = "not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome = "cancelled"
	default:
		outcome = "error"
	}

	metrics.OntologyLookups.WithLabelValues(op, outcome).Inc()

	if err != nil && outcome != "cancelled" {
		s.log.WithFields(logrus.Fields{
			"operation": op,
			"key":       key,
		}).WithError(err).Debug("ontology lookup failed")
	}
}

func edgesKey(id models.NodeID, kinds []models.RelationKind) string {
	var b strings.Builder

	b.WriteString(string(id))

	for _, k := range kinds {
		b.WriteByte('\t')
		b.WriteString(string(k))
	}

	return b.String()
}

package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/lexiconlab/babelex/internal/domain"
	"github.com/lexiconlab/babelex/internal/models"
)

// Compile-time check: *Client must satisfy domain.Ontology.
var _ domain.Ontology = (*Client)(nil)

func synsetPath(id models.NodeID, sub string) string {
	return "/api/v1/synsets/" + url.PathEscape(string(id)) + "/" + sub
}

// notFound maps a 404 on a synset resource to models.ErrSynsetNotFound,
// keeping the API error in the chain.
func notFound(id models.NodeID, err error) error {
	if IsNotFound(err) {
		return fmt.Errorf("%w (%w)", models.NotFound(id), err)
	}
	return err
}

// Edges returns the outgoing relations of id restricted to kinds.
func (c *Client) Edges(ctx context.Context, id models.NodeID, kinds ...models.RelationKind) ([]models.Relation, error) {
	params := url.Values{}
	for _, k := range kinds {
		params.Add("relation", string(k))
	}

	var resp EdgesResponse
	if err := c.get(ctx, synsetPath(id, "edges"), params, &resp); err != nil {
		return nil, notFound(id, err)
	}
	return resp.Edges, nil
}

// Senses returns the senses of id in lang.
func (c *Client) Senses(ctx context.Context, id models.NodeID, lang models.Language) ([]models.Sense, error) {
	params := url.Values{}
	params.Set("language", string(lang))

	var resp SensesResponse
	if err := c.get(ctx, synsetPath(id, "senses"), params, &resp); err != nil {
		return nil, notFound(id, err)
	}
	return resp.Senses, nil
}

// SynsetsByLemma returns the synsets lexicalised by lemma in lang.
func (c *Client) SynsetsByLemma(ctx context.Context, lemma string, lang models.Language, pos models.POS) ([]models.NodeID, error) {
	params := url.Values{}
	params.Set("language", string(lang))
	if pos != models.POSAny {
		params.Set("pos", string(pos))
	}

	var resp LemmaSynsetsResponse
	if err := c.get(ctx, "/api/v1/lemmas/"+url.PathEscape(lemma)+"/synsets", params, &resp); err != nil {
		return nil, err
	}
	return resp.Synsets, nil
}

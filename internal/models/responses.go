package models

// HealthResponse is returned by GET /api/v1/health.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Backend       string `json:"backend"`
	SchemaVersion int    `json:"schema_version,omitempty"`
}

// EdgesResponse is returned by GET /api/v1/synsets/:id/edges.
type EdgesResponse struct {
	Synset NodeID     `json:"synset"`
	Edges  []Relation `json:"edges"`
}

// SensesResponse is returned by GET /api/v1/synsets/:id/senses.
type SensesResponse struct {
	Synset   NodeID   `json:"synset"`
	Language Language `json:"language"`
	Senses   []Sense  `json:"senses"`
}

// LemmaSynsetsResponse is returned by GET /api/v1/lemmas/:lemma/synsets.
type LemmaSynsetsResponse struct {
	Lemma    string   `json:"lemma"`
	Language Language `json:"language"`
	POS      POS      `json:"pos"`
	Synsets  []NodeID `json:"synsets"`
}

package ontology

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lexiconlab/babelex/internal/models"
	"github.com/lexiconlab/babelex/internal/records"
)

// DumpSense is one row of a senses dump.
type DumpSense struct {
	Synset   models.NodeID
	Language models.Language
	Sense    models.Sense
}

// Dump is a flat export of an ontology: edges rows are
// "source, target, relation"; senses rows are "synset, language, lemma, frequency".
type Dump struct {
	Edges  []models.Relation
	Senses []DumpSense
}

// Synsets returns every synset ID mentioned in the dump, in first-seen order.
func (d *Dump) Synsets() []models.NodeID {
	seen := make(map[models.NodeID]bool)

	var out []models.NodeID

	add := func(id models.NodeID) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	for _, e := range d.Edges {
		add(e.Source)
		add(e.Target)
	}

	for _, s := range d.Senses {
		add(s.Synset)
	}

	return out
}

// ReadDump loads an edges file and an optional senses file.
func ReadDump(edgesPath, sensesPath string, format records.Format) (*Dump, error) {
	d := &Dump{}

	err := records.ReadRecords(edgesPath, format, func(_ int, row records.Row) error {
		if len(row) < 3 {
			return fmt.Errorf("edge record has %d fields, want 3", len(row))
		}

		rel := models.Relation{
			Source: models.NodeID(row[0]),
			Target: models.NodeID(row[1]),
			Kind:   models.RelationKind(strings.TrimSpace(row[2])),
		}
		if err := rel.Validate(); err != nil {
			return err
		}

		d.Edges = append(d.Edges, rel)

		return nil
	})
	if err != nil {
		return nil, err
	}

	if sensesPath == "" {
		return d, nil
	}

	err = records.ReadRecords(sensesPath, format, func(_ int, row records.Row) error {
		s, err := parseSense(row)
		if err != nil {
			return err
		}

		d.Senses = append(d.Senses, s)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return d, nil
}

func parseSense(row records.Row) (DumpSense, error) {
	if len(row) < 3 {
		return DumpSense{}, fmt.Errorf("sense record has %d fields, want at least 3", len(row))
	}

	id := models.NodeID(row[0])
	if err := id.Validate(); err != nil {
		return DumpSense{}, err
	}

	lang, err := models.ParseLanguage(row[1])
	if err != nil {
		return DumpSense{}, err
	}

	if row[2] == "" {
		return DumpSense{}, fmt.Errorf("synset %s: %w", id, models.ErrEmptySense)
	}

	freq := 0
	if len(row) > 3 && row[3] != "" {
		if freq, err = strconv.Atoi(strings.TrimSpace(row[3])); err != nil {
			return DumpSense{}, fmt.Errorf("parsing frequency: %w", err)
		}
	}

	return DumpSense{Synset: id, Language: lang, Sense: models.Sense{Lemma: row[2], Frequency: freq}}, nil
}

// NewMemoryFromDump builds an in-memory graph from d.
func NewMemoryFromDump(d *Dump) *Memory {
	m := NewMemory()

	for _, e := range d.Edges {
		m.AddEdge(e)
	}

	for _, s := range d.Senses {
		m.AddSense(s.Synset, s.Language, s.Sense)
	}

	return m
}

// LoadMemory reads a dump and builds an in-memory graph from it.
func LoadMemory(edgesPath, sensesPath string, format records.Format) (*Memory, error) {
	d, err := ReadDump(edgesPath, sensesPath, format)
	if err != nil {
		return nil, fmt.Errorf("loading ontology dump: %w", err)
	}

	return NewMemoryFromDump(d), nil
}

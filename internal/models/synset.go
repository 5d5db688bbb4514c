// Package models defines the lexical-ontology data model shared by the
// extraction core, the backends and the HTTP surface.
package models

import (
	"fmt"
	"strings"
)

// maxNodeIDLen caps synset identifiers, matching the store schema.
const maxNodeIDLen = 255

// NodeID identifies a synset. Equality is string equality.
type NodeID string

// String implements fmt.Stringer.
func (id NodeID) String() string { return string(id) }

// Validate rejects IDs that cannot be a synset identifier or cannot be
// written as a single delimited field.
func (id NodeID) Validate() error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidNodeID)
	}

	if len(id) > maxNodeIDLen {
		return fmt.Errorf("%w: %w", ErrInvalidNodeID, ErrFieldTooLong("synset id", maxNodeIDLen))
	}

	if strings.ContainsAny(string(id), "\t\r\n") {
		return fmt.Errorf("%w: %q contains control characters", ErrInvalidNodeID, string(id))
	}

	return nil
}

// POS returns the part of speech encoded in a BabelNet-style ID suffix
// ("bn:00000001n" is a noun), or POSAny when the ID carries none.
func (id NodeID) POS() POS {
	if !strings.Contains(string(id), ":") || len(id) < 2 {
		return POSAny
	}

	p := POS(id[len(id)-1:])
	if p.known() {
		return p
	}

	return POSAny
}

// Language is an upper-case language code such as "EN".
type Language string

// DefaultLanguage is used when no language is selected.
const DefaultLanguage Language = "EN"

// ParseLanguage normalises a language code.
func ParseLanguage(s string) (Language, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 || len(s) > 8 {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, s)
	}

	for _, r := range s {
		if (r < 'A' || r > 'Z') && r != '_' {
			return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, s)
		}
	}

	return Language(s), nil
}

// POS is a part-of-speech tag.
type POS string

// Parts of speech.
const (
	POSAny       POS = ""
	POSNoun      POS = "n"
	POSVerb      POS = "v"
	POSAdjective POS = "a"
	POSAdverb    POS = "r"
)

func (p POS) known() bool {
	switch p {
	case POSNoun, POSVerb, POSAdjective, POSAdverb:
		return true
	default:
		return false
	}
}

// Matches reports whether a synset of part of speech other satisfies the filter p.
func (p POS) Matches(other POS) bool {
	return p == POSAny || p == other
}

// ParsePOS accepts a single-letter tag; "" and "*" select any part of speech.
func ParsePOS(s string) (POS, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "*" {
		return POSAny, nil
	}

	p := POS(s)
	if !p.known() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPOS, s)
	}

	return p, nil
}

// Sense is one lexicalisation of a synset in a language.
type Sense struct {
	Lemma     string `json:"lemma"`
	Frequency int    `json:"frequency"`
}

// SimpleLemma returns the lemma with underscores replaced by spaces.
func (s Sense) SimpleLemma() string {
	return strings.ReplaceAll(s.Lemma, "_", " ")
}

// NormalizeLemma folds a lemma for lookups: case-insensitive, spaces and
// underscores treated alike.
func NormalizeLemma(lemma string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(lemma), " ", "_"))
}

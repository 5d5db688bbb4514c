package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrInvalidNodeID   = errors.New("invalid synset id")
	ErrInvalidDepth    = errors.New("depth must be >= 0")
	ErrUnknownRelation = errors.New("unknown relation kind")
	ErrInvalidLanguage = errors.New("invalid language")
	ErrInvalidPOS      = errors.New("invalid part of speech")
	ErrEmptyCluster    = errors.New("cluster has no senses")
	ErrEmptySense      = errors.New("sense label is empty")
)

// ErrSynsetNotFound indicates a synset ID that does not resolve in the ontology.
var ErrSynsetNotFound = errors.New("synset not found")

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s exceeds maximum length of %d", field, maxLen)
}

// NotFound wraps ErrSynsetNotFound with the offending ID.
func NotFound(id NodeID) error {
	return fmt.Errorf("%w: %s", ErrSynsetNotFound, id)
}

// Package store provides PostgreSQL data access for the ontology.
//
// Each store owns one concern (lookups, imports) and embeds shared
// helpers (Pool, logger) via the Base struct. Stores never import each
// other; shared logic lives in this file.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/lexiconlab/babelex/internal/dbpool"
	"github.com/lexiconlab/babelex/internal/models"
)

const defaultQueryTimeout = 30 * time.Second

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// beginTx starts a read-write transaction.
func (b *Base) beginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	return tx, nil
}

// beginReadTx starts a read-only transaction.
func (b *Base) beginReadTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.Pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("beginning read transaction: %w", err)
	}

	return tx, nil
}

// requireSynset returns models.ErrSynsetNotFound unless id exists.
func requireSynset(ctx context.Context, tx pgx.Tx, id models.NodeID) error {
	var exists bool

	err := tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM synsets WHERE id = $1)", string(id)).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking synset existence: %w", err)
	}

	if !exists {
		return models.NotFound(id)
	}

	return nil
}

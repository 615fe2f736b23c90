// Package store persists inbox records behind a small backend interface.
// Records (records.go) owns id generation, rendering and error mapping;
// backends only run single statements.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/inbox/internal/domain"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrStore wraps every failure coming from the underlying database.
	ErrStore = errors.New("record store failure")
)

// Backend is a storage engine for records. Implementations must be safe for
// concurrent use and must return ErrNotFound from Get for unknown ids.
type Backend interface {
	// Migrate creates or updates the schema.
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error

	Insert(ctx context.Context, rec *domain.Record) error
	Get(ctx context.Context, id string) (*domain.Record, error)

	// List returns records ordered by created_at DESC, id DESC.
	List(ctx context.Context, offset, limit int) ([]*domain.Record, error)
	Count(ctx context.Context) (int64, error)

	// Search matches term case-insensitively against title, description
	// and markdown, with List's ordering.
	Search(ctx context.Context, term string, offset, limit int) ([]*domain.Record, error)
	CountSearch(ctx context.Context, term string) (int64, error)

	// DeleteMany removes the given ids and reports how many existed.
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	// PurgeOlderThan removes records created strictly before cutoff (epoch ms).
	PurgeOlderThan(ctx context.Context, cutoff int64) (int64, error)
}

// LikeEscape is the escape character used by LikePattern.
const LikeEscape = `\`

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern turns a search term into a LIKE/ILIKE substring pattern with
// wildcards in term escaped, to be used with ESCAPE '\'.
func LikePattern(term string) string {
	return "%" + likeReplacer.Replace(term) + "%"
}

// wrapStore tags err as a store failure unless it is already a known sentinel.
func wrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrStore) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

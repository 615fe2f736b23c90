package store

import (
	"context"
	"fmt"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"

	"github.com/MrSnakeDoc/inbox/internal/domain"
	"github.com/MrSnakeDoc/inbox/internal/logger"
)

// Renderer derives HTML and a description from Markdown.
type Renderer interface {
	Render(markdown string) (html string, description string)
}

// Cache is an optional read-through cache for Get. A miss is (nil, nil).
type Cache interface {
	Get(ctx context.Context, id string) (*domain.Record, error)
	Set(ctx context.Context, rec *domain.Record) error
	Delete(ctx context.Context, ids ...string) error
	Flush(ctx context.Context) error
}

// Records is the record store used by the HTTP layer and the CLI.
type Records struct {
	backend  Backend
	renderer Renderer
	cache    Cache
	log      logger.Logger
	now      func() time.Time
	newID    func() (string, error)
}

type Option func(*Records)

// WithCache enables the read-through cache.
func WithCache(c Cache) Option {
	return func(r *Records) { r.cache = c }
}

// WithClock replaces time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(r *Records) { r.now = now }
}

// WithIDGenerator replaces the UUIDv7 generator (tests).
func WithIDGenerator(gen func() (string, error)) Option {
	return func(r *Records) { r.newID = gen }
}

func NewRecords(backend Backend, renderer Renderer, log logger.Logger, opts ...Option) *Records {
	r := &Records{
		backend:  backend,
		renderer: renderer,
		log:      log,
		now:      time.Now,
		newID:    newUUIDv7,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func newUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Create validates in, renders it and stores a new record.
func (r *Records) Create(ctx context.Context, in domain.NewRecord) (*domain.Record, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	id, err := r.newID()
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}

	html, desc := r.renderer.Render(in.Markdown)
	rec := &domain.Record{
		ID:          id,
		CreatedAt:   r.now().UnixMilli(),
		Title:       in.Title,
		Markdown:    in.Markdown,
		HTML:        html,
		Description: desc,
		Source:      in.Source,
		URL:         in.URL,
	}

	if err := r.backend.Insert(ctx, rec); err != nil {
		return nil, wrapStore("insert", err)
	}
	return rec, nil
}

// Get returns the record with id, or ErrNotFound.
func (r *Records) Get(ctx context.Context, id string) (*domain.Record, error) {
	if id == "" {
		return nil, domain.Invalid("ID is required")
	}

	if r.cache != nil {
		rec, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("record cache read failed", logger.String("id", id), logger.Error(err))
		} else if rec != nil {
			return rec, nil
		}
	}

	rec, err := r.backend.Get(ctx, id)
	if err != nil {
		return nil, wrapStore("get", err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, rec); err != nil {
			r.log.Warn("record cache write failed", logger.String("id", id), logger.Error(err))
		}
	}
	return rec, nil
}

// List returns one page of records, newest first.
func (r *Records) List(ctx context.Context, pr domain.PageRequest) (*domain.Page, error) {
	if err := pr.Validate(); err != nil {
		return nil, err
	}

	total, err := r.backend.Count(ctx)
	if err != nil {
		return nil, wrapStore("count", err)
	}
	if int64(pr.Offset()) >= total {
		return domain.NewPage(nil, total, pr.Limit), nil
	}
	recs, err := r.backend.List(ctx, pr.Offset(), pr.Limit)
	if err != nil {
		return nil, wrapStore("list", err)
	}
	return domain.NewPage(recs, total, pr.Limit), nil
}

// Search returns one page of records whose title, description or markdown
// contains term, ignoring case.
func (r *Records) Search(ctx context.Context, term string, pr domain.PageRequest) (*domain.Page, error) {
	term, err := domain.SearchTerm(term)
	if err != nil {
		return nil, err
	}
	if err := pr.Validate(); err != nil {
		return nil, err
	}

	total, err := r.backend.CountSearch(ctx, term)
	if err != nil {
		return nil, wrapStore("count search", err)
	}
	if int64(pr.Offset()) >= total {
		return domain.NewPage(nil, total, pr.Limit), nil
	}
	recs, err := r.backend.Search(ctx, term, pr.Offset(), pr.Limit)
	if err != nil {
		return nil, wrapStore("search", err)
	}
	return domain.NewPage(recs, total, pr.Limit), nil
}

// DeleteMany removes every listed id and returns how many records existed.
// Duplicates are counted once and unknown ids are ignored.
func (r *Records) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, id := range ids {
		if id != "" {
			set.Add(id)
		}
	}
	if set.Cardinality() == 0 {
		return 0, domain.Invalid("ids array is required")
	}

	unique := set.ToSlice()
	n, err := r.backend.DeleteMany(ctx, unique)
	if err != nil {
		return 0, wrapStore("delete", err)
	}

	if r.cache != nil {
		if err := r.cache.Delete(ctx, unique...); err != nil {
			r.log.Warn("record cache eviction failed", logger.Int("ids", len(unique)), logger.Error(err))
		}
	}
	return n, nil
}

// Count returns the total number of stored records.
func (r *Records) Count(ctx context.Context) (int64, error) {
	n, err := r.backend.Count(ctx)
	return n, wrapStore("count", err)
}

// PurgeOlderThan removes records created before cutoff and flushes the
// cache when anything was removed.
func (r *Records) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := r.backend.PurgeOlderThan(ctx, cutoff.UnixMilli())
	if err != nil {
		return 0, wrapStore("purge", err)
	}
	if n > 0 && r.cache != nil {
		if err := r.cache.Flush(ctx); err != nil {
			r.log.Warn("cache flush after purge failed", logger.Error(err))
		}
	}
	return n, nil
}

// Ping checks that the backend is reachable.
func (r *Records) Ping(ctx context.Context) error {
	return wrapStore("ping", r.backend.Ping(ctx))
}

// Migrate prepares the backend schema.
func (r *Records) Migrate(ctx context.Context) error {
	return wrapStore("migrate", r.backend.Migrate(ctx))
}

func (r *Records) Close() error {
	return r.backend.Close()
}

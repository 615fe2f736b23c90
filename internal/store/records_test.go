package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/inbox/internal/domain"
	"github.com/MrSnakeDoc/inbox/internal/logger"
	"github.com/MrSnakeDoc/inbox/internal/render"
	"github.com/MrSnakeDoc/inbox/internal/store"
	"github.com/MrSnakeDoc/inbox/internal/store/memory"
)

// tickingClock advances one millisecond per call so records get distinct times.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Millisecond)
		return t
	}
}

func newRecords(t *testing.T, opts ...store.Option) (*store.Records, *memory.Store) {
	t.Helper()
	backend := memory.New()
	opts = append([]store.Option{store.WithClock(tickingClock())}, opts...)
	return store.NewRecords(backend, render.New(render.DefaultDescriptionMax), logger.Nop(), opts...), backend
}

func create(t *testing.T, r *store.Records, title, md string) *domain.Record {
	t.Helper()
	rec, err := r.Create(context.Background(), domain.NewRecord{Title: title, Markdown: md})
	require.NoError(t, err)
	return rec
}

func TestCreateRendersAndAssignsIdentity(t *testing.T) {
	r, _ := newRecords(t)

	rec, err := r.Create(context.Background(), domain.NewRecord{
		Title:    "Note",
		Markdown: "**b**",
		URL:      "https://example.com/a",
		Source:   3,
	})
	require.NoError(t, err)

	parsed, err := uuid.Parse(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.NotZero(t, rec.CreatedAt)
	assert.Contains(t, rec.HTML, "<strong>b</strong>")
	assert.Equal(t, "b", rec.Description)
	assert.Equal(t, 3, rec.Source)

	got, err := r.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	r, backend := newRecords(t)

	tests := []struct {
		name string
		in   domain.NewRecord
	}{
		{name: "missing markdown", in: domain.NewRecord{Title: "t"}},
		{name: "blank title", in: domain.NewRecord{Title: "   ", Markdown: "x"}},
		{name: "bad url", in: domain.NewRecord{Title: "t", Markdown: "x", URL: "not a url"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Create(context.Background(), tt.in)
			assert.True(t, domain.IsValidation(err), "got %v", err)
		})
	}

	n, _ := backend.Count(context.Background())
	assert.Zero(t, n)
}

func TestCreateIDsAreUnique(t *testing.T) {
	r, _ := newRecords(t)
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		rec := create(t, r, "t", "x")
		require.False(t, seen[rec.ID], "duplicate id %s", rec.ID)
		seen[rec.ID] = true
	}
}

func TestGetMissing(t *testing.T) {
	r, _ := newRecords(t)
	_, err := r.Get(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NotErrorIs(t, err, store.ErrStore)
}

func TestListNewestFirstWithPagination(t *testing.T) {
	r, _ := newRecords(t)
	var created []*domain.Record
	for i := 0; i < 5; i++ {
		created = append(created, create(t, r, fmt.Sprintf("n%d", i), "x"))
	}

	page, err := r.List(context.Background(), domain.PageRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.TotalRecords)
	assert.EqualValues(t, 3, page.TotalPages)
	require.Len(t, page.Records, 2)
	assert.Equal(t, created[4].ID, page.Records[0].ID)
	assert.Equal(t, created[3].ID, page.Records[1].ID)

	last, err := r.List(context.Background(), domain.PageRequest{Page: 3, Limit: 2})
	require.NoError(t, err)
	require.Len(t, last.Records, 1)
	assert.Equal(t, created[0].ID, last.Records[0].ID)

	beyond, err := r.List(context.Background(), domain.PageRequest{Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond.Records)
	assert.EqualValues(t, 5, beyond.TotalRecords)

	huge, err := r.List(context.Background(), domain.PageRequest{Page: 500000000000000000, Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, huge.Records)
	assert.EqualValues(t, 5, huge.TotalRecords)
}

func TestListRejectsBadPaging(t *testing.T) {
	r, _ := newRecords(t)
	for _, pr := range []domain.PageRequest{{Page: 0, Limit: 10}, {Page: 1, Limit: 0}, {Page: 1, Limit: 101}} {
		_, err := r.List(context.Background(), pr)
		assert.True(t, domain.IsValidation(err), "%+v: got %v", pr, err)
	}
}

func TestSearch(t *testing.T) {
	r, _ := newRecords(t)
	groceries := create(t, r, "Groceries", "milk and eggs")
	create(t, r, "Reading", "a book about Go")
	todo := create(t, r, "todo", "buy MILK")

	page, err := r.Search(context.Background(), "  milk ", domain.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.TotalRecords)
	assert.EqualValues(t, 1, page.TotalPages)
	require.Len(t, page.Records, 2)
	assert.Equal(t, todo.ID, page.Records[0].ID)
	assert.Equal(t, groceries.ID, page.Records[1].ID)

	for _, term := range []string{"", "   "} {
		_, err := r.Search(context.Background(), term, domain.PageRequest{Page: 1, Limit: 10})
		assert.True(t, domain.IsValidation(err))
	}
}

func TestDeleteMany(t *testing.T) {
	r, _ := newRecords(t)
	a := create(t, r, "a", "x")
	b := create(t, r, "b", "x")

	n, err := r.DeleteMany(context.Background(), []string{a.ID, a.ID, "unknown"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = r.DeleteMany(context.Background(), []string{a.ID})
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = r.Get(context.Background(), b.ID)
	assert.NoError(t, err)

	_, err = r.DeleteMany(context.Background(), nil)
	assert.True(t, domain.IsValidation(err))
	_, err = r.DeleteMany(context.Background(), []string{""})
	assert.True(t, domain.IsValidation(err))
}

func TestPurgeOlderThan(t *testing.T) {
	r, _ := newRecords(t)
	old := create(t, r, "old", "x")
	fresh := create(t, r, "fresh", "x")

	n, err := r.PurgeOlderThan(context.Background(), fresh.Created())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = r.Get(context.Background(), old.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// failingBackend fails every call with a driver-like error.
type failingBackend struct{ *memory.Store }

var errDriver = errors.New("driver: connection reset")

func (failingBackend) Insert(context.Context, *domain.Record) error { return errDriver }
func (failingBackend) Count(context.Context) (int64, error)        { return 0, errDriver }
func (failingBackend) Ping(context.Context) error                  { return errDriver }
func (failingBackend) DeleteMany(context.Context, []string) (int64, error) {
	return 0, errDriver
}

func TestBackendErrorsAreWrapped(t *testing.T) {
	r := store.NewRecords(failingBackend{memory.New()}, render.New(0), logger.Nop())
	ctx := context.Background()

	_, err := r.Create(ctx, domain.NewRecord{Title: "t", Markdown: "x"})
	assert.ErrorIs(t, err, store.ErrStore)
	assert.ErrorIs(t, err, errDriver)

	_, err = r.List(ctx, domain.PageRequest{Page: 1, Limit: 10})
	assert.ErrorIs(t, err, store.ErrStore)

	_, err = r.DeleteMany(ctx, []string{"a"})
	assert.ErrorIs(t, err, store.ErrStore)

	assert.ErrorIs(t, r.Ping(ctx), store.ErrStore)
}

// mapCache is a Cache backed by a map, with optional failures.
type mapCache struct {
	mu    sync.Mutex
	items map[string]*domain.Record
	gets  int
	fail  bool
}

func (c *mapCache) Get(_ context.Context, id string) (*domain.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.fail {
		return nil, errors.New("cache down")
	}
	return c.items[id], nil
}

func (c *mapCache) Set(_ context.Context, rec *domain.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("cache down")
	}
	c.items[rec.ID] = rec
	return nil
}

func (c *mapCache) Delete(_ context.Context, ids ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.items, id)
	}
	return nil
}

func (c *mapCache) Flush(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("cache down")
	}
	clear(c.items)
	return nil
}

func TestPurgeFlushesCache(t *testing.T) {
	cache := &mapCache{items: map[string]*domain.Record{}}
	r, _ := newRecords(t, store.WithCache(cache))
	rec := create(t, r, "old", "x")

	_, err := r.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	require.Contains(t, cache.items, rec.ID)

	n, err := r.PurgeOlderThan(context.Background(), time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Empty(t, cache.items)

	_, err = r.Get(context.Background(), rec.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetReadsThroughCache(t *testing.T) {
	cache := &mapCache{items: map[string]*domain.Record{}}
	r, backend := newRecords(t, store.WithCache(cache))
	rec := create(t, r, "cached", "x")

	_, err := r.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Contains(t, cache.items, rec.ID)

	// Served from cache even if the backend lost it.
	_, _ = backend.DeleteMany(context.Background(), []string{rec.ID})
	got, err := r.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	_, err = r.DeleteMany(context.Background(), []string{rec.ID})
	require.NoError(t, err)
	assert.NotContains(t, cache.items, rec.ID)
}

func TestCacheFailureDoesNotFailGet(t *testing.T) {
	cache := &mapCache{items: map[string]*domain.Record{}, fail: true}
	r, _ := newRecords(t, store.WithCache(cache))
	rec := create(t, r, "t", "x")

	got, err := r.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, 1, cache.gets)
}

func TestLikePattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"milk", "%milk%"},
		{"100%", `%100\%%`},
		{"a_b", `%a\_b%`},
		{`c:\tmp`, `%c:\\tmp%`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, store.LikePattern(tt.in))
		})
	}
}

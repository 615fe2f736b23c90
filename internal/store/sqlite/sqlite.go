// Package sqlite is the default record backend: a single-file SQLite database
// accessed through gorm.
package sqlite

import (
	"context"
	"errors"
	"fmt"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/MrSnakeDoc/inbox/internal/domain"
	"github.com/MrSnakeDoc/inbox/internal/store"
)

// shorthand is the row layout of the shorthands table.
type shorthand struct {
	ID          string `gorm:"primaryKey;type:text"`
	ContentHTML string `gorm:"column:content_html;not null"`
	ContentMD   string `gorm:"column:content_md;not null"`
	Description string `gorm:"column:description"`
	FromSource  int    `gorm:"column:from_source;not null;default:0"`
	Title       string `gorm:"column:title;not null"`
	URL         string `gorm:"column:url"`
	CreatedAt   int64  `gorm:"column:created_at;not null;autoCreateTime:false;index:idx_shorthands_created_at"`
}

func (shorthand) TableName() string { return "shorthands" }

func fromRecord(r *domain.Record) *shorthand {
	return &shorthand{
		ID:          r.ID,
		ContentHTML: r.HTML,
		ContentMD:   r.Markdown,
		Description: r.Description,
		FromSource:  r.Source,
		Title:       r.Title,
		URL:         r.URL,
		CreatedAt:   r.CreatedAt,
	}
}

func (s *shorthand) toRecord() *domain.Record {
	return &domain.Record{
		ID:          s.ID,
		CreatedAt:   s.CreatedAt,
		Title:       s.Title,
		Markdown:    s.ContentMD,
		HTML:        s.ContentHTML,
		Description: s.Description,
		Source:      s.FromSource,
		URL:         s.URL,
	}
}

func toRecords(rows []*shorthand) []*domain.Record {
	out := make([]*domain.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toRecord())
	}
	return out
}

const (
	newestFirst = "created_at DESC, id DESC"
	matchClause = `title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\' OR content_md LIKE ? ESCAPE '\'`
)

// Store implements store.Backend on gorm.
type Store struct {
	db *gorm.DB
}

var _ store.Backend = (*Store)(nil)

// Open opens (creating if needed) the SQLite database at dsn. ":memory:" works
// for tests; the pool is pinned to one connection so it stays a single database.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return NewStore(db), nil
}

// NewStore wraps an already opened gorm handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&shorthand{})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Insert(ctx context.Context, rec *domain.Record) error {
	return s.db.WithContext(ctx).Create(fromRecord(rec)).Error
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Record, error) {
	var row shorthand
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toRecord(), nil
}

func (s *Store) List(ctx context.Context, offset, limit int) ([]*domain.Record, error) {
	rows := make([]*shorthand, 0, limit)
	err := s.db.WithContext(ctx).
		Order(newestFirst).
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&shorthand{}).Count(&n).Error
	return n, err
}

// SQLite LIKE already ignores ASCII case; non-ASCII letters match exactly.
func (s *Store) Search(ctx context.Context, term string, offset, limit int) ([]*domain.Record, error) {
	p := store.LikePattern(term)
	rows := make([]*shorthand, 0, limit)
	err := s.db.WithContext(ctx).
		Where(matchClause, p, p, p).
		Order(newestFirst).
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

func (s *Store) CountSearch(ctx context.Context, term string) (int64, error) {
	p := store.LikePattern(term)
	var n int64
	err := s.db.WithContext(ctx).Model(&shorthand{}).Where(matchClause, p, p, p).Count(&n).Error
	return n, err
}

func (s *Store) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	res := s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&shorthand{})
	return res.RowsAffected, res.Error
}

func (s *Store) PurgeOlderThan(ctx context.Context, cutoff int64) (int64, error) {
	res := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&shorthand{})
	return res.RowsAffected, res.Error
}

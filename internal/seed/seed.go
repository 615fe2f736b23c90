// Package seed fills an empty record store with sample records.
package seed

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/inbox/internal/domain"
	"github.com/MrSnakeDoc/inbox/internal/logger"
)

// Target is the part of the record store seeding needs.
type Target interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, in domain.NewRecord) (*domain.Record, error)
}

// Run inserts samples in order when the store is empty and returns how many
// were created. A store that already holds records is left untouched.
func Run(ctx context.Context, target Target, samples []Sample, log logger.Logger) (int, error) {
	n, err := target.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	if n > 0 {
		log.Info("store already has records, skipping seed", logger.Int64("records", n))
		return 0, nil
	}

	created := 0
	for i, s := range samples {
		rec, err := target.Create(ctx, s.NewRecord())
		if err != nil {
			return created, fmt.Errorf("sample %d (%q): %w", i+1, s.Title, err)
		}
		log.Debug("sample created", logger.String("id", rec.ID), logger.String("title", rec.Title))
		created++
	}

	log.Info("seeded sample records", logger.Int("created", created))
	return created, nil
}

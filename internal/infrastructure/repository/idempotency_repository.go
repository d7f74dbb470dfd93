package repository

import (
	"context"
	"errors"
	"time"

	domain "course-portal/internal/domain/registration"
	interfaces "course-portal/internal/interfaces/infrastructure"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ interfaces.IdempotencyRepository = (*IdempotencyRepository)(nil)

// IdempotencyRepository stores replayable register responses in the
// idempotency_keys table.
type IdempotencyRepository struct {
	db *gorm.DB
}

func NewIdempotencyRepository(db *gorm.DB) *IdempotencyRepository {
	return &IdempotencyRepository{db: db}
}

// Create stores the entry, replacing an older one under the same key. Only
// expired keys reach this point with an existing row.
func (r *IdempotencyRepository) Create(ctx context.Context, entry *domain.IdempotencyKey) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			UpdateAll: true,
		}).
		Create(entry).Error
}

func (r *IdempotencyRepository) GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error) {
	var entry domain.IdempotencyKey
	err := r.db.WithContext(ctx).Where("key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *IdempotencyRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&domain.IdempotencyKey{}).Error
}

// PurgeExpired removes entries that expired before now and reports how many
// were dropped.
func (r *IdempotencyRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&domain.IdempotencyKey{})
	return res.RowsAffected, res.Error
}

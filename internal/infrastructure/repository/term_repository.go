package repository

import (
	"context"
	"errors"

	domain "course-portal/internal/domain/registration"
	interfaces "course-portal/internal/interfaces/infrastructure"

	"gorm.io/gorm"
)

// TermRepository implements TermRepository using GORM
type TermRepository struct {
	db *gorm.DB
}

func NewTermRepository(db *gorm.DB) interfaces.TermRepository {
	return &TermRepository{
		db: db,
	}
}

func (r *TermRepository) Create(ctx context.Context, term *domain.Term) error {
	return r.db.WithContext(ctx).Create(term).Error
}

func (r *TermRepository) GetByID(ctx context.Context, id int) (*domain.Term, error) {
	var term domain.Term
	err := r.db.WithContext(ctx).First(&term, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &term, nil
}

// GetCurrent returns the term flagged current. The flag is set by seeding
// rather than derived from the date range so the demo term stays current.
func (r *TermRepository) GetCurrent(ctx context.Context) (*domain.Term, error) {
	var term domain.Term
	err := r.db.WithContext(ctx).
		Where("is_current = ?", true).
		Order("start_date DESC").
		First(&term).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &term, nil
}

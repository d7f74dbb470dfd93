package repository

import (
	"context"
	"errors"

	domain "course-portal/internal/domain/registration"
	interfaces "course-portal/internal/interfaces/infrastructure"

	"gorm.io/gorm"
)

type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) interfaces.CourseRepository {
	return &CourseRepository{
		db: db,
	}
}

func (r *CourseRepository) Create(ctx context.Context, course *domain.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *CourseRepository) GetByID(ctx context.Context, id int) (*domain.Course, error) {
	var course domain.Course
	err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) ListByTerm(ctx context.Context, termID int) ([]*domain.Course, error) {
	courses := make([]*domain.Course, 0)
	err := r.db.WithContext(ctx).
		Where("term_id = ?", termID).
		Order("id").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}

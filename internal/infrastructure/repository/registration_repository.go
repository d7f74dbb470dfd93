package repository

import (
	"context"

	domain "course-portal/internal/domain/registration"
	interfaces "course-portal/internal/interfaces/infrastructure"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RegistrationRepository implements RegistrationRepository using GORM
type RegistrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) interfaces.RegistrationRepository {
	return &RegistrationRepository{
		db: db,
	}
}

// Create inserts the registration row only; Course and Term are references.
func (r *RegistrationRepository) Create(ctx context.Context, registration *domain.Registration) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(registration).Error
}

func (r *RegistrationRepository) ListByStudent(ctx context.Context, studentID string) ([]*domain.Registration, error) {
	registrations := make([]*domain.Registration, 0)
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Term").
		Where("student_id = ?", studentID).
		Order("id").
		Find(&registrations).Error
	if err != nil {
		return nil, err
	}
	return registrations, nil
}

func (r *RegistrationRepository) ExistsForCourseAndTerm(ctx context.Context, studentID string, courseID, termID int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Registration{}).
		Where("student_id = ? AND course_id = ? AND term_id = ?", studentID, courseID, termID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

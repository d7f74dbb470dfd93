package repository

import (
	"context"
	"errors"

	domain "course-portal/internal/domain/registration"
	interfaces "course-portal/internal/interfaces/infrastructure"

	"gorm.io/gorm"
)

type StudentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) interfaces.StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

func (r *StudentRepository) Create(ctx context.Context, student *domain.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *StudentRepository) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	var student domain.Student
	err := r.db.WithContext(ctx).First(&student, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

func (r *StudentRepository) GetByUsername(ctx context.Context, username string) (*domain.Student, error) {
	var student domain.Student
	err := r.db.WithContext(ctx).First(&student, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

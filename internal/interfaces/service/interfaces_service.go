package service

import (
	"context"

	domain "course-portal/internal/domain/registration"
)

type CatalogService interface {
	GetCurrentTerm(ctx context.Context) (*domain.Term, error)
	GetCoursesForTerm(ctx context.Context, termID int) ([]*domain.Course, error)
}

type RegistrationService interface {
	// Register enrolls the student; idempotencyKey may be empty.
	Register(ctx context.Context, studentID string, courseID int, req *domain.RegisterRequest, idempotencyKey string) (*domain.Registration, error)
	GetStudentRegistrations(ctx context.Context, studentID string) ([]*domain.Registration, error)
}

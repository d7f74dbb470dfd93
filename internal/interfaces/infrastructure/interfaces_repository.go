package interfaces

import (
	"context"

	domain "course-portal/internal/domain/registration"
)

// Repositories return (nil, nil) when a record does not exist.

type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) error
	GetByID(ctx context.Context, id string) (*domain.Student, error)
	GetByUsername(ctx context.Context, username string) (*domain.Student, error)
}

type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) error
	GetByID(ctx context.Context, id int) (*domain.Course, error)
	ListByTerm(ctx context.Context, termID int) ([]*domain.Course, error)
}

type TermRepository interface {
	Create(ctx context.Context, term *domain.Term) error
	GetByID(ctx context.Context, id int) (*domain.Term, error)
	GetCurrent(ctx context.Context) (*domain.Term, error)
}

type RegistrationRepository interface {
	// Create assigns the registration ID.
	Create(ctx context.Context, registration *domain.Registration) error
	ListByStudent(ctx context.Context, studentID string) ([]*domain.Registration, error)
	ExistsForCourseAndTerm(ctx context.Context, studentID string, courseID, termID int) (bool, error)
}

type IdempotencyRepository interface {
	Create(ctx context.Context, key *domain.IdempotencyKey) error
	GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error)
	Delete(ctx context.Context, key string) error
}

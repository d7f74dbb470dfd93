package database

import (
	"context"

	"course-portal/internal/infrastructure/repository"

	"gorm.io/gorm"
)

// SeedFixture inserts the demo term, courses and students in one transaction.
// Existing rows are left untouched so seeding can be repeated.
func SeedFixture(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repository.SeedFixture(ctx,
			repository.NewStudentRepository(tx),
			repository.NewCourseRepository(tx),
			repository.NewTermRepository(tx),
		)
	})
}

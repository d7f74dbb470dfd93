package repository

import (
	"context"
	"fmt"

	"course-portal/internal/infrastructure/fixture"
	interfaces "course-portal/internal/interfaces/infrastructure"
)

// SeedFixture writes the demo term, courses and students through the given
// repositories. Rows that already exist are skipped so seeding can be repeated.
func SeedFixture(ctx context.Context, students interfaces.StudentRepository, courses interfaces.CourseRepository, terms interfaces.TermRepository) error {
	term := fixture.CurrentTerm()
	existingTerm, err := terms.GetByID(ctx, term.ID)
	if err != nil {
		return fmt.Errorf("failed to look up term %d: %w", term.ID, err)
	}
	if existingTerm == nil {
		if err := terms.Create(ctx, term); err != nil {
			return fmt.Errorf("failed to seed term: %w", err)
		}
	}

	for _, c := range fixture.Courses() {
		existing, err := courses.GetByID(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("failed to look up course %d: %w", c.ID, err)
		}
		if existing != nil {
			continue
		}
		if err := courses.Create(ctx, c); err != nil {
			return fmt.Errorf("failed to seed course %d: %w", c.ID, err)
		}
	}

	seeded, err := fixture.Students()
	if err != nil {
		return fmt.Errorf("failed to prepare fixture students: %w", err)
	}
	for _, s := range seeded {
		existing, err := students.GetByID(ctx, s.ID)
		if err != nil {
			return fmt.Errorf("failed to look up student %s: %w", s.ID, err)
		}
		if existing != nil {
			continue
		}
		if err := students.Create(ctx, s); err != nil {
			return fmt.Errorf("failed to seed student %s: %w", s.ID, err)
		}
	}
	return nil
}

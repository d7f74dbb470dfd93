package repository

import (
	"context"
	"testing"

	domain "course-portal/internal/domain/registration"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemory(t *testing.T) *MemoryRepositories {
	t.Helper()
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	return repos
}

func TestMemoryRepositories_Seeded(t *testing.T) {
	repos := newMemory(t)
	ctx := context.Background()

	student, err := repos.Students.GetByUsername(ctx, "student002")
	require.NoError(t, err)
	require.NotNil(t, student)
	assert.Equal(t, "002", student.ID)
	assert.Equal(t, []int{1}, student.CompletedCourses)

	term, err := repos.Terms.GetCurrent(ctx)
	require.NoError(t, err)
	require.NotNil(t, term)
	assert.Equal(t, "Spring 2024", term.Name)

	courses, err := repos.Courses.ListByTerm(ctx, term.ID)
	require.NoError(t, err)
	require.Len(t, courses, 8)
	for i, c := range courses {
		assert.Equal(t, i+1, c.ID, "courses are ordered by id")
	}
}

func TestMemoryRepositories_MissingRecordsReturnNil(t *testing.T) {
	repos := newMemory(t)
	ctx := context.Background()

	s, err := repos.Students.GetByID(ctx, "999")
	assert.NoError(t, err)
	assert.Nil(t, s)

	c, err := repos.Courses.GetByID(ctx, 42)
	assert.NoError(t, err)
	assert.Nil(t, c)

	courses, err := repos.Courses.ListByTerm(ctx, 7)
	assert.NoError(t, err)
	assert.Empty(t, courses)
}

func TestMemoryRegistrationRepository(t *testing.T) {
	repo := NewMemoryRegistrationRepository()
	ctx := context.Background()

	first := &domain.Registration{StudentID: "001", CourseID: 3, TermID: 1, Status: domain.StatusEnrolled}
	second := &domain.Registration{StudentID: "002", CourseID: 2, TermID: 1, Status: domain.StatusEnrolled}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	regs, err := repo.ListByStudent(ctx, "001")
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, 3, regs[0].CourseID)

	exists, err := repo.ExistsForCourseAndTerm(ctx, "001", 3, 1)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsForCourseAndTerm(ctx, "001", 3, 2)
	require.NoError(t, err)
	assert.False(t, exists, "same course in another term is not a duplicate")

	empty, err := repo.ListByStudent(ctx, "003")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMemoryIdempotencyRepository(t *testing.T) {
	repo := NewMemoryIdempotencyRepository()
	ctx := context.Background()

	got, err := repo.GetByKey(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Create(ctx, &domain.IdempotencyKey{Key: "k1", StatusCode: 201}))
	got, err = repo.GetByKey(ctx, "k1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 201, got.StatusCode)

	require.NoError(t, repo.Delete(ctx, "k1"))
	got, err = repo.GetByKey(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSeedFixture_RepeatableAndDuplicateChecks(t *testing.T) {
	repos := newMemory(t)
	ctx := context.Background()

	require.NoError(t, SeedFixture(ctx, repos.Students, repos.Courses, repos.Terms))
	courses, err := repos.Courses.ListByTerm(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, courses, 8)

	assert.Error(t, repos.Courses.Create(ctx, &domain.Course{ID: 1, TermID: 1, Name: "Again"}))
	assert.Error(t, repos.Terms.Create(ctx, &domain.Term{ID: 1, Name: "Again"}))
	assert.Error(t, repos.Students.Create(ctx, &domain.Student{ID: "001", Username: "other"}))
	assert.Error(t, repos.Students.Create(ctx, &domain.Student{ID: "099", Username: "student001"}))

	require.NoError(t, repos.Students.Create(ctx, &domain.Student{ID: "004", Username: "student004"}))
	student, err := repos.Students.GetByUsername(ctx, "student004")
	require.NoError(t, err)
	require.NotNil(t, student)
	assert.Equal(t, "004", student.ID)
}

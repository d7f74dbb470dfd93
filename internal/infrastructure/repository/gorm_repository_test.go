package repository

import (
	"context"
	"testing"
	"time"

	domain "course-portal/internal/domain/registration"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock, func() { sqlDB.Close() }
}

func TestStudentRepository_GetByUsername(t *testing.T) {
	db, mock, cleanup := newGormMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "completed_courses", "created_at"}).
		AddRow("001", "student001", "hash", `[1,2]`, time.Now())
	mock.ExpectQuery(`SELECT \* FROM "students" WHERE username = \$1`).
		WillReturnRows(rows)

	student, err := repo.GetByUsername(context.Background(), "student001")
	require.NoError(t, err)
	require.NotNil(t, student)
	assert.Equal(t, "001", student.ID)
	assert.Equal(t, []int{1, 2}, student.CompletedCourses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_GetByIDNotFound(t *testing.T) {
	db, mock, cleanup := newGormMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "students" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	student, err := repo.GetByID(context.Background(), "404")
	assert.NoError(t, err)
	assert.Nil(t, student)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_ListByTerm(t *testing.T) {
	db, mock, cleanup := newGormMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	rows := sqlmock.NewRows([]string{"id", "term_id", "name", "prereqs"}).
		AddRow(1, 1, "Introduction to Programming", `[]`).
		AddRow(3, 1, "Algorithms", `[1,2]`)
	mock.ExpectQuery(`SELECT \* FROM "courses" WHERE term_id = \$1 ORDER BY id`).
		WillReturnRows(rows)

	courses, err := repo.ListByTerm(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, []int{}, courses[0].Prereqs)
	assert.Equal(t, []int{1, 2}, courses[1].Prereqs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTermRepository_GetCurrent(t *testing.T) {
	db, mock, cleanup := newGormMock(t)
	defer cleanup()
	repo := NewTermRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "start_date", "end_date", "is_current"}).
		AddRow(1, "Spring 2024", "2024-01-15", "2024-05-15", true)
	mock.ExpectQuery(`SELECT \* FROM "terms" WHERE is_current = \$1`).
		WillReturnRows(rows)

	term, err := repo.GetCurrent(context.Background())
	require.NoError(t, err)
	require.NotNil(t, term)
	assert.Equal(t, "2024-01-15", term.StartDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_Create(t *testing.T) {
	db, mock, cleanup := newGormMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "registrations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	reg := &domain.Registration{
		StudentID: "001",
		CourseID:  3,
		TermID:    1,
		Status:    domain.StatusEnrolled,
		Course:    domain.Course{ID: 3, Name: "Algorithms"},
		Term:      domain.Term{ID: 1, Name: "Spring 2024"},
	}
	require.NoError(t, repo.Create(context.Background(), reg))
	assert.Equal(t, int64(7), reg.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_ExistsForCourseAndTerm(t *testing.T) {
	db, mock, cleanup := newGormMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "registrations" WHERE student_id = \$1 AND course_id = \$2 AND term_id = \$3`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsForCourseAndTerm(context.Background(), "001", 3, 1)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_ListByStudentPreloads(t *testing.T) {
	db, mock, cleanup := newGormMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery(`SELECT \* FROM "registrations" WHERE student_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "course_id", "term_id", "status", "created_at"}).
			AddRow(1, "001", 3, 1, "enrolled", time.Now()))
	mock.ExpectQuery(`SELECT \* FROM "courses" WHERE "courses"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "term_id", "name", "prereqs"}).
			AddRow(3, 1, "Algorithms", `[1,2]`))
	mock.ExpectQuery(`SELECT \* FROM "terms" WHERE "terms"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "start_date", "end_date", "is_current"}).
			AddRow(1, "Spring 2024", "2024-01-15", "2024-05-15", true))

	regs, err := repo.ListByStudent(context.Background(), "001")
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, "Algorithms", regs[0].Course.Name)
	assert.Equal(t, "Spring 2024", regs[0].Term.Name)
	assert.Equal(t, domain.StatusEnrolled, regs[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepository_GetByKey(t *testing.T) {
	db, mock, cleanup := newGormMock(t)
	defer cleanup()
	repo := NewIdempotencyRepository(db)

	expires := time.Now().Add(time.Hour)
	mock.ExpectQuery(`SELECT \* FROM "idempotency_keys" WHERE key = \$1 LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "student_id", "status_code", "response_data", "expires_at"}).
			AddRow("abc", "001", 201, `{"registration":{}}`, expires))

	entry, err := repo.GetByKey(context.Background(), "abc")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 201, entry.StatusCode)
	assert.False(t, entry.IsExpired())

	mock.ExpectQuery(`SELECT \* FROM "idempotency_keys" WHERE key = \$1 LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"key"}))
	entry, err = repo.GetByKey(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, entry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepository_CreateUpserts(t *testing.T) {
	db, mock, cleanup := newGormMock(t)
	defer cleanup()
	repo := NewIdempotencyRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "idempotency_keys" .* ON CONFLICT \("key"\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	now := time.Now()
	err := repo.Create(context.Background(), &domain.IdempotencyKey{
		Key:         "abc",
		StudentID:   "001",
		StatusCode:  201,
		ProcessedAt: now,
		ExpiresAt:   now.Add(time.Hour),
		CreatedAt:   now,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepository_PurgeExpired(t *testing.T) {
	db, mock, cleanup := newGormMock(t)
	defer cleanup()
	repo := NewIdempotencyRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "idempotency_keys" WHERE expires_at < \$1`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	n, err := repo.PurgeExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

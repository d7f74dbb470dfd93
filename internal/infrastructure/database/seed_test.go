package database

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedFixture_InsertsMissingRows(t *testing.T) {
	db, mock := newGormMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "terms" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Spring 2024"))
	for id := 1; id <= 7; id++ {
		mock.ExpectQuery(`SELECT \* FROM "courses" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "term_id", "name", "prereqs"}).AddRow(id, 1, "existing", `[]`))
	}
	mock.ExpectQuery(`SELECT \* FROM "courses" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`INSERT INTO "courses"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	for _, id := range []string{"001", "002", "003"} {
		mock.ExpectQuery(`SELECT \* FROM "students" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "completed_courses"}).AddRow(id, "student"+id, `[]`))
	}
	mock.ExpectCommit()

	require.NoError(t, SeedFixture(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedFixture_RollsBackOnError(t *testing.T) {
	db, mock := newGormMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "terms" WHERE id = \$1`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := SeedFixture(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to look up term 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

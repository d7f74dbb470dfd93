package database

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"course-portal/pkg/logger"

	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migrations returns the SQL migrations compiled into the binary.
func Migrations() fs.FS {
	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

type Migration struct {
	ID          string
	Description string
	SQL         string
	AppliedAt   *time.Time
}

// MigrationRunner applies "<id>_<description>.sql" files in id order and
// records each one in schema_migrations.
type MigrationRunner struct {
	db     *gorm.DB
	source fs.FS
}

func NewMigrationRunner(db *gorm.DB, source fs.FS) *MigrationRunner {
	return &MigrationRunner{
		db:     db,
		source: source,
	}
}

func (mr *MigrationRunner) createMigrationsTable() error {
	sql := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		id VARCHAR(255) PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);`

	return mr.db.Exec(sql).Error
}

type appliedMigration struct {
	ID        string
	AppliedAt time.Time
}

func (mr *MigrationRunner) getAppliedMigrations() (map[string]time.Time, error) {
	var rows []appliedMigration
	err := mr.db.Raw("SELECT id, applied_at FROM schema_migrations ORDER BY id").Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	applied := make(map[string]time.Time, len(rows))
	for _, row := range rows {
		applied[row.ID] = row.AppliedAt
	}
	return applied, nil
}

func (mr *MigrationRunner) loadMigrations() ([]*Migration, error) {
	names, err := fs.Glob(mr.source, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	migrations := make([]*Migration, 0, len(names))
	for _, name := range names {
		m, err := mr.readMigrationFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}
		migrations = append(migrations, m)
	}
	return migrations, nil
}

func (mr *MigrationRunner) readMigrationFile(name string) (*Migration, error) {
	content, err := fs.ReadFile(mr.source, name)
	if err != nil {
		return nil, err
	}

	filename := path.Base(name)
	parts := strings.SplitN(filename, "_", 2)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid migration filename format: %s", filename)
	}

	description := strings.TrimSuffix(parts[1], ".sql")
	description = strings.ReplaceAll(description, "_", " ")

	return &Migration{
		ID:          parts[0],
		Description: description,
		SQL:         string(content),
	}, nil
}

// RunMigrations applies pending migrations and returns how many ran.
func (mr *MigrationRunner) RunMigrations() (int, error) {
	if err := mr.createMigrationsTable(); err != nil {
		return 0, fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := mr.getAppliedMigrations()
	if err != nil {
		return 0, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	migrations, err := mr.loadMigrations()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, migration := range migrations {
		if _, done := applied[migration.ID]; done {
			continue
		}

		err = mr.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(migration.SQL).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", migration.ID, err)
			}

			if err := tx.Exec("INSERT INTO schema_migrations (id, description) VALUES (?, ?)",
				migration.ID, migration.Description).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", migration.ID, err)
			}
			return nil
		})
		if err != nil {
			return count, err
		}

		logger.Info("Applied migration: %s - %s", migration.ID, migration.Description)
		count++
	}

	return count, nil
}

func (mr *MigrationRunner) GetMigrationStatus() ([]Migration, error) {
	if err := mr.createMigrationsTable(); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := mr.getAppliedMigrations()
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	migrations, err := mr.loadMigrations()
	if err != nil {
		return nil, err
	}

	status := make([]Migration, 0, len(migrations))
	for _, m := range migrations {
		if at, ok := applied[m.ID]; ok {
			appliedAt := at
			m.AppliedAt = &appliedAt
		}
		status = append(status, *m)
	}
	return status, nil
}

// RunMigrations applies the embedded migrations.
func RunMigrations(db *gorm.DB) error {
	n, err := NewMigrationRunner(db, Migrations()).RunMigrations()
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("Database migrations completed, %d applied", n)
	return nil
}

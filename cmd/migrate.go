package cmd

import (
	"fmt"

	"course-portal/internal/config"
	"course-portal/internal/infrastructure/database"
	"course-portal/pkg/logger"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration management",
	Long:  "Manage the PostgreSQL schema used when backend.repository is postgres",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Run pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(db *gorm.DB) error {
			n, err := database.NewMigrationRunner(db, database.Migrations()).RunMigrations()
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s)\n", n)
			return nil
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(db *gorm.DB) error {
			migrations, err := database.NewMigrationRunner(db, database.Migrations()).GetMigrationStatus()
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"ID", "Description", "Status"})
			for _, m := range migrations {
				status := "Pending"
				if m.AppliedAt != nil {
					status = "Applied at " + m.AppliedAt.Format("2006-01-02 15:04:05")
				}
				t.AppendRow(table.Row{m.ID, m.Description, status})
			}
			t.SetStyle(table.StyleLight)
			t.Render()
			return nil
		})
	},
}

var migrateSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo students, term and courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(db *gorm.DB) error {
			if err := database.SeedFixture(cmd.Context(), db); err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Demo catalog seeded")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
	migrateCmd.AddCommand(migrateSeedCmd)
}

func withDatabase(fn func(db *gorm.DB) error) error {
	cfg := config.Get()
	dbConfig := database.FromAppConfig(cfg.Database)
	dbConfig.Verbose = verbose

	db, err := database.NewConnection(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn("Failed to close database: %v", err)
		}
	}()

	return fn(db)
}

package database

import (
	"fmt"
	"time"

	"course-portal/internal/config"
	"course-portal/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Verbose  bool
}

// FromAppConfig maps the database section of the application config.
func FromAppConfig(c config.DatabaseConfig) Config {
	return Config{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.Username,
		Password: c.Password,
		DBName:   c.Name,
		SSLMode:  c.SSLMode,
	}
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s connect_timeout=10",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode)
}

func NewConnection(config Config) (*gorm.DB, error) {
	logger.WithFields(map[string]interface{}{
		"host":    config.Host,
		"port":    config.Port,
		"dbname":  config.DBName,
		"sslmode": config.SSLMode,
	}).Debug("Connecting to database")

	logLevel := gormlogger.Warn
	if config.Verbose {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(config.DSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func HealthCheck(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

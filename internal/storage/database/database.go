package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"playfolio/internal/config"
	"playfolio/internal/models"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage owns the process-wide connection pool. Handlers share it and it is
// closed exactly once, at shutdown.
type Storage struct {
	DB *gorm.DB
}

func New(cfg config.Database) (*Storage, error) {
	const op = "storage.database.New"

	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.GetDSN())
	default:
		dsn := cfg.GetDSN()
		dsnConfig, err := mysqldriver.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		dialector = mysql.New(mysql.Config{DSN: dsn, DSNConfig: dsnConfig})
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{DB: db}, nil
}

func (s *Storage) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Storage) Migrate() error {
	const op = "storage.database.Migrate"

	if err := s.DB.AutoMigrate(&models.User{}, &models.Game{}, &models.Review{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

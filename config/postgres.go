package config

import (
	"Excusas/models/postgres"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	_ "github.com/lib/pq"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func gormConfig(verbose bool) *gorm.Config {
	cfg := &gorm.Config{TranslateError: true}
	if verbose {
		cfg.Logger = logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
			logger.Config{
				SlowThreshold:             time.Second, // Slow SQL threshold
				LogLevel:                  logger.Info,
				IgnoreRecordNotFoundError: false,
				Colorful:                  true,
			},
		)
	}
	return cfg
}

// ConnectGORM returns a GORM DB instance connected to PostgreSQL
func ConnectGORM(pg PostgresConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		pg.User, pg.Password, pg.Host, pg.Port, pg.Database, pg.SSLMode)

	sqlDB1, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Printf("Error connecting to PostgreSQL: %v", err)
		return nil, err
	}

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 sqlDB1,
		PreferSimpleProtocol: true,
	}), gormConfig(pg.Verbose))
	if err != nil {
		log.Printf("Error connecting to PostgreSQL with GORM: %v", err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying SQL DB: %v", err)
		return nil, err
	}

	if err := sqlDB.Ping(); err != nil {
		log.Printf("Error pinging PostgreSQL: %v", err)
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Successfully connected to PostgreSQL with GORM")
	return db, nil
}

// ConnectSQLite opens a SQLite database at path (":memory:" for a throwaway
// one). SQLite allows a single writer, so the pool is capped at one
// connection.
func ConnectSQLite(path string, verbose bool) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig(verbose))
	if err != nil {
		log.Printf("Error opening SQLite database %s: %v", path, err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	log.Printf("Successfully opened SQLite database %s", path)
	return db, nil
}

// Connect opens the database selected by cfg.DatabaseDriver.
func Connect(cfg *Config) (*gorm.DB, error) {
	switch cfg.DatabaseDriver {
	case DriverSQLite:
		return ConnectSQLite(cfg.SQLitePath, cfg.Postgres.Verbose)
	default:
		return ConnectGORM(cfg.Postgres)
	}
}

// MigrateDatabase migrates the GORM models to the database
func MigrateDatabase(db *gorm.DB) error {
	err := db.AutoMigrate(
		postgres.Excuse{},
		postgres.ExcuseVote{},
		postgres.Battle{})

	if err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	log.Println("Database migrated successfully")

	return nil
}

package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func init() {
	// Load env from .env if present. Connection happens later, explicitly.
	godotenv.Load()
}

// DatabaseConfig holds the tenant database connection parameters.
// Each tenant has its own database; the caller resolves which one to open.
type DatabaseConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string
}

// DatabaseConfigFromEnv reads the connection parameters from the environment.
func DatabaseConfigFromEnv() DatabaseConfig {
	return DatabaseConfig{
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		Name:     os.Getenv("DB_NAME"),
	}
}

// OpenDatabase opens a GORM handle for one tenant database and returns it.
// The handle is injected into the ledger components; there is no package
// global to reach for.
func OpenDatabase(cfg DatabaseConfig) (*gorm.DB, error) {
	network := "tcp"
	address := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)

	// Cloud SQL Auth Proxy exposes a unix socket under /cloudsql/<CONNECTION_NAME>.
	if strings.HasPrefix(cfg.Host, "/cloudsql/") {
		network = "unix"
		address = cfg.Host
	}

	dsn := fmt.Sprintf("%s:%s@%s(%s)/%s?multiStatements=true&parseTime=true",
		cfg.User, cfg.Password, network, address, cfg.Name)

	gormLogger := logger.New(
		log.New(io.Discard, "", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
		},
	)
	if strings.EqualFold(os.Getenv("DB_LOG_QUERIES"), "true") {
		gormLogger = logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold: 200 * time.Millisecond,
				LogLevel:      logger.Info,
			},
		)
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormLogger,
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.Name, err)
	}

	if err := db.Use(otelgorm.NewPlugin()); err != nil {
		return nil, fmt.Errorf("install otelgorm plugin: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// OpenDatabaseWithRetry keeps retrying until the database accepts connections.
// Useful for container startup ordering; tests use it against throwaway MySQL.
func OpenDatabaseWithRetry(cfg DatabaseConfig, maxWait time.Duration) (*gorm.DB, error) {
	deadline := time.Now().Add(maxWait)
	var lastErr error
	for time.Now().Before(deadline) {
		db, err := OpenDatabase(cfg)
		if err == nil {
			if sqlDB, derr := db.DB(); derr == nil {
				if perr := sqlDB.Ping(); perr == nil {
					return db, nil
				} else {
					lastErr = perr
				}
			}
		} else {
			lastErr = err
		}
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("database not reachable after %s: %w", maxWait, lastErr)
}

// migrate runs the schema migration and, when SEED_TENANT_ID is set, seeds
// the system chart of accounts for that tenant.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/migrate
//	SEED_TENANT_ID=<business id> go run ./cmd/migrate
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"bitbucket.org/mmdatafocus/retail_backend/config"
	"bitbucket.org/mmdatafocus/retail_backend/models"
)

func main() {
	ctx := context.Background()

	db, err := config.OpenDatabaseWithRetry(config.DatabaseConfigFromEnv(), 2*time.Minute)
	if err != nil {
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}

	if err := models.MigrateTables(db); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("migration complete")

	tenantId := os.Getenv("SEED_TENANT_ID")
	if tenantId == "" {
		return
	}
	if err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return models.SeedSystemAccounts(ctx, tx, tenantId)
	}); err != nil {
		fmt.Fprintf(os.Stderr, "seeding system accounts failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("system accounts seeded for tenant %s\n", tenantId)
}

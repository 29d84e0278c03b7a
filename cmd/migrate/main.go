package main

import (
	"log"
	"os"

	"member-access-be/internal/model"
	"member-access-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Starting GORM migration")

	// 3. Pre-Migration: extensions GORM AutoMigrate does not handle
	color.Yellow("Step 1: Extensions")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Red("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	color.Yellow("Step 2: AutoMigrate")

	models := []interface{}{
		&model.User{},
		&model.AdminUser{},
		&model.Product{},
		&model.Tariff{},
		&model.Order{},
		&model.Payment{},
		&model.Subscription{},
		&model.AccessGrantRecord{},
		&model.AuditRecord{},
		&model.Notification{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: partial index backing the one-open-subscription
	// rule at the storage level.
	color.Yellow("Step 3: Constraints")

	postMigrationSQL := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_open_subscription_triple
		 ON subscriptions (user_id, product_id, tariff_id)
		 WHERE status IN ('active', 'trial') AND canceled_at IS NULL;`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Red("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	color.Green("✅ Database migration completed")
}

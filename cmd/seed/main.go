package main

import (
	"log"
	"os"

	"member-access-be/internal/model"
	"member-access-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding back-office fixtures")

	seedAdmin(db)
	seedCatalog(db)

	color.Green("✅ Seeding completed")
}

func seedAdmin(db *gorm.DB) {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "changeme123"
		color.Yellow("SEED_ADMIN_PASSWORD not set, using default. Change it.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error: Failed to hash admin password: %v", err)
	}

	admin := model.AdminUser{
		Email:        email,
		FullName:     "Back Office Admin",
		PasswordHash: string(hash),
		IsActive:     true,
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&admin)
	if result.Error != nil {
		log.Fatalf("Error: Failed to seed admin: %v", result.Error)
	}
	color.Green("Admin user: %s", email)
}

func seedCatalog(db *gorm.DB) {
	clubId := "club-main"
	offerMonthly := "offer-monthly"
	offerYearly := "offer-yearly"
	courseCode := "core-course"

	products := []model.Product{
		{
			Name:        "Pro Membership",
			Slug:        "pro-membership",
			Description: "Community access plus the core course",
			ClubId:      &clubId,
			IsActive:    true,
			SortOrder:   1,
			Tariffs: []*model.Tariff{
				{
					Name:          "Monthly",
					Price:         49,
					Currency:      "USD",
					DurationDays:  30,
					CourseOfferId: &offerMonthly,
					CourseCode:    &courseCode,
					IsActive:      true,
				},
				{
					Name:          "Yearly",
					Price:         490,
					Currency:      "USD",
					DurationDays:  365,
					CourseOfferId: &offerYearly,
					CourseCode:    &courseCode,
					IsActive:      true,
				},
			},
		},
		{
			Name:        "Community Only",
			Slug:        "community-only",
			Description: "Chat community access without course enrollment",
			ClubId:      &clubId,
			IsActive:    true,
			SortOrder:   2,
			Tariffs: []*model.Tariff{
				{
					Name:         "Monthly",
					Price:        19,
					Currency:     "USD",
					DurationDays: 30,
					IsActive:     true,
				},
			},
		},
	}

	for i := range products {
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).Create(&products[i])
		if result.Error != nil {
			log.Fatalf("Error: Failed to seed product %s: %v", products[i].Slug, result.Error)
		}
		color.Green("Product: %s (%d tariffs)", products[i].Slug, len(products[i].Tariffs))
	}
}

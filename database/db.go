package database

import (
	"fmt"
	"os"

	"denku-backend/logger"
	"denku-backend/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	// .env is optional outside local dev; real env vars win either way.
	_ = godotenv.Load()

	host := os.Getenv("DB_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"), port)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.L().Fatal().Err(err).Msg("could not connect to database")
	}
}

func AutoMigrate() {
	err := DB.AutoMigrate(
		&models.Organization{},
		&models.OrganizationSettings{},
		&models.Profile{},
		&models.Plan{},
		&models.PlanAddon{},
		&models.PhoneLine{},
		&models.Agent{},
		&models.Call{},
		&models.Lead{},
		&models.ContactRequest{},
		&models.Ticket{},
		&models.Appointment{},
		&models.AuditLog{},
		&models.IdempotencyKey{},
	)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("automigrate failed")
	}

	if err := EnsureConstraints(); err != nil {
		logger.L().Fatal().Err(err).Msg("constraint migration failed")
	}
	if err := SeedPlans(); err != nil {
		logger.L().Fatal().Err(err).Msg("plan seeding failed")
	}
}

// SeedPlans inserts the plan catalog rows that don't exist yet. Existing rows
// keep their values so ops can tune limits directly in the DB.
func SeedPlans() error {
	plans := []models.Plan{
		{Id: "free", Name: "Free", ConcurrencyBase: 1, PhoneNumberBase: 1, MonthlyMinutes: 60},
		{Id: "starter", Name: "Starter", ConcurrencyBase: 2, PhoneNumberBase: 2, MonthlyMinutes: 500},
		{Id: "growth", Name: "Growth", ConcurrencyBase: 5, PhoneNumberBase: 5, MonthlyMinutes: 2000},
		{Id: "scale", Name: "Scale", ConcurrencyBase: 15, PhoneNumberBase: 15, MonthlyMinutes: 10000},
	}
	for _, p := range plans {
		var existing models.Plan
		err := DB.Where("id = ?", p.Id).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if e2 := DB.Create(&p).Error; e2 != nil {
				return e2
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

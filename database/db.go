package database

import (
	"fmt"
	"log"
	"os"

	"encomiendas-backend/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func Connect() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=America/Guayaquil",
		env("DB_HOST", "db"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"), env("DB_PORT", "5432"))

	var err error
	// TranslateError surfaces unique violations as gorm.ErrDuplicatedKey, which
	// the sequence-race retry in the reception controller depends on.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
}

// AutoMigrate handles the public schema: users and enterprises. Tenant tables
// live in per-enterprise schemas, see MigrateTenantSchema.
func AutoMigrate() {
	if err := DB.AutoMigrate(&models.User{}, &models.Enterprise{}); err != nil {
		log.Fatalf("public automigrate failed: %v", err)
	}
}

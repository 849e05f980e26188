package config

import (
	"fmt"
	"log"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/farellandr/templebook/internal/models"
)

type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	Port string `envconfig:"PORT" default:"8080"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
	// TicketSecret keys the ticket codec. Kept separate from the JWT
	// secret so either can rotate without invalidating the other.
	TicketSecret string `envconfig:"TICKET_SECRET_KEY" required:"true"`

	AdminEmail    string `envconfig:"ADMIN_EMAIL" default:"admin@templebook.com"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:""`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := enableUUIDExtension(db); err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&models.User{}, &models.Temple{}, &models.TimeSlot{}, &models.Booking{})
	if err != nil {
		return nil, err
	}

	seedSuperuser(db, cfg)

	return db, nil
}

// seedSuperuser creates the approval admin on first boot. Skipped unless
// ADMIN_PASSWORD is set, so production deployments choose their own.
func seedSuperuser(db *gorm.DB, cfg *Config) {
	if cfg.AdminPassword == "" {
		return
	}

	var existing models.User
	if result := db.Where("email = ?", cfg.AdminEmail).First(&existing); result.Error == nil {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("failed to hash admin password: %v", err)
		return
	}

	admin := models.User{
		Name:       "System Admin",
		Email:      cfg.AdminEmail,
		Password:   string(hashed),
		Role:       models.RoleSuperuser,
		IsApproved: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("failed to seed superuser: %v", err)
	}
}

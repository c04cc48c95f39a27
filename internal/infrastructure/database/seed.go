package database

import (
	"errors"
	"strings"

	"github.com/sangkips/daybook-api/internal/config"
	"github.com/sangkips/daybook-api/internal/domain/entity"
	"github.com/sangkips/daybook-api/pkg/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SeedAdmin creates the configured admin account if no user has that e-mail yet.
func SeedAdmin(db *gorm.DB, cfg config.AdminConfig, log logrus.FieldLogger) error {
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}
	email := strings.ToLower(strings.TrimSpace(cfg.Email))

	var existing entity.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.WithField("email", email).Info("Admin user already exists")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := utils.HashPassword(cfg.Password)
	if err != nil {
		return err
	}
	name := cfg.Name
	if name == "" {
		name = "Administrator"
	}
	admin := entity.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     entity.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.WithField("email", email).Info("Admin user created")
	return nil
}

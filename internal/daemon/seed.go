package daemon

import (
	"gorm.io/gorm"

	"github.com/larik-22/howufeelin/internal/config"
	"github.com/larik-22/howufeelin/internal/db/models"
)

func seed(_ *config.Config, db *gorm.DB) {
	// Seed initial data if user table is empty

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count == 0 {
		// first login should change this password right away
		db.Create(
			&models.User{
				Username: "admin",
				Email:    "admin@localhost",
				Password: models.HashPassword("changeme"),
				Active:   true,
			},
		)
	}
}

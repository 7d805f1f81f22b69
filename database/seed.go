package database

import (
	"bus_booking/config"
	"bus_booking/constants"
	"bus_booking/model"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func SeedData(db *gorm.DB) {
	password := config.Config("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		slog.Error("hash admin password", "error", err)
		return
	}

	admin := model.User{
		Name:     "Administrator",
		Email:    "admin@busbooking.local",
		Phone:    "9000000000",
		Password: string(bytes),
		Role:     constants.ROLE_ADMIN,
	}
	if err := db.Where(model.User{Email: admin.Email}).FirstOrCreate(&admin).Error; err != nil {
		slog.Error("failed to seed admin", "email", admin.Email, "error", err)
	}

	busTypes := []model.BusType{
		{Type: "AC Sleeper"},
		{Type: "Non-AC Sleeper"},
		{Type: "AC Seater"},
		{Type: "Non-AC Seater"},
		{Type: "Volvo Multi-Axle"},
	}
	for i := range busTypes {
		if err := db.Where("type = ?", busTypes[i].Type).FirstOrCreate(&busTypes[i]).Error; err != nil {
			slog.Error("failed to seed bus type", "type", busTypes[i].Type, "error", err)
		}
	}

	cities := []model.City{
		{Name: "Mumbai"},
		{Name: "Pune"},
		{Name: "Nashik"},
		{Name: "Nagpur"},
		{Name: "Aurangabad"},
		{Name: "Kolhapur"},
		{Name: "Bengaluru"},
		{Name: "Hyderabad"},
		{Name: "Goa"},
	}
	for _, city := range cities {
		if err := db.FirstOrCreate(&city, model.City{Name: city.Name}).Error; err != nil {
			slog.Error("failed to seed city", "name", city.Name, "error", err)
		}
	}
}

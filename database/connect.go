package database

import (
	"bus_booking/config"
	"bus_booking/model"
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func ConnectDB(settings config.Settings) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		settings.DBHost, settings.DBPort, settings.DBUser, settings.DBPassword, settings.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	slog.Info("connection opened to database", "host", settings.DBHost, "name", settings.DBName)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	slog.Info("database migrated")

	SeedData(db)
	DB = db
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Vendor{},
		&model.City{},
		&model.BusType{},
		&model.Bus{},
		&model.Route{},
		&model.Schedule{},
		&model.Seat{},
		&model.Hold{},
		&model.HoldSeat{},
		&model.Booking{},
		&model.Passenger{},
		&model.Payment{},
		&model.Feedback{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

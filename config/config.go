package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

func loadEnv() {
	loadOnce.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			slog.Debug("no .env file loaded", "error", err)
		}
	})
}

// Config returns the value of an environment key, loading .env on first use.
func Config(key string) string {
	loadEnv()
	return os.Getenv(key)
}

type Settings struct {
	AppPort     string
	CorsOrigins string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr     string
	RedisPassword string

	JWTSecret      string
	AccessTokenTTL time.Duration

	HoldTTL           time.Duration
	SweepInterval     time.Duration
	ScheduleCloseCron string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	CloudinaryCloud  string
	CloudinaryKey    string
	CloudinarySecret string

	PaymentGateway string
	Location       *time.Location
}

func Load() Settings {
	return Settings{
		AppPort:     withDefault("APP_PORT", "8002"),
		CorsOrigins: withDefault("CORS_ORIGINS", "http://localhost:5173"),

		DBHost:     withDefault("DB_HOST", "localhost"),
		DBPort:     intValue("DB_PORT", 5432),
		DBUser:     withDefault("DB_USER", "postgres"),
		DBPassword: Config("DB_PASSWORD"),
		DBName:     withDefault("DB_NAME", "bus_booking"),

		RedisAddr:     withDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: Config("REDIS_PASSWORD"),

		JWTSecret:      Config("JWT_SECRET"),
		AccessTokenTTL: duration("ACCESS_TOKEN_TTL", 60*time.Minute),

		HoldTTL:           duration("HOLD_TTL", 10*time.Minute),
		SweepInterval:     duration("SWEEP_INTERVAL", 30*time.Second),
		ScheduleCloseCron: withDefault("SCHEDULE_CLOSE_CRON", "*/5 * * * *"),

		SMTPHost:     Config("SMTP_HOST"),
		SMTPPort:     intValue("SMTP_PORT", 587),
		SMTPUsername: Config("SMTP_USERNAME"),
		SMTPPassword: Config("SMTP_PASSWORD"),
		SMTPFrom:     Config("SMTP_FROM"),

		CloudinaryCloud:  Config("CLOUDINARY_CLOUD_NAME"),
		CloudinaryKey:    Config("CLOUDINARY_API_KEY"),
		CloudinarySecret: Config("CLOUDINARY_API_SECRET"),

		PaymentGateway: withDefault("PAYMENT_GATEWAY", "simulated"),
		Location:       location("APP_TIMEZONE"),
	}
}

// AllowedOrigins splits CORS_ORIGINS the way fiber's cors config expects it.
func (s Settings) AllowedOrigins() string {
	parts := strings.Split(s.CorsOrigins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ",")
}

func withDefault(key, fallback string) string {
	if v := Config(key); v != "" {
		return v
	}
	return fallback
}

func intValue(key string, fallback int) int {
	v := Config(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer setting, using default", "key", key, "value", v)
		return fallback
	}
	return n
}

func duration(key string, fallback time.Duration) time.Duration {
	v := Config(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration setting, using default", "key", key, "value", v)
		return fallback
	}
	return d
}

func location(key string) *time.Location {
	name := Config(key)
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		slog.Warn("unknown timezone, using local", "key", key, "value", name)
		return time.Local
	}
	return loc
}

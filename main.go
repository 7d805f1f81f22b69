package main

import (
	"bus_booking/config"
	"bus_booking/database"
	"bus_booking/handler"
	"bus_booking/helper"
	"bus_booking/middleware"
	"bus_booking/repository"
	"bus_booking/router"
	"bus_booking/service"
	"bus_booking/utils"
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jonboulle/clockwork"
)

const idempotencyTTL = 24 * time.Hour

func main() {
	setupLogger(config.Config("APP_ENV"))
	settings := config.Load()
	helper.ConfigureTokens(settings.JWTSecret, settings.AccessTokenTTL)

	db, err := database.ConnectDB(settings)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}

	var (
		publisher service.SeatPublisher
		events    handler.SeatSubscriber
		idem      middleware.IdempotencyStore
	)
	if rdb, err := database.ConnectRedis(context.Background(), settings); err != nil {
		slog.Warn("redis unavailable, live seat updates and idempotency keys disabled", "error", err)
	} else {
		seatEvents := helper.NewSeatEvents(rdb)
		publisher, events = seatEvents, seatEvents
		idem = helper.NewIdempotencyStore(rdb, idempotencyTTL)
		defer rdb.Close()
	}

	var uploader service.ImageUploader
	if settings.CloudinaryCloud != "" {
		cld, err := helper.InitCloudinary(settings.CloudinaryCloud, settings.CloudinaryKey, settings.CloudinarySecret)
		if err != nil {
			slog.Warn("cloudinary unavailable, bus image upload disabled", "error", err)
		} else {
			uploader = cld
		}
	}

	mail := utils.MailSettings{
		Host:     settings.SMTPHost,
		Port:     settings.SMTPPort,
		Username: settings.SMTPUsername,
		Password: settings.SMTPPassword,
		From:     settings.SMTPFrom,
	}

	clock := clockwork.NewRealClock()
	stores := repository.NewStores(db)
	fleet := repository.NewFleetRepository(db)

	opts := []service.ReservationOption{
		service.WithClock(clock),
		service.WithHoldTTL(settings.HoldTTL),
	}
	if publisher != nil {
		opts = append(opts, service.WithSeatPublisher(publisher))
	}
	reservations := service.NewReservationManager(stores, opts...)
	payments := service.NewPaymentSettlement(stores, reservations, service.NewSimulatedGateway(),
		service.WithNotifier(utils.NewTicketMailer(mail)),
	)
	sweeper := service.NewSweeper(stores, reservations, payments)
	schedules := service.NewScheduleService(stores, fleet, clock, settings.Location)

	h := &handler.Handler{
		Seats:     reservations,
		Sweeper:   sweeper,
		Bookings:  service.NewBookingOrchestrator(stores, reservations),
		Payments:  payments,
		Schedules: schedules,
		Auth: service.NewAuthService(
			repository.NewUserRepository(db),
			repository.NewVendorRepository(db),
			utils.NewNoticeMailer(mail),
			clock,
		),
		Fleet:    service.NewFleetService(fleet, uploader),
		Feedback: service.NewFeedbackService(stores, repository.NewFeedbackRepository(db)),
		Events:   events,
	}

	if err := helper.StartSeatSweeper(settings.SweepInterval, settings.Location, func(ctx context.Context) error {
		_, err := sweeper.SweepOnce(ctx)
		return err
	}); err != nil {
		slog.Error("start seat sweeper", "error", err)
		os.Exit(1)
	}
	defer helper.StopSeatSweeper()

	if err := helper.StartScheduleCloser(settings.ScheduleCloseCron, settings.Location, schedules.CloseDeparted); err != nil {
		slog.Error("start schedule closer", "error", err)
		os.Exit(1)
	}
	defer helper.StopScheduleCloser()

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     settings.AllowedOrigins(),
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept, Idempotency-Key",
		AllowCredentials: true,
		ExposeHeaders:    "Set-Cookie, X-Request-ID, Idempotent-Replayed",
		MaxAge:           600,
	}))

	router.SetupRoutes(app, h, idem)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			slog.Error("shutdown", "error", err)
		}
	}()

	if err := app.Listen(":" + settings.AppPort); err != nil {
		slog.Error("server stopped", "error", err)
	}
}

func setupLogger(env string) {
	var h slog.Handler
	if env == "production" {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(h))
}

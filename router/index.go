package router

import (
	"bus_booking/constants"
	"bus_booking/handler"
	"bus_booking/middleware"
	"bus_booking/model"
	"bus_booking/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App, h *handler.Handler, idem middleware.IdempotencyStore) {
	api := app.Group("/api", logger.New())
	v1 := api.Group("/v1")

	user := []fiber.Handler{middleware.Protected(), middleware.RequireRole(constants.ROLE_USER)}
	vendor := []fiber.Handler{middleware.Protected(), middleware.RequireRole(constants.ROLE_VENDOR)}
	admin := []fiber.Handler{middleware.Protected(), middleware.RequireRole(constants.ROLE_ADMIN)}

	auth := v1.Group("/auth")
	auth.Post("/register", validate.Body[model.RegisterUserInput](), h.RegisterUser)
	auth.Post("/login", validate.Body[model.LoginInput](), h.Login)
	auth.Post("/logout", h.Logout)
	auth.Get("/me", middleware.Protected(), h.Me)

	schedules := v1.Group("/schedules")
	schedules.Get("/search", validate.Query[model.SearchScheduleInput](), h.SearchSchedules)
	schedules.Get("/:id", validate.GetById("id"), h.GetSchedule)

	seats := v1.Group("/seats")
	seats.Get("/schedule/:id", validate.GetById("id"), h.GetSeats)
	seats.Get("/available-count/:id", validate.GetById("id"), h.AvailableCount)
	seats.Post("/unlock-expired", h.UnlockExpired)
	seats.Post("/lock", with(user, middleware.Idempotent(idem, "lock"), validate.Body[model.LockSeatsInput](), h.LockSeats)...)
	seats.Post("/release", with(user, validate.Body[model.ReleaseHoldInput](), h.ReleaseHold)...)

	bookings := v1.Group("/bookings", user...)
	bookings.Post("/", validate.Body[model.CreateBookingInput](), h.CreateBooking)
	bookings.Get("/user/:id", validate.GetById("id"), h.ListUserBookings)
	bookings.Get("/:id", validate.GetById("id"), h.GetBooking)
	bookings.Get("/:id/qr", validate.GetById("id"), h.BookingQRCode)
	bookings.Get("/:id/payments", validate.GetById("id"), h.ListPayments)
	bookings.Post("/:id/cancel", validate.GetById("id"), h.CancelBooking)
	bookings.Post("/:id/unlock", validate.GetById("id"), h.CancelBooking)

	payments := v1.Group("/payments", user...)
	payments.Post("/process", middleware.Idempotent(idem, "payment"), validate.Body[model.ProcessPaymentInput](), h.ProcessPayment)

	feedback := v1.Group("/feedback")
	feedback.Post("/", with(user, validate.Body[model.CreateFeedbackInput](), h.SubmitFeedback)...)
	feedback.Get("/booking/:id", validate.GetById("id"), h.GetBookingFeedback)
	feedback.Get("/statistics", h.FeedbackStatistics)

	v1.Get("/cities", h.ListCities)
	v1.Get("/bus-types", h.ListBusTypes)

	vendors := v1.Group("/vendor")
	vendors.Post("/register", validate.Body[model.RegisterVendorInput](), h.RegisterVendor)
	vendors.Post("/login", validate.Body[model.LoginInput](), h.LoginVendor)

	vendors.Put("/profile", with(vendor, validate.Body[model.UpdateVendorInput](), h.UpdateVendor)...)
	vendors.Get("/buses", with(vendor, h.ListBuses)...)
	vendors.Post("/buses", with(vendor, validate.Body[model.CreateBusInput](), h.CreateBus)...)
	vendors.Put("/buses/:id", with(vendor, validate.GetById("id"), validate.Body[model.UpdateBusInput](), h.UpdateBus)...)
	vendors.Delete("/buses/:id", with(vendor, validate.GetById("id"), h.DeleteBus)...)
	vendors.Post("/buses/:id/image", with(vendor, validate.GetById("id"), h.UploadBusImage)...)
	vendors.Get("/routes", with(vendor, h.ListRoutes)...)
	vendors.Post("/routes", with(vendor, validate.Body[model.CreateRouteInput](), h.CreateRoute)...)
	vendors.Get("/schedules", with(vendor, h.ListVendorSchedules)...)
	vendors.Post("/schedules", with(vendor, validate.Body[model.CreateScheduleInput](), h.CreateSchedule)...)
	vendors.Delete("/schedules/:id", with(vendor, validate.GetById("id"), h.DeleteSchedule)...)

	admins := v1.Group("/admin", admin...)
	admins.Get("/vendors", h.ListVendors)
	admins.Post("/vendors/:id/approve", validate.GetById("id"), h.DecideVendor(true))
	admins.Post("/vendors/:id/reject", validate.GetById("id"), h.DecideVendor(false))
	admins.Post("/cities", validate.Body[model.CreateCityInput](), h.CreateCity)

	app.Get("/ws/schedules/:id/seats", websocket.New(h.SeatStream))
}

func with(chain []fiber.Handler, handlers ...fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(chain)+len(handlers))
	out = append(out, chain...)
	return append(out, handlers...)
}

package handler

import (
	"bus_booking/constants"
	"bus_booking/middleware"
	"bus_booking/model"
	"bus_booking/service"
	"bus_booking/utils"
	"context"
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type SeatService interface {
	GetSeats(ctx context.Context, scheduleId uint) ([]model.Seat, error)
	Lock(ctx context.Context, scheduleId uint, seatIds []uint, holderId uint, ttl time.Duration) (*model.Hold, error)
	ReleaseOwned(ctx context.Context, holdId string, holderId uint) error
	TTL() time.Duration
}

type SweepService interface {
	SweepOnce(ctx context.Context) (service.SweepResult, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, userId, scheduleId uint, passengers []model.PassengerInput) (*model.Booking, error)
	CancelBooking(ctx context.Context, bookingId, userId uint) (*model.Booking, error)
	GetBooking(ctx context.Context, bookingId, userId uint) (*model.Booking, error)
	ListBookings(ctx context.Context, userId uint) ([]model.Booking, error)
}

type PaymentService interface {
	ProcessPayment(ctx context.Context, userId uint, input model.ProcessPaymentInput) (*model.PaymentResult, error)
	ListPayments(ctx context.Context, bookingId, userId uint) ([]model.Payment, error)
}

type ScheduleService interface {
	CreateSchedule(ctx context.Context, vendorId uint, input model.CreateScheduleInput) (*model.Schedule, error)
	Search(ctx context.Context, input model.SearchScheduleInput) ([]model.ScheduleResponse, error)
	GetSchedule(ctx context.Context, id uint) (model.ScheduleResponse, error)
	ListVendorSchedules(ctx context.Context, vendorId uint) ([]model.ScheduleResponse, error)
	AvailableCount(ctx context.Context, scheduleId uint) (int64, error)
	DeleteSchedule(ctx context.Context, vendorId, id uint) error
}

type AuthService interface {
	RegisterUser(ctx context.Context, input model.RegisterUserInput) (*model.User, error)
	Login(ctx context.Context, input model.LoginInput) (model.TokenData, error)
	Me(ctx context.Context, claim model.TokenClaim) (any, error)
	RegisterVendor(ctx context.Context, input model.RegisterVendorInput) (*model.Vendor, error)
	LoginVendor(ctx context.Context, input model.LoginInput) (model.TokenData, error)
	UpdateVendor(ctx context.Context, vendorId uint, input model.UpdateVendorInput) (*model.Vendor, error)
	ListVendors(ctx context.Context, status model.VendorStatus) ([]model.Vendor, error)
	ApproveVendor(ctx context.Context, vendorId uint) (*model.Vendor, error)
	RejectVendor(ctx context.Context, vendorId uint) (*model.Vendor, error)
}

type FleetService interface {
	CreateBus(ctx context.Context, vendorId uint, input model.CreateBusInput) (*model.Bus, error)
	UpdateBus(ctx context.Context, vendorId, busId uint, input model.UpdateBusInput) (*model.Bus, error)
	ListBuses(ctx context.Context, vendorId uint) ([]model.Bus, error)
	DeleteBus(ctx context.Context, vendorId, busId uint) error
	UploadBusImage(ctx context.Context, vendorId, busId uint, r io.Reader) (*model.Bus, error)
	ListBusTypes(ctx context.Context) ([]model.BusType, error)
	ListCities(ctx context.Context) ([]model.City, error)
	CreateCity(ctx context.Context, input model.CreateCityInput) (*model.City, error)
	CreateRoute(ctx context.Context, vendorId uint, input model.CreateRouteInput) (*model.Route, error)
	ListRoutes(ctx context.Context, vendorId uint) ([]model.Route, error)
}

type FeedbackService interface {
	Submit(ctx context.Context, userId uint, input model.CreateFeedbackInput) (*model.Feedback, error)
	GetForBooking(ctx context.Context, bookingId uint) (*model.Feedback, error)
	Statistics(ctx context.Context, busName string) (model.FeedbackStatistics, error)
}

// SeatSubscriber opens a pubsub subscription on a schedule's seat channel.
type SeatSubscriber interface {
	Subscribe(ctx context.Context, scheduleId uint) *redis.PubSub
}

// Handler serves the HTTP API.
type Handler struct {
	Seats     SeatService
	Sweeper   SweepService
	Bookings  BookingService
	Payments  PaymentService
	Schedules ScheduleService
	Auth      AuthService
	Fleet     FleetService
	Feedback  FeedbackService
	Events    SeatSubscriber
}

var errIdentityMismatch = errors.New("declared user does not match token")

// callerId resolves the acting user from the token. A userId sent by the
// client is accepted only when it names the same user.
func callerId(c *fiber.Ctx, declared uint) (uint, error) {
	claim := middleware.Claims(c)
	if claim.UserId == 0 {
		return 0, errIdentityMismatch
	}
	if declared != 0 && declared != claim.UserId {
		return 0, errIdentityMismatch
	}
	return claim.UserId, nil
}

func forbidden(c *fiber.Ctx, err error) error {
	return utils.ErrorResponse(c, fiber.StatusForbidden, constants.ERROR_FORBIDDEN, err)
}

// queryUserId reads the optional ?userId= some clients still send.
func queryUserId(c *fiber.Ctx) uint {
	return uint(c.QueryInt("userId", 0))
}

// Package repository persists the reservation domain with gorm.
package repository

import (
	"bus_booking/apperror"
	"bus_booking/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// InventoryStore owns seat rows. CompareAndSetStatus is the only seat
// status mutator.
type InventoryStore interface {
	GetSeats(ctx context.Context, scheduleId uint) ([]model.Seat, error)
	GetSeatsByIds(ctx context.Context, scheduleId uint, seatIds []uint) ([]model.Seat, error)
	CompareAndSetStatus(ctx context.Context, seatId uint, expected, next model.SeatStatus) (bool, error)
	CreateSeats(ctx context.Context, seats []model.Seat) error
	CountByStatus(ctx context.Context, scheduleId uint) (map[model.SeatStatus]int64, error)
}

type HoldStore interface {
	CreateHold(ctx context.Context, hold *model.Hold) error
	GetHold(ctx context.Context, holdId string) (*model.Hold, error)
	// GetHoldForUpdate row-locks the hold until the surrounding transaction ends.
	GetHoldForUpdate(ctx context.Context, holdId string) (*model.Hold, error)
	DeleteHold(ctx context.Context, holdId string) (bool, error)
	// ListExpiredHolds pages expired holds in (expires_at, id) order,
	// starting after the cursor when one is given.
	ListExpiredHolds(ctx context.Context, now time.Time, after *HoldCursor, limit int) ([]model.Hold, error)
	FindHoldsForSeats(ctx context.Context, seatIds []uint) ([]model.Hold, error)
}

// HoldCursor is the position of the last hold a page returned.
type HoldCursor struct {
	ExpiresAt time.Time
	ID        string
}

type BookingStore interface {
	CreateBooking(ctx context.Context, booking *model.Booking) error
	GetBooking(ctx context.Context, id uint) (*model.Booking, error)
	ListBookingsByUser(ctx context.Context, userId uint) ([]model.Booking, error)
	UpdateBookingStatus(ctx context.Context, id uint, from, to model.BookingStatus) (bool, error)
	SetBookingPaymentStatus(ctx context.Context, id uint, status model.PaymentStatus) error
	// ClosePendingByHold moves every PENDING booking of the hold to status.
	ClosePendingByHold(ctx context.Context, holdId string, status model.BookingStatus) (int64, error)
}

type PaymentStore interface {
	CreatePayment(ctx context.Context, payment *model.Payment) error
	SavePayment(ctx context.Context, payment *model.Payment) error
	GetPaymentByReference(ctx context.Context, reference string) (*model.Payment, error)
	ListPaymentsByBooking(ctx context.Context, bookingId uint) ([]model.Payment, error)
	ListPendingRefunds(ctx context.Context, limit int) ([]model.Payment, error)
}

type ScheduleStore interface {
	CreateSchedule(ctx context.Context, schedule *model.Schedule) error
	GetSchedule(ctx context.Context, id uint) (*model.Schedule, error)
	SearchSchedules(ctx context.Context, source, destination string, date time.Time) ([]model.Schedule, error)
	ListSchedulesByVendor(ctx context.Context, vendorId uint) ([]model.Schedule, error)
	DeleteSchedule(ctx context.Context, id uint) error
	PublicCodeExists(ctx context.Context, code string) (bool, error)
	CloseDeparted(ctx context.Context, now time.Time) (int64, error)
}

// Stores groups the reservation stores so services can run them inside
// one transaction.
type Stores interface {
	Seats() InventoryStore
	Holds() HoldStore
	Bookings() BookingStore
	Payments() PaymentStore
	Schedules() ScheduleStore
	WithinTx(ctx context.Context, fn func(tx Stores) error) error
}

type GormStores struct {
	db *gorm.DB
}

func NewStores(db *gorm.DB) *GormStores {
	return &GormStores{db: db}
}

func (s *GormStores) Seats() InventoryStore    { return &SeatRepository{db: s.db} }
func (s *GormStores) Holds() HoldStore         { return &HoldRepository{db: s.db} }
func (s *GormStores) Bookings() BookingStore   { return &BookingRepository{db: s.db} }
func (s *GormStores) Payments() PaymentStore   { return &PaymentRepository{db: s.db} }
func (s *GormStores) Schedules() ScheduleStore { return &ScheduleRepository{db: s.db} }

func (s *GormStores) WithinTx(ctx context.Context, fn func(tx Stores) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStores{db: tx})
	})
}

func notFoundOr(err error, resource string, id any, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFoundError{Resource: resource, ID: id, Err: err}
	}
	return apperror.Internal(op, err)
}

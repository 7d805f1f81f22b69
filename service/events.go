package service

import (
	"bus_booking/model"
	"context"
)

// SeatPublisher fans seat status changes out to live clients.
type SeatPublisher interface {
	PublishSeats(ctx context.Context, scheduleId uint, seats []model.Seat) error
}

// Notifier tells the traveller about a confirmed booking.
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking *model.Booking) error
}

type noopPublisher struct{}

func (noopPublisher) PublishSeats(context.Context, uint, []model.Seat) error { return nil }

type noopNotifier struct{}

func (noopNotifier) BookingConfirmed(context.Context, *model.Booking) error { return nil }

package service

import (
	"bus_booking/apperror"
	"bus_booking/model"
	"bus_booking/repository"
	"bus_booking/utils"
	"bus_booking/validate"
	"context"
	"fmt"
	"log/slog"
	"time"
)

// BookingOrchestrator turns held seats plus passenger details into a
// PENDING booking. It never changes seat status itself.
type BookingOrchestrator struct {
	stores  repository.Stores
	manager *ReservationManager
}

func NewBookingOrchestrator(stores repository.Stores, manager *ReservationManager) *BookingOrchestrator {
	return &BookingOrchestrator{stores: stores, manager: manager}
}

func (o *BookingOrchestrator) CreateBooking(ctx context.Context, userId, scheduleId uint, passengers []model.PassengerInput) (*model.Booking, error) {
	input := model.CreateBookingInput{UserId: userId, ScheduleId: scheduleId, Passengers: passengers}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if userId == 0 {
		return nil, apperror.ValidationError{Field: "userId", Reason: "is required"}
	}
	seen := make(map[uint]bool, len(passengers))
	for i, p := range passengers {
		if seen[p.SeatId] {
			return nil, apperror.ValidationError{
				Field:  fmt.Sprintf("passengers[%d].seatId", i),
				Reason: "seat is assigned to more than one passenger",
			}
		}
		seen[p.SeatId] = true
	}

	return retryInternal(ctx, "create booking", func() (*model.Booking, error) {
		return o.createBooking(ctx, userId, scheduleId, passengers)
	})
}

func (o *BookingOrchestrator) createBooking(ctx context.Context, userId, scheduleId uint, passengers []model.PassengerInput) (*model.Booking, error) {
	seatIds := make([]uint, 0, len(passengers))
	for _, p := range passengers {
		seatIds = append(seatIds, p.SeatId)
	}

	var booking *model.Booking
	err := o.stores.WithinTx(ctx, func(tx repository.Stores) error {
		now := o.manager.Clock().Now()

		if _, err := tx.Schedules().GetSchedule(ctx, scheduleId); err != nil {
			return err
		}

		hold, err := holdCovering(ctx, tx, userId, scheduleId, seatIds, now)
		if err != nil {
			return err
		}

		seats, err := tx.Seats().GetSeatsByIds(ctx, scheduleId, seatIds)
		if err != nil {
			return err
		}
		if missing := missingIds(seatIds, seats); len(missing) > 0 {
			return apperror.NotFoundError{Resource: "seat", ID: missing}
		}
		seatById := make(map[uint]model.Seat, len(seats))
		var notHeld []uint
		for _, s := range seats {
			seatById[s.ID] = s
			if s.Status != model.SeatHeld {
				notHeld = append(notHeld, s.ID)
			}
		}
		if len(notHeld) > 0 {
			return apperror.HoldMismatchError{SeatIDs: notHeld}
		}

		// A resubmitted passenger form replaces the earlier pending booking.
		if _, err := tx.Bookings().ClosePendingByHold(ctx, hold.ID, model.BookingCancelled); err != nil {
			return err
		}

		holdId := hold.ID
		booking = &model.Booking{
			UserId:        userId,
			ScheduleId:    scheduleId,
			HoldId:        &holdId,
			Status:        model.BookingPending,
			PaymentStatus: model.PaymentPending,
			BookingDate:   now,
		}
		var total float64
		for _, p := range passengers {
			seat := seatById[p.SeatId]
			total += seat.Price
			booking.Passengers = append(booking.Passengers, model.Passenger{
				SeatId:     seat.ID,
				SeatNumber: seat.SeatNumber,
				Price:      seat.Price,
				Name:       p.Name,
				Age:        p.Age,
				Gender:     p.Gender,
				Contact:    p.Contact,
				Email:      p.Email,
			})
		}
		booking.TotalAmount = utils.RoundMoney(total)
		return tx.Bookings().CreateBooking(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("booking created", "booking_id", booking.ID, "user_id", userId, "schedule_id", scheduleId, "total", booking.TotalAmount)
	return booking, nil
}

// holdCovering finds the single live hold of userId that contains every
// seat. Seats held by someone else, by an expired hold, or split across
// holds are a HoldMismatch.
func holdCovering(ctx context.Context, tx repository.Stores, userId, scheduleId uint, seatIds []uint, now time.Time) (*model.Hold, error) {
	holds, err := tx.Holds().FindHoldsForSeats(ctx, seatIds)
	if err != nil {
		return nil, err
	}
	holdBySeat := make(map[uint]*model.Hold)
	for i := range holds {
		for _, s := range holds[i].Seats {
			holdBySeat[s.SeatId] = &holds[i]
		}
	}

	var (
		covering   *model.Hold
		mismatched []uint
	)
	for _, id := range seatIds {
		h := holdBySeat[id]
		if h == nil || h.UserId != userId || h.ScheduleId != scheduleId || h.Expired(now) {
			mismatched = append(mismatched, id)
			continue
		}
		if covering != nil && covering.ID != h.ID {
			return nil, apperror.HoldMismatchError{SeatIDs: seatIds, Msg: "seats belong to different holds"}
		}
		covering = h
	}
	if len(mismatched) > 0 {
		return nil, apperror.HoldMismatchError{SeatIDs: mismatched}
	}
	return covering, nil
}

// CancelBooking releases the booking's hold and marks it CANCELLED. Only
// PENDING bookings can be cancelled.
func (o *BookingOrchestrator) CancelBooking(ctx context.Context, bookingId, userId uint) (*model.Booking, error) {
	var (
		booking  *model.Booking
		released *releasedSeats
	)
	err := o.stores.WithinTx(ctx, func(tx repository.Stores) error {
		var err error
		booking, err = tx.Bookings().GetBooking(ctx, bookingId)
		if err != nil {
			return err
		}
		if booking.UserId != userId {
			return apperror.NotFoundError{Resource: "booking", ID: bookingId}
		}
		if booking.Status != model.BookingPending {
			return apperror.ConflictError{Resource: "booking", Msg: fmt.Sprintf("cannot cancel a %s booking", booking.Status)}
		}

		if booking.HoldId != nil {
			released, err = releaseHold(ctx, tx, *booking.HoldId, model.BookingCancelled, false, o.manager.Clock().Now())
			if err != nil {
				return err
			}
		}
		ok, err := tx.Bookings().UpdateBookingStatus(ctx, booking.ID, model.BookingPending, model.BookingCancelled)
		if err != nil {
			return err
		}
		if !ok {
			// Settled or expired after it was read.
			return apperror.ConflictError{Resource: "booking", Msg: "booking is no longer pending"}
		}
		booking.Status = model.BookingCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("booking cancelled", "booking_id", bookingId, "user_id", userId)
	if released != nil && len(released.seatIds) > 0 {
		o.manager.publish(ctx, released.scheduleId, released.seatIds)
	}
	return booking, nil
}

func (o *BookingOrchestrator) GetBooking(ctx context.Context, bookingId, userId uint) (*model.Booking, error) {
	booking, err := o.stores.Bookings().GetBooking(ctx, bookingId)
	if err != nil {
		return nil, err
	}
	if booking.UserId != userId {
		return nil, apperror.NotFoundError{Resource: "booking", ID: bookingId}
	}
	return booking, nil
}

func (o *BookingOrchestrator) ListBookings(ctx context.Context, userId uint) ([]model.Booking, error) {
	return o.stores.Bookings().ListBookingsByUser(ctx, userId)
}

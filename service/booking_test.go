package service

import (
	"bus_booking/apperror"
	"bus_booking/model"
	"bus_booking/repository"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// staleBookingStores serves a fixed copy of one booking, as a read taken
// before a concurrent transaction committed would.
type staleBookingStores struct {
	*memStores
	booking model.Booking
}

func (s *staleBookingStores) Bookings() repository.BookingStore {
	return staleBookings{memBookings: memBookings{s.memStores}, booking: s.booking}
}

func (s *staleBookingStores) WithinTx(ctx context.Context, fn func(tx repository.Stores) error) error {
	return s.memStores.WithinTx(ctx, func(tx repository.Stores) error {
		return fn(&staleBookingStores{memStores: tx.(*memStores), booking: s.booking})
	})
}

type staleBookings struct {
	memBookings
	booking model.Booking
}

func (b staleBookings) GetBooking(ctx context.Context, id uint) (*model.Booking, error) {
	if id != b.booking.ID {
		return b.memBookings.GetBooking(ctx, id)
	}
	booking := b.booking
	return &booking, nil
}

func TestCreateBookingFromHold(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()
	orchestrator := NewBookingOrchestrator(f.stores, f.manager)

	hold, err := f.manager.Lock(ctx, f.schedule.ID, f.seatIds(0, 1), 1, 0)
	require.NoError(t, err)

	booking, err := orchestrator.CreateBooking(ctx, 1, f.schedule.ID, passengersFor(f.seatIds(0, 1)...))
	require.NoError(t, err)

	assert.Equal(t, model.BookingPending, booking.Status)
	assert.Equal(t, model.PaymentPending, booking.PaymentStatus)
	require.NotNil(t, booking.HoldId)
	assert.Equal(t, hold.ID, *booking.HoldId)
	assert.Equal(t, 1000.0, booking.TotalAmount)
	assert.Len(t, booking.Passengers, 2)
	assert.Equal(t, f.seats[0].SeatNumber, booking.Passengers[0].SeatNumber)

	// Booking never touches seat status.
	assert.Equal(t, model.SeatHeld, f.status(0))
	assert.Equal(t, model.SeatHeld, f.status(1))
}

func TestCreateBookingSubsetOfHold(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()
	orchestrator := NewBookingOrchestrator(f.stores, f.manager)

	_, err := f.manager.Lock(ctx, f.schedule.ID, f.seatIds(0, 1, 2), 1, 0)
	require.NoError(t, err)

	booking, err := orchestrator.CreateBooking(ctx, 1, f.schedule.ID, passengersFor(f.seatIds(1)...))
	require.NoError(t, err)
	assert.Equal(t, 500.0, booking.TotalAmount)
}

func TestCreateBookingHoldMismatch(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()
	orchestrator := NewBookingOrchestrator(f.stores, f.manager)

	_, err := f.manager.Lock(ctx, f.schedule.ID, f.seatIds(0), 1, 0)
	require.NoError(t, err)
	_, err = f.manager.Lock(ctx, f.schedule.ID, f.seatIds(1), 2, 0)
	require.NoError(t, err)

	tests := []struct {
		name  string
		seats []uint
		want  []uint
	}{
		{name: "never held", seats: f.seatIds(2), want: f.seatIds(2)},
		{name: "held by someone else", seats: f.seatIds(1), want: f.seatIds(1)},
		{name: "partly held", seats: f.seatIds(0, 3), want: f.seatIds(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := orchestrator.CreateBooking(ctx, 1, f.schedule.ID, passengersFor(tt.seats...))
			var mismatch apperror.HoldMismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.Equal(t, tt.want, mismatch.SeatIDs)
		})
	}
}

func TestCreateBookingAfterExpiryIsMismatch(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	orchestrator := NewBookingOrchestrator(f.stores, f.manager)

	_, err := f.manager.Lock(ctx, f.schedule.ID, f.seatIds(0), 1, 0)
	require.NoError(t, err)
	f.clock.Advance(HoldTimeout + time.Minute)

	_, err = orchestrator.CreateBooking(ctx, 1, f.schedule.ID, passengersFor(f.seatIds(0)...))
	assert.True(t, apperror.IsHoldMismatch(err))
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	orchestrator := NewBookingOrchestrator(f.stores, f.manager)

	_, err := f.manager.Lock(ctx, f.schedule.ID, f.seatIds(0, 1), 1, 0)
	require.NoError(t, err)

	badAge := passengersFor(f.seatIds(0)...)
	badAge[0].Age = 0
	badContact := passengersFor(f.seatIds(0)...)
	badContact[0].Contact = "12345"
	badEmail := passengersFor(f.seatIds(0)...)
	badEmail[0].Email = "not-an-email"

	tests := []struct {
		name       string
		passengers []model.PassengerInput
		field      string
	}{
		{name: "no passengers", passengers: nil, field: "passengers"},
		{name: "age", passengers: badAge, field: "passengers[0].age"},
		{name: "contact", passengers: badContact, field: "passengers[0].contact"},
		{name: "email", passengers: badEmail, field: "passengers[0].email"},
		{name: "duplicate seat", passengers: passengersFor(f.seats[0].ID, f.seats[0].ID), field: "passengers[1].seatId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := orchestrator.CreateBooking(ctx, 1, f.schedule.ID, tt.passengers)
			var validation apperror.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.field, validation.Field)
		})
	}
	assert.Equal(t, model.SeatHeld, f.status(0))
}

func TestCreateBookingRetriesInternalErrorOnce(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	orchestrator := NewBookingOrchestrator(f.stores, f.manager)

	_, err := f.manager.Lock(ctx, f.schedule.ID, f.seatIds(0), 1, 0)
	require.NoError(t, err)

	f.stores.failNext("CreateBooking", 1)
	booking, err := orchestrator.CreateBooking(ctx, 1, f.schedule.ID, passengersFor(f.seatIds(0)...))
	require.NoError(t, err)
	assert.Equal(t, model.BookingPending, booking.Status)

	f.stores.failNext("CreateBooking", 2)
	_, err = orchestrator.CreateBooking(ctx, 1, f.schedule.ID, passengersFor(f.seatIds(0)...))
	assert.True(t, apperror.IsInternal(err))
	// The failed resubmission rolled back, so the first booking is still pending.
	assert.Equal(t, model.BookingPending, f.stores.booking(booking.ID).Status)
}

func TestResubmittedBookingReplacesPending(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	orchestrator := NewBookingOrchestrator(f.stores, f.manager)

	_, err := f.manager.Lock(ctx, f.schedule.ID, f.seatIds(0), 1, 0)
	require.NoError(t, err)

	first, err := orchestrator.CreateBooking(ctx, 1, f.schedule.ID, passengersFor(f.seatIds(0)...))
	require.NoError(t, err)
	second, err := orchestrator.CreateBooking(ctx, 1, f.schedule.ID, passengersFor(f.seatIds(0)...))
	require.NoError(t, err)

	assert.Equal(t, model.BookingCancelled, f.stores.booking(first.ID).Status)
	assert.Equal(t, model.BookingPending, f.stores.booking(second.ID).Status)
}

func TestCancelBookingReleasesHold(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	orchestrator := NewBookingOrchestrator(f.stores, f.manager)

	_, err := f.manager.Lock(ctx, f.schedule.ID, f.seatIds(0, 1), 1, 0)
	require.NoError(t, err)
	booking, err := orchestrator.CreateBooking(ctx, 1, f.schedule.ID, passengersFor(f.seatIds(0, 1)...))
	require.NoError(t, err)

	_, err = orchestrator.CancelBooking(ctx, booking.ID, 2)
	assert.True(t, apperror.IsNotFound(err), "other users cannot see the booking")

	cancelled, err := orchestrator.CancelBooking(ctx, booking.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, cancelled.Status)
	assert.Equal(t, model.BookingCancelled, f.stores.booking(booking.ID).Status)
	assert.Equal(t, model.SeatAvailable, f.status(0))
	assert.Equal(t, model.SeatAvailable, f.status(1))
	assert.Equal(t, 0, f.stores.holdCount())

	_, err = orchestrator.CancelBooking(ctx, booking.ID, 1)
	assert.True(t, apperror.IsConflict(err))
}

func TestCancelExpiredBookingConflicts(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	orchestrator := NewBookingOrchestrator(f.stores, f.manager)

	_, err := f.manager.Lock(ctx, f.schedule.ID, f.seatIds(0), 1, 0)
	require.NoError(t, err)
	booking, err := orchestrator.CreateBooking(ctx, 1, f.schedule.ID, passengersFor(f.seatIds(0)...))
	require.NoError(t, err)

	f.clock.Advance(HoldTimeout)
	_, err = NewSweeper(f.stores, f.manager, nil).SweepOnce(ctx)
	require.NoError(t, err)

	_, err = orchestrator.CancelBooking(ctx, booking.ID, 1)
	assert.True(t, apperror.IsConflict(err))
	assert.Equal(t, model.BookingExpired, f.stores.booking(booking.ID).Status)
}

func TestCancelAfterConcurrentPaymentConflicts(t *testing.T) {
	p := newPaymentFixture(t, []int{0, 1}, []int{0, 1})
	ctx := context.Background()
	pending := *p.booking

	p.gateway.On("Charge", mock.Anything, mock.Anything).Return(approved(), nil).Once()
	p.notifier.On("BookingConfirmed", mock.Anything, mock.Anything).Return(nil)
	_, err := p.settlement.ProcessPayment(ctx, 1, cardPayment(p.booking.ID, "4111111111111111"))
	require.NoError(t, err)

	// The cancel read the booking while it was still PENDING.
	orchestrator := NewBookingOrchestrator(&staleBookingStores{memStores: p.stores, booking: pending}, p.manager)
	_, err = orchestrator.CancelBooking(ctx, p.booking.ID, 1)
	assert.True(t, apperror.IsConflict(err))

	assert.Equal(t, model.BookingConfirmed, p.stores.booking(p.booking.ID).Status)
	assert.Equal(t, model.SeatBooked, p.status(0))
	assert.Equal(t, model.SeatBooked, p.status(1))
}

func TestGetBookingOwnership(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	orchestrator := NewBookingOrchestrator(f.stores, f.manager)

	_, err := f.manager.Lock(ctx, f.schedule.ID, f.seatIds(0), 1, 0)
	require.NoError(t, err)
	booking, err := orchestrator.CreateBooking(ctx, 1, f.schedule.ID, passengersFor(f.seatIds(0)...))
	require.NoError(t, err)

	got, err := orchestrator.GetBooking(ctx, booking.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, f.schedule.ID, got.Schedule.ID)

	_, err = orchestrator.GetBooking(ctx, booking.ID, 2)
	assert.True(t, apperror.IsNotFound(err))

	list, err := orchestrator.ListBookings(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

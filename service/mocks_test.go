package service

import (
	"bus_booking/model"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/mock"
)

type fakeClock interface {
	clockwork.Clock
	Advance(d time.Duration)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ChargeResult), args.Error(1)
}

func (m *mockGateway) Refund(ctx context.Context, reference string, amount float64) error {
	args := m.Called(ctx, reference, amount)
	return args.Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) BookingConfirmed(ctx context.Context, booking *model.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

// recordingPublisher keeps every published seat snapshot.
type recordingPublisher struct {
	mu     sync.Mutex
	events [][]model.Seat
}

func (p *recordingPublisher) PublishSeats(ctx context.Context, scheduleId uint, seats []model.Seat) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, seats)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type fixture struct {
	stores    *memStores
	clock     fakeClock
	publisher *recordingPublisher
	manager   *ReservationManager
	schedule  model.Schedule
	seats     []model.Seat
}

var fixtureStart = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newFixture(t *testing.T, seatCount int) *fixture {
	t.Helper()
	stores := newMemStores()
	clock := clockwork.NewFakeClockAt(fixtureStart)
	publisher := &recordingPublisher{}
	schedule, seats := stores.seed(clock.Now(), seatCount, 500)
	return &fixture{
		stores:    stores,
		clock:     clock,
		publisher: publisher,
		manager:   NewReservationManager(stores, WithClock(clock), WithSeatPublisher(publisher)),
		schedule:  schedule,
		seats:     seats,
	}
}

func (f *fixture) seatIds(idx ...int) []uint {
	ids := make([]uint, 0, len(idx))
	for _, i := range idx {
		ids = append(ids, f.seats[i].ID)
	}
	return ids
}

func (f *fixture) status(idx int) model.SeatStatus {
	return f.stores.seat(f.seats[idx].ID).Status
}

func passengersFor(seatIds ...uint) []model.PassengerInput {
	out := make([]model.PassengerInput, 0, len(seatIds))
	for _, id := range seatIds {
		out = append(out, model.PassengerInput{
			SeatId:  id,
			Name:    "Asha Patil",
			Age:     31,
			Gender:  "FEMALE",
			Contact: "9876543210",
			Email:   "asha@example.com",
		})
	}
	return out
}

func cardPayment(bookingId uint, number string) model.ProcessPaymentInput {
	return model.ProcessPaymentInput{
		BookingId:     bookingId,
		PaymentMethod: model.PaymentCard,
		CardNumber:    number,
		CardHolder:    "Asha Patil",
		ExpiryMonth:   12,
		ExpiryYear:    time.Now().Year() + 2,
		Cvv:           "123",
	}
}

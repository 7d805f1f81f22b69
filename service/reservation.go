package service

import (
	"bus_booking/apperror"
	"bus_booking/model"
	"bus_booking/repository"
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const HoldTimeout = 10 * time.Minute

// ReservationManager is the only writer of seat status while seats are
// being held or released.
type ReservationManager struct {
	stores    repository.Stores
	clock     clockwork.Clock
	publisher SeatPublisher
	ttl       time.Duration
}

type ReservationOption func(*ReservationManager)

func WithClock(clock clockwork.Clock) ReservationOption {
	return func(m *ReservationManager) { m.clock = clock }
}

func WithSeatPublisher(p SeatPublisher) ReservationOption {
	return func(m *ReservationManager) { m.publisher = p }
}

func WithHoldTTL(ttl time.Duration) ReservationOption {
	return func(m *ReservationManager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

func NewReservationManager(stores repository.Stores, opts ...ReservationOption) *ReservationManager {
	m := &ReservationManager{
		stores:    stores,
		clock:     clockwork.NewRealClock(),
		publisher: noopPublisher{},
		ttl:       HoldTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *ReservationManager) TTL() time.Duration { return m.ttl }

func (m *ReservationManager) Clock() clockwork.Clock { return m.clock }

func (m *ReservationManager) GetSeats(ctx context.Context, scheduleId uint) ([]model.Seat, error) {
	return m.stores.Seats().GetSeats(ctx, scheduleId)
}

// Lock holds every requested seat for holderId or none of them. Seats
// already HELD or BOOKED are reported in SeatUnavailableError. A ttl of
// zero uses the configured hold timeout.
func (m *ReservationManager) Lock(ctx context.Context, scheduleId uint, seatIds []uint, holderId uint, ttl time.Duration) (*model.Hold, error) {
	ids := normalizeIds(seatIds)
	if len(ids) == 0 {
		return nil, apperror.ValidationError{Field: "selectedSeatIds", Reason: "at least one seat is required"}
	}
	if holderId == 0 {
		return nil, apperror.ValidationError{Field: "userId", Reason: "is required"}
	}
	if ttl <= 0 {
		ttl = m.ttl
	}

	var hold *model.Hold
	err := m.stores.WithinTx(ctx, func(tx repository.Stores) error {
		now := m.clock.Now()

		schedule, err := tx.Schedules().GetSchedule(ctx, scheduleId)
		if err != nil {
			return err
		}
		if !schedule.IsActive || !schedule.DepartureTime.After(now) {
			return apperror.ConflictError{Resource: "schedule", Msg: "schedule is closed for booking"}
		}

		seats, err := tx.Seats().GetSeatsByIds(ctx, scheduleId, ids)
		if err != nil {
			return err
		}
		if missing := missingIds(ids, seats); len(missing) > 0 {
			return apperror.NotFoundError{Resource: "seat", ID: missing}
		}

		// Holds past their deadline give their seats back before we try.
		if err := m.reclaimExpired(ctx, tx, ids, now); err != nil {
			return err
		}

		var unavailable []uint
		for _, id := range ids {
			ok, err := tx.Seats().CompareAndSetStatus(ctx, id, model.SeatAvailable, model.SeatHeld)
			if err != nil {
				return err
			}
			if !ok {
				unavailable = append(unavailable, id)
			}
		}
		if len(unavailable) > 0 {
			return apperror.SeatUnavailableError{SeatIDs: unavailable}
		}

		hold = &model.Hold{
			ID:         uuid.NewString(),
			ScheduleId: scheduleId,
			UserId:     holderId,
			ExpiresAt:  now.Add(ttl),
			CreatedAt:  now,
		}
		for _, id := range ids {
			hold.Seats = append(hold.Seats, model.HoldSeat{HoldId: hold.ID, SeatId: id})
		}
		return tx.Holds().CreateHold(ctx, hold)
	})
	if err != nil {
		if apperror.IsSeatUnavailable(err) {
			slog.Info("seat lock contended", "schedule_id", scheduleId, "user_id", holderId, "error", err)
		}
		return nil, err
	}

	slog.Info("seats held", "schedule_id", scheduleId, "hold_id", hold.ID, "user_id", holderId, "seats", ids)
	m.publish(ctx, scheduleId, ids)
	return hold, nil
}

// Release returns the hold's seats to AVAILABLE and deletes the hold.
// Releasing an unknown or already released hold is a no-op.
func (m *ReservationManager) Release(ctx context.Context, holdId string) error {
	return m.release(ctx, holdId, model.BookingCancelled, false)
}

// ReleaseOwned is Release for a holder acting on their own hold.
func (m *ReservationManager) ReleaseOwned(ctx context.Context, holdId string, holderId uint) error {
	hold, err := m.stores.Holds().GetHold(ctx, holdId)
	if apperror.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if hold.UserId != holderId {
		return apperror.HoldMismatchError{SeatIDs: hold.SeatIds(), Msg: "hold belongs to another user"}
	}
	return m.Release(ctx, holdId)
}

// ReleaseExpired releases the hold only if its deadline has passed, and
// expires the PENDING bookings that depended on it.
func (m *ReservationManager) ReleaseExpired(ctx context.Context, holdId string) error {
	return m.release(ctx, holdId, model.BookingExpired, true)
}

func (m *ReservationManager) release(ctx context.Context, holdId string, bookingStatus model.BookingStatus, onlyExpired bool) error {
	var released *releasedSeats
	err := m.stores.WithinTx(ctx, func(tx repository.Stores) error {
		var err error
		released, err = releaseHold(ctx, tx, holdId, bookingStatus, onlyExpired, m.clock.Now())
		return err
	})
	if err != nil {
		return err
	}
	if released != nil && len(released.seatIds) > 0 {
		slog.Info("hold released", "hold_id", holdId, "schedule_id", released.scheduleId, "seats", released.seatIds, "reason", bookingStatus)
		m.publish(ctx, released.scheduleId, released.seatIds)
	}
	return nil
}

type releasedSeats struct {
	scheduleId uint
	seatIds    []uint
}

// releaseHold runs inside tx. The hold row lock serialises concurrent
// releases of the same hold, so the loser finds nothing to do.
func releaseHold(ctx context.Context, tx repository.Stores, holdId string, bookingStatus model.BookingStatus, onlyExpired bool, now time.Time) (*releasedSeats, error) {
	hold, err := tx.Holds().GetHoldForUpdate(ctx, holdId)
	if apperror.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if onlyExpired && !hold.Expired(now) {
		return nil, nil
	}

	out := &releasedSeats{scheduleId: hold.ScheduleId}
	for _, seatId := range hold.SeatIds() {
		// BOOKED seats were promoted and stay as they are.
		ok, err := tx.Seats().CompareAndSetStatus(ctx, seatId, model.SeatHeld, model.SeatAvailable)
		if err != nil && !apperror.IsNotFound(err) {
			return nil, err
		}
		if ok {
			out.seatIds = append(out.seatIds, seatId)
		}
	}
	if _, err := tx.Bookings().ClosePendingByHold(ctx, hold.ID, bookingStatus); err != nil {
		return nil, err
	}
	if _, err := tx.Holds().DeleteHold(ctx, hold.ID); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *ReservationManager) reclaimExpired(ctx context.Context, tx repository.Stores, seatIds []uint, now time.Time) error {
	holds, err := tx.Holds().FindHoldsForSeats(ctx, seatIds)
	if err != nil {
		return err
	}
	for _, h := range holds {
		if !h.Expired(now) {
			continue
		}
		if _, err := releaseHold(ctx, tx, h.ID, model.BookingExpired, true, now); err != nil {
			return err
		}
	}
	return nil
}

func (m *ReservationManager) publish(ctx context.Context, scheduleId uint, seatIds []uint) {
	seats, err := m.stores.Seats().GetSeatsByIds(ctx, scheduleId, seatIds)
	if err != nil {
		slog.Warn("load seats for publish failed", "schedule_id", scheduleId, "error", err)
		return
	}
	if err := m.publisher.PublishSeats(ctx, scheduleId, seats); err != nil {
		slog.Warn("publish seat change failed", "schedule_id", scheduleId, "error", err)
	}
}

// normalizeIds sorts and dedupes so concurrent lockers touch rows in the
// same order.
func normalizeIds(ids []uint) []uint {
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id != 0 {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func missingIds(want []uint, seats []model.Seat) []uint {
	found := make(map[uint]bool, len(seats))
	for _, s := range seats {
		found[s.ID] = true
	}
	var missing []uint
	for _, id := range want {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

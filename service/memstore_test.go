package service

import (
	"bus_booking/apperror"
	"bus_booking/model"
	"bus_booking/repository"
	"context"
	"errors"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"
)

// memState is an in-memory copy of the tables the reservation services use.
type memState struct {
	seats     map[uint]model.Seat
	holds     map[string]model.Hold
	bookings  map[uint]model.Booking
	payments  map[uint]model.Payment
	schedules map[uint]model.Schedule
	nextId    uint
}

func (s *memState) clone() *memState {
	out := &memState{
		seats:     maps.Clone(s.seats),
		holds:     make(map[string]model.Hold, len(s.holds)),
		bookings:  make(map[uint]model.Booking, len(s.bookings)),
		payments:  maps.Clone(s.payments),
		schedules: maps.Clone(s.schedules),
		nextId:    s.nextId,
	}
	for k, h := range s.holds {
		h.Seats = slices.Clone(h.Seats)
		out.holds[k] = h
	}
	for k, b := range s.bookings {
		b.Passengers = slices.Clone(b.Passengers)
		out.bookings[k] = b
	}
	return out
}

func (s *memState) id() uint {
	s.nextId++
	return s.nextId
}

// memStores runs every transaction under one mutex and restores the
// snapshot taken at its start when fn fails.
type memStores struct {
	mu    *sync.Mutex
	state **memState
	inTx  bool
	fail  *memFailures
}

// memFailures makes the named operation fail with an InternalError the
// given number of times.
type memFailures struct {
	mu     sync.Mutex
	counts map[string]int
}

func (f *memFailures) hit(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counts[op] > 0 {
		f.counts[op]--
		return apperror.Internal(op, errors.New("injected failure"))
	}
	return nil
}

func newMemStores() *memStores {
	state := &memState{
		seats:     map[uint]model.Seat{},
		holds:     map[string]model.Hold{},
		bookings:  map[uint]model.Booking{},
		payments:  map[uint]model.Payment{},
		schedules: map[uint]model.Schedule{},
	}
	return &memStores{mu: &sync.Mutex{}, state: &state, fail: &memFailures{counts: map[string]int{}}}
}

func (m *memStores) failNext(op string, times int) {
	m.fail.mu.Lock()
	defer m.fail.mu.Unlock()
	m.fail.counts[op] = times
}

func (m *memStores) lock() func() {
	if m.inTx {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

func (m *memStores) st() *memState { return *m.state }

func (m *memStores) Seats() repository.InventoryStore    { return memSeats{m} }
func (m *memStores) Holds() repository.HoldStore         { return memHolds{m} }
func (m *memStores) Bookings() repository.BookingStore   { return memBookings{m} }
func (m *memStores) Payments() repository.PaymentStore   { return memPayments{m} }
func (m *memStores) Schedules() repository.ScheduleStore { return memSchedules{m} }

func (m *memStores) WithinTx(ctx context.Context, fn func(tx repository.Stores) error) error {
	if m.inTx {
		return fn(m)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := m.st().clone()
	if err := fn(&memStores{mu: m.mu, state: m.state, inTx: true, fail: m.fail}); err != nil {
		*m.state = snapshot
		return err
	}
	return ctx.Err()
}

// seed adds an active schedule departing in a day with n seats priced at price.
func (m *memStores) seed(now time.Time, n int, price float64) (model.Schedule, []model.Seat) {
	defer m.lock()()
	st := m.st()
	schedule := model.Schedule{
		Source:        "Pune",
		Destination:   "Mumbai",
		ScheduleDate:  now.Truncate(24 * time.Hour),
		DepartureTime: now.Add(24 * time.Hour),
		ArrivalTime:   now.Add(28 * time.Hour),
		IsActive:      true,
		Bus:           model.Bus{BusName: "Shivneri", BusNumber: "MH12AB1234", SeatRows: 1, SeatCols: n, Price: price},
	}
	schedule.ID = st.id()
	schedule.BusId = st.id()
	schedule.Bus.ID = schedule.BusId
	st.schedules[schedule.ID] = schedule

	seats := make([]model.Seat, 0, n)
	for i := 0; i < n; i++ {
		seat := model.Seat{
			ScheduleId:   schedule.ID,
			SeatNumber:   string(rune('A' + i)),
			RowNumber:    1,
			ColumnNumber: i + 1,
			SeatType:     model.SeatMiddle,
			Status:       model.SeatAvailable,
			Price:        price,
		}
		seat.ID = st.id()
		st.seats[seat.ID] = seat
		seats = append(seats, seat)
	}
	return schedule, seats
}

func (m *memStores) seat(id uint) model.Seat {
	defer m.lock()()
	return m.st().seats[id]
}

func (m *memStores) booking(id uint) model.Booking {
	defer m.lock()()
	return m.st().bookings[id]
}

func (m *memStores) holdCount() int {
	defer m.lock()()
	return len(m.st().holds)
}

func (m *memStores) paymentsOf(bookingId uint) []model.Payment {
	defer m.lock()()
	var out []model.Payment
	for _, p := range m.st().payments {
		if p.BookingId == bookingId {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type memSeats struct{ m *memStores }

func (s memSeats) GetSeats(ctx context.Context, scheduleId uint) ([]model.Seat, error) {
	defer s.m.lock()()
	st := s.m.st()
	if _, ok := st.schedules[scheduleId]; !ok {
		return nil, apperror.NotFoundError{Resource: "schedule", ID: scheduleId}
	}
	var out []model.Seat
	for _, seat := range st.seats {
		if seat.ScheduleId == scheduleId {
			out = append(out, seat)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s memSeats) GetSeatsByIds(ctx context.Context, scheduleId uint, seatIds []uint) ([]model.Seat, error) {
	defer s.m.lock()()
	var out []model.Seat
	for _, id := range seatIds {
		if seat, ok := s.m.st().seats[id]; ok && seat.ScheduleId == scheduleId {
			out = append(out, seat)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return slices.CompactFunc(out, func(a, b model.Seat) bool { return a.ID == b.ID }), nil
}

func (s memSeats) CompareAndSetStatus(ctx context.Context, seatId uint, expected, next model.SeatStatus) (bool, error) {
	defer s.m.lock()()
	if err := s.m.fail.hit("CompareAndSetStatus"); err != nil {
		return false, err
	}
	st := s.m.st()
	seat, ok := st.seats[seatId]
	if !ok {
		return false, apperror.NotFoundError{Resource: "seat", ID: seatId}
	}
	if seat.Status != expected {
		return false, nil
	}
	seat.Status = next
	seat.LockedAt = nil
	if next == model.SeatHeld {
		now := time.Now()
		seat.LockedAt = &now
	}
	st.seats[seatId] = seat
	return true, nil
}

func (s memSeats) CreateSeats(ctx context.Context, seats []model.Seat) error {
	defer s.m.lock()()
	st := s.m.st()
	for _, seat := range seats {
		seat.ID = st.id()
		st.seats[seat.ID] = seat
	}
	return nil
}

func (s memSeats) CountByStatus(ctx context.Context, scheduleId uint) (map[model.SeatStatus]int64, error) {
	defer s.m.lock()()
	counts := map[model.SeatStatus]int64{}
	for _, seat := range s.m.st().seats {
		if seat.ScheduleId == scheduleId {
			counts[seat.Status]++
		}
	}
	return counts, nil
}

type memHolds struct{ m *memStores }

func (h memHolds) CreateHold(ctx context.Context, hold *model.Hold) error {
	defer h.m.lock()()
	st := h.m.st()
	for _, existing := range st.holds {
		for _, hs := range existing.Seats {
			if slices.Contains(hold.SeatIds(), hs.SeatId) {
				return apperror.Internal("create hold", errors.New("duplicate key value violates unique constraint"))
			}
		}
	}
	for i := range hold.Seats {
		hold.Seats[i].ID = st.id()
	}
	stored := *hold
	stored.Seats = slices.Clone(hold.Seats)
	st.holds[hold.ID] = stored
	return nil
}

func (h memHolds) GetHold(ctx context.Context, holdId string) (*model.Hold, error) {
	defer h.m.lock()()
	hold, ok := h.m.st().holds[holdId]
	if !ok {
		return nil, apperror.NotFoundError{Resource: "hold", ID: holdId}
	}
	hold.Seats = slices.Clone(hold.Seats)
	return &hold, nil
}

func (h memHolds) GetHoldForUpdate(ctx context.Context, holdId string) (*model.Hold, error) {
	return h.GetHold(ctx, holdId)
}

func (h memHolds) DeleteHold(ctx context.Context, holdId string) (bool, error) {
	defer h.m.lock()()
	st := h.m.st()
	_, ok := st.holds[holdId]
	delete(st.holds, holdId)
	return ok, nil
}

func (h memHolds) ListExpiredHolds(ctx context.Context, now time.Time, after *repository.HoldCursor, limit int) ([]model.Hold, error) {
	defer h.m.lock()()
	var out []model.Hold
	for _, hold := range h.m.st().holds {
		if !hold.Expired(now) {
			continue
		}
		if after != nil && (hold.ExpiresAt.Before(after.ExpiresAt) ||
			(hold.ExpiresAt.Equal(after.ExpiresAt) && hold.ID <= after.ID)) {
			continue
		}
		hold.Seats = slices.Clone(hold.Seats)
		out = append(out, hold)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpiresAt.Equal(out[j].ExpiresAt) {
			return out[i].ExpiresAt.Before(out[j].ExpiresAt)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (h memHolds) FindHoldsForSeats(ctx context.Context, seatIds []uint) ([]model.Hold, error) {
	defer h.m.lock()()
	var out []model.Hold
	for _, hold := range h.m.st().holds {
		for _, id := range hold.SeatIds() {
			if slices.Contains(seatIds, id) {
				hold.Seats = slices.Clone(hold.Seats)
				out = append(out, hold)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return strings.Compare(out[i].ID, out[j].ID) < 0 })
	return out, nil
}

type memBookings struct{ m *memStores }

func (b memBookings) CreateBooking(ctx context.Context, booking *model.Booking) error {
	defer b.m.lock()()
	if err := b.m.fail.hit("CreateBooking"); err != nil {
		return err
	}
	st := b.m.st()
	booking.ID = st.id()
	for i := range booking.Passengers {
		booking.Passengers[i].ID = st.id()
		booking.Passengers[i].BookingId = booking.ID
	}
	stored := *booking
	stored.Passengers = slices.Clone(booking.Passengers)
	st.bookings[booking.ID] = stored
	return nil
}

func (b memBookings) GetBooking(ctx context.Context, id uint) (*model.Booking, error) {
	defer b.m.lock()()
	st := b.m.st()
	booking, ok := st.bookings[id]
	if !ok {
		return nil, apperror.NotFoundError{Resource: "booking", ID: id}
	}
	booking.Passengers = slices.Clone(booking.Passengers)
	booking.Schedule = st.schedules[booking.ScheduleId]
	return &booking, nil
}

func (b memBookings) ListBookingsByUser(ctx context.Context, userId uint) ([]model.Booking, error) {
	defer b.m.lock()()
	var out []model.Booking
	for _, booking := range b.m.st().bookings {
		if booking.UserId == userId {
			out = append(out, booking)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (b memBookings) UpdateBookingStatus(ctx context.Context, id uint, from, to model.BookingStatus) (bool, error) {
	defer b.m.lock()()
	st := b.m.st()
	booking, ok := st.bookings[id]
	if !ok || booking.Status != from {
		return false, nil
	}
	booking.Status = to
	st.bookings[id] = booking
	return true, nil
}

func (b memBookings) SetBookingPaymentStatus(ctx context.Context, id uint, status model.PaymentStatus) error {
	defer b.m.lock()()
	st := b.m.st()
	if booking, ok := st.bookings[id]; ok {
		booking.PaymentStatus = status
		st.bookings[id] = booking
	}
	return nil
}

func (b memBookings) ClosePendingByHold(ctx context.Context, holdId string, status model.BookingStatus) (int64, error) {
	defer b.m.lock()()
	st := b.m.st()
	var n int64
	for id, booking := range st.bookings {
		if booking.HoldId != nil && *booking.HoldId == holdId && booking.Status == model.BookingPending {
			booking.Status = status
			st.bookings[id] = booking
			n++
		}
	}
	return n, nil
}

type memPayments struct{ m *memStores }

func (p memPayments) CreatePayment(ctx context.Context, payment *model.Payment) error {
	defer p.m.lock()()
	st := p.m.st()
	payment.ID = st.id()
	st.payments[payment.ID] = *payment
	return nil
}

func (p memPayments) SavePayment(ctx context.Context, payment *model.Payment) error {
	defer p.m.lock()()
	if err := p.m.fail.hit("SavePayment"); err != nil {
		return err
	}
	p.m.st().payments[payment.ID] = *payment
	return nil
}

func (p memPayments) GetPaymentByReference(ctx context.Context, reference string) (*model.Payment, error) {
	defer p.m.lock()()
	for _, payment := range p.m.st().payments {
		if payment.Reference == reference {
			return &payment, nil
		}
	}
	return nil, apperror.NotFoundError{Resource: "payment", ID: reference}
}

func (p memPayments) ListPaymentsByBooking(ctx context.Context, bookingId uint) ([]model.Payment, error) {
	defer p.m.lock()()
	var out []model.Payment
	for _, payment := range p.m.st().payments {
		if payment.BookingId == bookingId {
			out = append(out, payment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (p memPayments) ListPendingRefunds(ctx context.Context, limit int) ([]model.Payment, error) {
	defer p.m.lock()()
	var out []model.Payment
	for _, payment := range p.m.st().payments {
		if payment.RefundStatus == model.RefundPending {
			out = append(out, payment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memSchedules struct{ m *memStores }

func (s memSchedules) CreateSchedule(ctx context.Context, schedule *model.Schedule) error {
	defer s.m.lock()()
	st := s.m.st()
	schedule.ID = st.id()
	st.schedules[schedule.ID] = *schedule
	return nil
}

func (s memSchedules) GetSchedule(ctx context.Context, id uint) (*model.Schedule, error) {
	defer s.m.lock()()
	schedule, ok := s.m.st().schedules[id]
	if !ok {
		return nil, apperror.NotFoundError{Resource: "schedule", ID: id}
	}
	return &schedule, nil
}

func (s memSchedules) SearchSchedules(ctx context.Context, source, destination string, date time.Time) ([]model.Schedule, error) {
	defer s.m.lock()()
	var out []model.Schedule
	for _, schedule := range s.m.st().schedules {
		if strings.EqualFold(schedule.Source, source) &&
			strings.EqualFold(schedule.Destination, destination) &&
			schedule.ScheduleDate.Format("2006-01-02") == date.Format("2006-01-02") &&
			schedule.IsActive {
			out = append(out, schedule)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DepartureTime.Before(out[j].DepartureTime) })
	return out, nil
}

func (s memSchedules) ListSchedulesByVendor(ctx context.Context, vendorId uint) ([]model.Schedule, error) {
	defer s.m.lock()()
	var out []model.Schedule
	for _, schedule := range s.m.st().schedules {
		if schedule.Bus.VendorId == vendorId {
			out = append(out, schedule)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s memSchedules) DeleteSchedule(ctx context.Context, id uint) error {
	defer s.m.lock()()
	st := s.m.st()
	delete(st.schedules, id)
	for seatId, seat := range st.seats {
		if seat.ScheduleId == id {
			delete(st.seats, seatId)
		}
	}
	return nil
}

func (s memSchedules) PublicCodeExists(ctx context.Context, code string) (bool, error) {
	defer s.m.lock()()
	for _, schedule := range s.m.st().schedules {
		if schedule.PublicCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (s memSchedules) CloseDeparted(ctx context.Context, now time.Time) (int64, error) {
	defer s.m.lock()()
	st := s.m.st()
	var n int64
	for id, schedule := range st.schedules {
		if schedule.IsActive && !schedule.DepartureTime.After(now) {
			schedule.IsActive = false
			st.schedules[id] = schedule
			n++
		}
	}
	return n, nil
}

package service

import (
	"bus_booking/apperror"
	"bus_booking/helper"
	"bus_booking/model"
	"bus_booking/repository"
	"bus_booking/validate"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

type BusLookup interface {
	GetBus(ctx context.Context, id uint) (*model.Bus, error)
}

type ScheduleService struct {
	stores repository.Stores
	buses  BusLookup
	clock  clockwork.Clock
	loc    *time.Location
}

func NewScheduleService(stores repository.Stores, buses BusLookup, clock clockwork.Clock, loc *time.Location) *ScheduleService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.Local
	}
	return &ScheduleService{stores: stores, buses: buses, clock: clock, loc: loc}
}

// CreateSchedule stores the trip and generates its seats in one transaction.
func (s *ScheduleService) CreateSchedule(ctx context.Context, vendorId uint, input model.CreateScheduleInput) (*model.Schedule, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	bus, err := s.buses.GetBus(ctx, input.BusId)
	if err != nil {
		return nil, err
	}
	if bus.VendorId != vendorId {
		return nil, apperror.NotFoundError{Resource: "bus", ID: input.BusId}
	}
	if bus.TotalSeats() == 0 {
		return nil, apperror.ValidationError{Field: "busId", Reason: "bus has no seats configured"}
	}

	date, departure, arrival, err := s.tripTimes(input)
	if err != nil {
		return nil, err
	}
	if !departure.After(s.clock.Now()) {
		return nil, apperror.ValidationError{Field: "departureTime", Reason: "must be in the future"}
	}

	schedule := &model.Schedule{
		BusId:         bus.ID,
		Bus:           *bus,
		Source:        input.Source,
		Destination:   input.Destination,
		ScheduleDate:  date,
		DepartureTime: departure,
		ArrivalTime:   arrival,
		IsActive:      true,
	}
	err = s.stores.WithinTx(ctx, func(tx repository.Stores) error {
		code, err := uniquePublicCode(ctx, tx.Schedules(), input.Source, input.Destination, date)
		if err != nil {
			return err
		}
		schedule.PublicCode = code
		if err := tx.Schedules().CreateSchedule(ctx, schedule); err != nil {
			return err
		}
		return tx.Seats().CreateSeats(ctx, BuildSeats(schedule.ID, *bus))
	})
	if err != nil {
		return nil, err
	}

	slog.Info("schedule created", "schedule_id", schedule.ID, "code", schedule.PublicCode, "bus_id", bus.ID, "seats", bus.TotalSeats())
	return schedule, nil
}

// tripTimes combines the date with the clock times. An arrival earlier than
// the departure is on the next day.
func (s *ScheduleService) tripTimes(input model.CreateScheduleInput) (time.Time, time.Time, time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", input.Date, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, apperror.ValidationError{Field: "date", Reason: "must match format 2006-01-02"}
	}
	dep, err := time.ParseInLocation("15:04", input.DepartureTime, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, apperror.ValidationError{Field: "departureTime", Reason: "must match format 15:04"}
	}
	arr, err := time.ParseInLocation("15:04", input.ArrivalTime, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, apperror.ValidationError{Field: "arrivalTime", Reason: "must match format 15:04"}
	}

	departure := time.Date(date.Year(), date.Month(), date.Day(), dep.Hour(), dep.Minute(), 0, 0, s.loc)
	arrival := time.Date(date.Year(), date.Month(), date.Day(), arr.Hour(), arr.Minute(), 0, 0, s.loc)
	if !arrival.After(departure) {
		arrival = arrival.AddDate(0, 0, 1)
	}
	return date, departure, arrival, nil
}

func uniquePublicCode(ctx context.Context, schedules repository.ScheduleStore, source, destination string, date time.Time) (string, error) {
	name := fmt.Sprintf("%s %s %s", source, destination, date.Format("20060102"))
	return helper.GenerateUniqueSlug(name, func(code string) (bool, error) {
		return schedules.PublicCodeExists(ctx, code)
	})
}

func (s *ScheduleService) Search(ctx context.Context, input model.SearchScheduleInput) ([]model.ScheduleResponse, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	date, err := time.ParseInLocation("2006-01-02", input.Date, s.loc)
	if err != nil {
		return nil, apperror.ValidationError{Field: "date", Reason: "must match format 2006-01-02"}
	}

	schedules, err := s.stores.Schedules().SearchSchedules(ctx, input.Source, input.Destination, date)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	out := make([]model.ScheduleResponse, 0, len(schedules))
	for _, schedule := range schedules {
		if !schedule.DepartureTime.After(now) {
			continue
		}
		resp, err := s.toResponse(ctx, schedule)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *ScheduleService) GetSchedule(ctx context.Context, id uint) (model.ScheduleResponse, error) {
	schedule, err := s.stores.Schedules().GetSchedule(ctx, id)
	if err != nil {
		return model.ScheduleResponse{}, err
	}
	return s.toResponse(ctx, *schedule)
}

func (s *ScheduleService) ListVendorSchedules(ctx context.Context, vendorId uint) ([]model.ScheduleResponse, error) {
	schedules, err := s.stores.Schedules().ListSchedulesByVendor(ctx, vendorId)
	if err != nil {
		return nil, err
	}
	out := make([]model.ScheduleResponse, 0, len(schedules))
	for _, schedule := range schedules {
		resp, err := s.toResponse(ctx, schedule)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *ScheduleService) AvailableCount(ctx context.Context, scheduleId uint) (int64, error) {
	if _, err := s.stores.Schedules().GetSchedule(ctx, scheduleId); err != nil {
		return 0, err
	}
	counts, err := s.stores.Seats().CountByStatus(ctx, scheduleId)
	if err != nil {
		return 0, err
	}
	return counts[model.SeatAvailable], nil
}

// DeleteSchedule refuses once any seat is held or booked.
func (s *ScheduleService) DeleteSchedule(ctx context.Context, vendorId, id uint) error {
	return s.stores.WithinTx(ctx, func(tx repository.Stores) error {
		schedule, err := tx.Schedules().GetSchedule(ctx, id)
		if err != nil {
			return err
		}
		if schedule.Bus.VendorId != vendorId {
			return apperror.NotFoundError{Resource: "schedule", ID: id}
		}
		counts, err := tx.Seats().CountByStatus(ctx, id)
		if err != nil {
			return err
		}
		if counts[model.SeatHeld]+counts[model.SeatBooked] > 0 {
			return apperror.ConflictError{Resource: "schedule", Msg: "seats are already held or booked"}
		}
		return tx.Schedules().DeleteSchedule(ctx, id)
	})
}

func (s *ScheduleService) CloseDeparted(ctx context.Context) (int64, error) {
	n, err := s.stores.Schedules().CloseDeparted(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.Info("departed schedules closed", "count", n)
	}
	return n, nil
}

func (s *ScheduleService) toResponse(ctx context.Context, schedule model.Schedule) (model.ScheduleResponse, error) {
	counts, err := s.stores.Seats().CountByStatus(ctx, schedule.ID)
	if err != nil {
		return model.ScheduleResponse{}, err
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	return model.ScheduleResponse{
		ID:             schedule.ID,
		PublicCode:     schedule.PublicCode,
		BusName:        schedule.Bus.BusName,
		BusNumber:      schedule.Bus.BusNumber,
		BusType:        schedule.Bus.BusType.Type,
		Source:         schedule.Source,
		Destination:    schedule.Destination,
		ScheduleDate:   schedule.ScheduleDate.Format("2006-01-02"),
		DepartureTime:  schedule.DepartureTime,
		ArrivalTime:    schedule.ArrivalTime,
		Price:          schedule.Bus.Price,
		TotalSeats:     total,
		AvailableSeats: counts[model.SeatAvailable],
	}, nil
}

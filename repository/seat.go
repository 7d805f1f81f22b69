package repository

import (
	"bus_booking/apperror"
	"bus_booking/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type SeatRepository struct {
	db *gorm.DB
}

func NewSeatRepository(db *gorm.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

func (r *SeatRepository) GetSeats(ctx context.Context, scheduleId uint) ([]model.Seat, error) {
	db := r.db.WithContext(ctx)

	var count int64
	if err := db.Model(&model.Schedule{}).Where("id = ?", scheduleId).Count(&count).Error; err != nil {
		return nil, apperror.Internal("get seats", err)
	}
	if count == 0 {
		return nil, apperror.NotFoundError{Resource: "schedule", ID: scheduleId}
	}

	var seats []model.Seat
	if err := db.
		Where("schedule_id = ?", scheduleId).
		Order("seat_row ASC, seat_col ASC").
		Find(&seats).Error; err != nil {
		return nil, apperror.Internal("get seats", err)
	}
	return seats, nil
}

func (r *SeatRepository) GetSeatsByIds(ctx context.Context, scheduleId uint, seatIds []uint) ([]model.Seat, error) {
	var seats []model.Seat
	if err := r.db.WithContext(ctx).
		Where("schedule_id = ? AND id IN ?", scheduleId, seatIds).
		Order("id ASC").
		Find(&seats).Error; err != nil {
		return nil, apperror.Internal("get seats by ids", err)
	}
	return seats, nil
}

// CompareAndSetStatus is a single-row conditional update. It reports false
// when the seat exists but is not in the expected status.
func (r *SeatRepository) CompareAndSetStatus(ctx context.Context, seatId uint, expected, next model.SeatStatus) (bool, error) {
	db := r.db.WithContext(ctx)

	updates := map[string]any{"status": next, "locked_at": nil}
	if next == model.SeatHeld {
		updates["locked_at"] = time.Now()
	}

	result := db.Model(&model.Seat{}).
		Where("id = ? AND status = ?", seatId, expected).
		Updates(updates)
	if result.Error != nil {
		return false, apperror.Internal("compare and set seat", result.Error)
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	var count int64
	if err := db.Model(&model.Seat{}).Where("id = ?", seatId).Count(&count).Error; err != nil {
		return false, apperror.Internal("compare and set seat", err)
	}
	if count == 0 {
		return false, apperror.NotFoundError{Resource: "seat", ID: seatId}
	}
	return false, nil
}

func (r *SeatRepository) CreateSeats(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&seats, 100).Error; err != nil {
		return apperror.Internal("create seats", err)
	}
	return nil
}

func (r *SeatRepository) CountByStatus(ctx context.Context, scheduleId uint) (map[model.SeatStatus]int64, error) {
	var rows []struct {
		Status model.SeatStatus
		Total  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.Seat{}).
		Select("status, COUNT(*) AS total").
		Where("schedule_id = ?", scheduleId).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, apperror.Internal("count seats", err)
	}

	counts := make(map[model.SeatStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

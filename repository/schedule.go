package repository

import (
	"bus_booking/apperror"
	"bus_booking/model"
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) CreateSchedule(ctx context.Context, schedule *model.Schedule) error {
	if err := r.db.WithContext(ctx).Omit("Bus", "Seats").Create(schedule).Error; err != nil {
		return apperror.Internal("create schedule", err)
	}
	return nil
}

func (r *ScheduleRepository) GetSchedule(ctx context.Context, id uint) (*model.Schedule, error) {
	var schedule model.Schedule
	if err := r.db.WithContext(ctx).
		Preload("Bus").
		Preload("Bus.BusType").
		First(&schedule, id).Error; err != nil {
		return nil, notFoundOr(err, "schedule", id, "get schedule")
	}
	return &schedule, nil
}

func (r *ScheduleRepository) SearchSchedules(ctx context.Context, source, destination string, date time.Time) ([]model.Schedule, error) {
	var schedules []model.Schedule
	if err := r.db.WithContext(ctx).
		Preload("Bus").
		Preload("Bus.BusType").
		Where("LOWER(source) = ? AND LOWER(destination) = ?", strings.ToLower(source), strings.ToLower(destination)).
		Where("schedule_date = ? AND is_active = ?", date.Format("2006-01-02"), true).
		Order("departure_time ASC").
		Find(&schedules).Error; err != nil {
		return nil, apperror.Internal("search schedules", err)
	}
	return schedules, nil
}

func (r *ScheduleRepository) ListSchedulesByVendor(ctx context.Context, vendorId uint) ([]model.Schedule, error) {
	var schedules []model.Schedule
	if err := r.db.WithContext(ctx).
		Preload("Bus").
		Joins("JOIN buses ON buses.id = schedules.bus_id").
		Where("buses.vendor_id = ?", vendorId).
		Order("schedules.departure_time DESC").
		Find(&schedules).Error; err != nil {
		return nil, apperror.Internal("list vendor schedules", err)
	}
	return schedules, nil
}

func (r *ScheduleRepository) DeleteSchedule(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("schedule_id = ?", id).Delete(&model.Seat{}).Error; err != nil {
		return apperror.Internal("delete schedule", err)
	}
	result := db.Delete(&model.Schedule{}, id)
	if result.Error != nil {
		return apperror.Internal("delete schedule", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFoundError{Resource: "schedule", ID: id}
	}
	return nil
}

func (r *ScheduleRepository) PublicCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Schedule{}).Where("public_code = ?", code).Count(&count).Error; err != nil {
		return false, apperror.Internal("check public code", err)
	}
	return count > 0, nil
}

func (r *ScheduleRepository) CloseDeparted(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Schedule{}).
		Where("is_active = ? AND departure_time < ?", true, now).
		Update("is_active", false)
	if result.Error != nil {
		return 0, apperror.Internal("close departed schedules", result.Error)
	}
	return result.RowsAffected, nil
}

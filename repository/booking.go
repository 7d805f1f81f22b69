package repository

import (
	"bus_booking/apperror"
	"bus_booking/model"
	"context"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) CreateBooking(ctx context.Context, booking *model.Booking) error {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return apperror.Internal("create booking", err)
	}
	return nil
}

func (r *BookingRepository) GetBooking(ctx context.Context, id uint) (*model.Booking, error) {
	var booking model.Booking
	if err := r.db.WithContext(ctx).
		Preload("Passengers").
		Preload("Schedule").
		Preload("Schedule.Bus").
		First(&booking, id).Error; err != nil {
		return nil, notFoundOr(err, "booking", id, "get booking")
	}
	return &booking, nil
}

func (r *BookingRepository) ListBookingsByUser(ctx context.Context, userId uint) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := r.db.WithContext(ctx).
		Preload("Passengers").
		Preload("Schedule").
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, apperror.Internal("list bookings", err)
	}
	return bookings, nil
}

func (r *BookingRepository) UpdateBookingStatus(ctx context.Context, id uint, from, to model.BookingStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, apperror.Internal("update booking status", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *BookingRepository) SetBookingPaymentStatus(ctx context.Context, id uint, status model.PaymentStatus) error {
	if err := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ?", id).
		Update("payment_status", status).Error; err != nil {
		return apperror.Internal("update booking payment status", err)
	}
	return nil
}

func (r *BookingRepository) ClosePendingByHold(ctx context.Context, holdId string, status model.BookingStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("hold_id = ? AND status = ?", holdId, model.BookingPending).
		Update("status", status)
	if result.Error != nil {
		return 0, apperror.Internal("close bookings of hold", result.Error)
	}
	return result.RowsAffected, nil
}

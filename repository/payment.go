package repository

import (
	"bus_booking/apperror"
	"bus_booking/model"
	"context"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) CreatePayment(ctx context.Context, payment *model.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return apperror.Internal("create payment", err)
	}
	return nil
}

func (r *PaymentRepository) SavePayment(ctx context.Context, payment *model.Payment) error {
	if err := r.db.WithContext(ctx).Save(payment).Error; err != nil {
		return apperror.Internal("save payment", err)
	}
	return nil
}

func (r *PaymentRepository) GetPaymentByReference(ctx context.Context, reference string) (*model.Payment, error) {
	var payment model.Payment
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&payment).Error; err != nil {
		return nil, notFoundOr(err, "payment", reference, "get payment")
	}
	return &payment, nil
}

func (r *PaymentRepository) ListPaymentsByBooking(ctx context.Context, bookingId uint) ([]model.Payment, error) {
	var payments []model.Payment
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingId).
		Order("created_at ASC").
		Find(&payments).Error; err != nil {
		return nil, apperror.Internal("list payments", err)
	}
	return payments, nil
}

func (r *PaymentRepository) ListPendingRefunds(ctx context.Context, limit int) ([]model.Payment, error) {
	var payments []model.Payment
	if err := r.db.WithContext(ctx).
		Where("refund_status = ?", model.RefundPending).
		Order("updated_at ASC").
		Limit(limit).
		Find(&payments).Error; err != nil {
		return nil, apperror.Internal("list pending refunds", err)
	}
	return payments, nil
}

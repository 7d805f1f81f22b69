package repository

import (
	"bus_booking/apperror"
	"bus_booking/model"
	"context"

	"gorm.io/gorm"
)

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) CreateFeedback(ctx context.Context, feedback *model.Feedback) error {
	if err := r.db.WithContext(ctx).Omit("Booking").Create(feedback).Error; err != nil {
		return apperror.Internal("create feedback", err)
	}
	return nil
}

func (r *FeedbackRepository) ExistsForBooking(ctx context.Context, bookingId uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Feedback{}).Where("booking_id = ?", bookingId).Count(&count).Error; err != nil {
		return false, apperror.Internal("check feedback", err)
	}
	return count > 0, nil
}

func (r *FeedbackRepository) GetByBooking(ctx context.Context, bookingId uint) (*model.Feedback, error) {
	var feedback model.Feedback
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingId).First(&feedback).Error; err != nil {
		return nil, notFoundOr(err, "feedback", bookingId, "get feedback")
	}
	return &feedback, nil
}

func (r *FeedbackRepository) ListByBus(ctx context.Context, busName string) ([]model.Feedback, error) {
	var feedbacks []model.Feedback
	if err := r.db.WithContext(ctx).Where("bus_name = ?", busName).Order("created_at DESC").Find(&feedbacks).Error; err != nil {
		return nil, apperror.Internal("list feedback", err)
	}
	return feedbacks, nil
}

func (r *FeedbackRepository) Statistics(ctx context.Context, busName string) (model.FeedbackStatistics, error) {
	var stats model.FeedbackStatistics
	query := r.db.WithContext(ctx).
		Model(&model.Feedback{}).
		Select(`COUNT(*) AS total_feedbacks,
			COALESCE(AVG(rating), 0) AS average_rating,
			COALESCE(AVG(NULLIF(cleanliness, 0)), 0) AS average_cleanliness,
			COALESCE(AVG(NULLIF(punctuality, 0)), 0) AS average_punctuality,
			COALESCE(AVG(NULLIF(staff_behavior, 0)), 0) AS average_staff_behavior,
			COALESCE(AVG(NULLIF(comfort, 0)), 0) AS average_comfort,
			COALESCE(AVG(NULLIF(overall_experience, 0)), 0) AS average_overall`)
	if busName != "" {
		query = query.Where("bus_name = ?", busName)
	}
	if err := query.Scan(&stats).Error; err != nil {
		return stats, apperror.Internal("feedback statistics", err)
	}
	return stats, nil
}

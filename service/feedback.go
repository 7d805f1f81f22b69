package service

import (
	"bus_booking/apperror"
	"bus_booking/constants"
	"bus_booking/model"
	"bus_booking/repository"
	"bus_booking/utils"
	"bus_booking/validate"
	"context"

	"github.com/jinzhu/copier"
)

type FeedbackStore interface {
	CreateFeedback(ctx context.Context, feedback *model.Feedback) error
	ExistsForBooking(ctx context.Context, bookingId uint) (bool, error)
	GetByBooking(ctx context.Context, bookingId uint) (*model.Feedback, error)
	ListByBus(ctx context.Context, busName string) ([]model.Feedback, error)
	Statistics(ctx context.Context, busName string) (model.FeedbackStatistics, error)
}

type FeedbackService struct {
	stores    repository.Stores
	feedbacks FeedbackStore
}

func NewFeedbackService(stores repository.Stores, feedbacks FeedbackStore) *FeedbackService {
	return &FeedbackService{stores: stores, feedbacks: feedbacks}
}

// Submit records one feedback per confirmed booking of the caller.
func (s *FeedbackService) Submit(ctx context.Context, userId uint, input model.CreateFeedbackInput) (*model.Feedback, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	booking, err := s.stores.Bookings().GetBooking(ctx, input.BookingId)
	if err != nil {
		return nil, err
	}
	if booking.UserId != userId {
		return nil, apperror.NotFoundError{Resource: "booking", ID: input.BookingId}
	}
	if booking.Status != model.BookingConfirmed {
		return nil, apperror.ValidationError{Field: "bookingId", Reason: "only confirmed bookings can be reviewed"}
	}
	exists, err := s.feedbacks.ExistsForBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.ConflictError{Resource: "feedback", Msg: "feedback already submitted for this booking"}
	}

	var feedback model.Feedback
	if err := copier.Copy(&feedback, &input); err != nil {
		return nil, apperror.Internal("map feedback", err)
	}
	feedback.UserId = userId
	if feedback.Category == "" {
		feedback.Category = constants.FEEDBACK_GENERAL
	}
	feedback.BusName = booking.Schedule.Bus.BusName
	feedback.JourneyDate = booking.Schedule.ScheduleDate.Format("2006-01-02")
	if err := s.feedbacks.CreateFeedback(ctx, &feedback); err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (s *FeedbackService) GetForBooking(ctx context.Context, bookingId uint) (*model.Feedback, error) {
	return s.feedbacks.GetByBooking(ctx, bookingId)
}

func (s *FeedbackService) ListForBus(ctx context.Context, busName string) ([]model.Feedback, error) {
	return s.feedbacks.ListByBus(ctx, busName)
}

func (s *FeedbackService) Statistics(ctx context.Context, busName string) (model.FeedbackStatistics, error) {
	stats, err := s.feedbacks.Statistics(ctx, busName)
	if err != nil {
		return stats, err
	}
	for _, v := range []*float64{
		&stats.AverageRating,
		&stats.AverageCleanliness,
		&stats.AveragePunctuality,
		&stats.AverageStaffBehavior,
		&stats.AverageComfort,
		&stats.AverageOverall,
	} {
		*v = utils.RoundMoney(*v)
	}
	return stats, nil
}

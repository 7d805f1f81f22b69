package service

import (
	"bus_booking/apperror"
	"bus_booking/constants"
	"bus_booking/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFeedbackStore struct {
	mock.Mock
}

func (m *mockFeedbackStore) CreateFeedback(ctx context.Context, feedback *model.Feedback) error {
	return m.Called(ctx, feedback).Error(0)
}

func (m *mockFeedbackStore) ExistsForBooking(ctx context.Context, bookingId uint) (bool, error) {
	args := m.Called(ctx, bookingId)
	return args.Bool(0), args.Error(1)
}

func (m *mockFeedbackStore) GetByBooking(ctx context.Context, bookingId uint) (*model.Feedback, error) {
	args := m.Called(ctx, bookingId)
	feedback, _ := args.Get(0).(*model.Feedback)
	return feedback, args.Error(1)
}

func (m *mockFeedbackStore) ListByBus(ctx context.Context, busName string) ([]model.Feedback, error) {
	args := m.Called(ctx, busName)
	feedbacks, _ := args.Get(0).([]model.Feedback)
	return feedbacks, args.Error(1)
}

func (m *mockFeedbackStore) Statistics(ctx context.Context, busName string) (model.FeedbackStatistics, error) {
	args := m.Called(ctx, busName)
	return args.Get(0).(model.FeedbackStatistics), args.Error(1)
}

func TestSubmitFeedbackOnlyForConfirmedBookings(t *testing.T) {
	p := newPaymentFixture(t, []int{0}, []int{0})
	ctx := context.Background()
	feedbacks := &mockFeedbackStore{}
	svc := NewFeedbackService(p.stores, feedbacks)

	input := model.CreateFeedbackInput{BookingId: p.booking.ID, Rating: 4, Comments: "on time"}

	_, err := svc.Submit(ctx, 1, input)
	assert.True(t, apperror.IsValidation(err), "pending booking")

	p.gateway.On("Charge", mock.Anything, mock.Anything).Return(approved(), nil)
	p.notifier.On("BookingConfirmed", mock.Anything, mock.Anything).Return(nil)
	_, err = p.settlement.ProcessPayment(ctx, 1, cardPayment(p.booking.ID, "4111111111111111"))
	require.NoError(t, err)

	_, err = svc.Submit(ctx, 2, input)
	assert.True(t, apperror.IsNotFound(err), "someone else's booking")

	feedbacks.On("ExistsForBooking", ctx, p.booking.ID).Return(false, nil).Once()
	feedbacks.On("CreateFeedback", ctx, mock.MatchedBy(func(f *model.Feedback) bool {
		return f.UserId == 1 && f.BusName == "Shivneri" && f.Category == constants.FEEDBACK_GENERAL
	})).Return(nil).Once()

	feedback, err := svc.Submit(ctx, 1, input)
	require.NoError(t, err)
	assert.Equal(t, 4, feedback.Rating)

	feedbacks.On("ExistsForBooking", ctx, p.booking.ID).Return(true, nil).Once()
	_, err = svc.Submit(ctx, 1, input)
	assert.True(t, apperror.IsConflict(err))

	feedbacks.AssertExpectations(t)
}

func TestFeedbackStatisticsRounded(t *testing.T) {
	feedbacks := &mockFeedbackStore{}
	svc := NewFeedbackService(newMemStores(), feedbacks)

	feedbacks.On("Statistics", mock.Anything, "").Return(model.FeedbackStatistics{
		TotalFeedbacks: 3,
		AverageRating:  4.333333,
		AverageComfort: 3.666666,
	}, nil)

	stats, err := svc.Statistics(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalFeedbacks)
	assert.Equal(t, 4.33, stats.AverageRating)
	assert.Equal(t, 3.67, stats.AverageComfort)
}

package service

import (
	"bus_booking/apperror"
	"bus_booking/model"
	"bus_booking/repository"
	"bus_booking/validate"
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
)

const refundBatchSize = 50

var errHoldLost = errors.New("hold lost before promotion")

// PaymentSettlement charges a PENDING booking and, on success, promotes its
// seats from HELD to BOOKED in one transaction.
type PaymentSettlement struct {
	stores   repository.Stores
	manager  *ReservationManager
	gateway  PaymentGateway
	notifier Notifier
	dispatch func(func())
}

type SettlementOption func(*PaymentSettlement)

func WithNotifier(n Notifier) SettlementOption {
	return func(p *PaymentSettlement) {
		if n != nil {
			p.notifier = n
		}
	}
}

func NewPaymentSettlement(stores repository.Stores, manager *ReservationManager, gateway PaymentGateway, opts ...SettlementOption) *PaymentSettlement {
	p := &PaymentSettlement{
		stores:   stores,
		manager:  manager,
		gateway:  gateway,
		notifier: noopNotifier{},
		dispatch: func(f func()) { go f() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *PaymentSettlement) ProcessPayment(ctx context.Context, userId uint, input model.ProcessPaymentInput) (*model.PaymentResult, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if err := validateMethodDetails(input); err != nil {
		return nil, err
	}

	booking, payment, err := p.openAttempt(ctx, userId, input)
	if err != nil {
		return nil, err
	}

	charge, err := p.gateway.Charge(ctx, ChargeRequest{
		Reference: payment.Reference,
		Amount:    payment.Amount,
		Method:    payment.Method,
		Input:     input,
	})
	if err != nil || !charge.Approved {
		reason := charge.Message
		if err != nil {
			reason = "gateway unavailable"
		}
		if ferr := p.failAttempt(ctx, booking, payment, charge, reason); ferr != nil {
			return nil, ferr
		}
		slog.Info("payment declined", "booking_id", booking.ID, "reference", payment.Reference, "reason", reason)
		return nil, apperror.PaymentFailedError{Reason: reason, Err: err}
	}

	released, err := p.promote(ctx, booking, payment, charge)
	if errors.Is(err, errHoldLost) {
		return nil, p.compensate(ctx, booking, payment, charge)
	}
	if err != nil {
		// Funds were captured but nothing was promoted. The booking stays
		// payable and the charge goes back.
		if rerr := p.refundUnconfirmed(ctx, payment, charge); rerr != nil {
			slog.Error("refund after failed promotion", "booking_id", booking.ID, "reference", payment.Reference, "error", rerr)
		}
		return nil, err
	}

	slog.Info("payment completed", "booking_id", booking.ID, "reference", payment.Reference, "amount", payment.Amount)
	p.manager.publish(ctx, booking.ScheduleId, released)
	confirmed := *booking
	confirmed.Status = model.BookingConfirmed
	confirmed.PaymentStatus = model.PaymentCompleted
	p.dispatch(func() {
		if err := p.notifier.BookingConfirmed(context.Background(), &confirmed); err != nil {
			slog.Warn("booking confirmation notice failed", "booking_id", confirmed.ID, "error", err)
		}
	})

	return &model.PaymentResult{
		Success:   true,
		BookingId: booking.ID,
		PaymentId: payment.ID,
		Reference: payment.Reference,
		Status:    model.PaymentCompleted,
	}, nil
}

// openAttempt checks the booking is payable and records a PENDING attempt.
// A booking whose hold already lapsed is expired here, before any charge.
func (p *PaymentSettlement) openAttempt(ctx context.Context, userId uint, input model.ProcessPaymentInput) (*model.Booking, *model.Payment, error) {
	var (
		booking *model.Booking
		payment *model.Payment
		expired string
	)
	err := p.stores.WithinTx(ctx, func(tx repository.Stores) error {
		var err error
		booking, err = tx.Bookings().GetBooking(ctx, input.BookingId)
		if err != nil {
			return err
		}
		if booking.UserId != userId {
			return apperror.NotFoundError{Resource: "booking", ID: input.BookingId}
		}
		switch booking.Status {
		case model.BookingConfirmed:
			return apperror.ConflictError{Resource: "booking", Msg: "booking is already paid"}
		case model.BookingCancelled:
			return apperror.ConflictError{Resource: "booking", Msg: "booking was cancelled"}
		case model.BookingExpired:
			return apperror.HoldExpiredError{}
		}
		if booking.HoldId == nil {
			return apperror.HoldExpiredError{}
		}

		now := p.manager.Clock().Now()
		hold, err := tx.Holds().GetHold(ctx, *booking.HoldId)
		if apperror.IsNotFound(err) {
			expired = *booking.HoldId
			_, err = tx.Bookings().UpdateBookingStatus(ctx, booking.ID, model.BookingPending, model.BookingExpired)
			return err
		}
		if err != nil {
			return err
		}
		if hold.Expired(now) {
			expired = hold.ID
			_, err = releaseHold(ctx, tx, hold.ID, model.BookingExpired, true, now)
			return err
		}

		payment = &model.Payment{
			BookingId:    booking.ID,
			Amount:       booking.TotalAmount,
			Method:       input.PaymentMethod,
			Status:       model.PaymentPending,
			Reference:    uuid.NewString(),
			RefundStatus: model.RefundNone,
		}
		applyMethodDetails(payment, input)
		return tx.Payments().CreatePayment(ctx, payment)
	})
	if err != nil {
		return nil, nil, err
	}
	if expired != "" {
		return nil, nil, apperror.HoldExpiredError{HoldID: expired}
	}
	return booking, payment, nil
}

func (p *PaymentSettlement) failAttempt(ctx context.Context, booking *model.Booking, payment *model.Payment, charge ChargeResult, reason string) error {
	return p.stores.WithinTx(ctx, func(tx repository.Stores) error {
		payment.Status = model.PaymentFailed
		payment.FailureReason = reason
		payment.GatewayResponseCode = charge.ResponseCode
		payment.GatewayResponseMessage = charge.Message
		if err := tx.Payments().SavePayment(ctx, payment); err != nil {
			return err
		}
		if err := tx.Bookings().SetBookingPaymentStatus(ctx, booking.ID, model.PaymentFailed); err != nil {
			return err
		}

		// The booking stays payable unless its hold ran out meanwhile.
		now := p.manager.Clock().Now()
		hold, err := tx.Holds().GetHold(ctx, *booking.HoldId)
		if apperror.IsNotFound(err) {
			_, err = tx.Bookings().UpdateBookingStatus(ctx, booking.ID, model.BookingPending, model.BookingExpired)
			return err
		}
		if err != nil {
			return err
		}
		if hold.Expired(now) {
			_, err = releaseHold(ctx, tx, hold.ID, model.BookingExpired, true, now)
		}
		return err
	})
}

// promote is all or nothing: every booked seat goes HELD to BOOKED, the
// booking is CONFIRMED and the hold is deleted, or the transaction rolls back.
func (p *PaymentSettlement) promote(ctx context.Context, booking *model.Booking, payment *model.Payment, charge ChargeResult) ([]uint, error) {
	var touched []uint
	err := p.stores.WithinTx(ctx, func(tx repository.Stores) error {
		touched = touched[:0]
		now := p.manager.Clock().Now()

		hold, err := tx.Holds().GetHoldForUpdate(ctx, *booking.HoldId)
		if apperror.IsNotFound(err) {
			return errHoldLost
		}
		if err != nil {
			return err
		}
		if hold.Expired(now) {
			return errHoldLost
		}

		bookedSeats := booking.SeatIds()
		for _, seatId := range bookedSeats {
			ok, err := tx.Seats().CompareAndSetStatus(ctx, seatId, model.SeatHeld, model.SeatBooked)
			if err != nil {
				return err
			}
			if !ok {
				return errHoldLost
			}
			touched = append(touched, seatId)
		}

		ok, err := tx.Bookings().UpdateBookingStatus(ctx, booking.ID, model.BookingPending, model.BookingConfirmed)
		if err != nil {
			return err
		}
		if !ok {
			return errHoldLost
		}
		if err := tx.Bookings().SetBookingPaymentStatus(ctx, booking.ID, model.PaymentCompleted); err != nil {
			return err
		}

		payment.Status = model.PaymentCompleted
		payment.GatewayTransactionId = charge.TransactionId
		payment.GatewayResponseCode = charge.ResponseCode
		payment.GatewayResponseMessage = charge.Message
		if err := tx.Payments().SavePayment(ctx, payment); err != nil {
			return err
		}

		// Seats held but not booked go back to the pool with the hold.
		for _, seatId := range hold.SeatIds() {
			if slices.Contains(bookedSeats, seatId) {
				continue
			}
			ok, err := tx.Seats().CompareAndSetStatus(ctx, seatId, model.SeatHeld, model.SeatAvailable)
			if err != nil {
				return err
			}
			if ok {
				touched = append(touched, seatId)
			}
		}
		_, err = tx.Holds().DeleteHold(ctx, hold.ID)
		return err
	})
	if err != nil {
		payment.Status = model.PaymentPending
		return nil, err
	}
	return touched, nil
}

// compensate records a captured payment whose seats could not be promoted:
// the booking expires and the payment waits for a refund.
func (p *PaymentSettlement) compensate(ctx context.Context, booking *model.Booking, payment *model.Payment, charge ChargeResult) error {
	var (
		released *releasedSeats
		current  model.BookingStatus
	)
	err := p.stores.WithinTx(ctx, func(tx repository.Stores) error {
		payment.Status = model.PaymentCompleted
		payment.GatewayTransactionId = charge.TransactionId
		payment.GatewayResponseCode = charge.ResponseCode
		payment.GatewayResponseMessage = charge.Message
		payment.FailureReason = "hold expired before confirmation"
		payment.RefundStatus = model.RefundPending
		if err := tx.Payments().SavePayment(ctx, payment); err != nil {
			return err
		}

		var err error
		released, err = releaseHold(ctx, tx, *booking.HoldId, model.BookingExpired, true, p.manager.Clock().Now())
		if err != nil {
			return err
		}
		expired, err := tx.Bookings().UpdateBookingStatus(ctx, booking.ID, model.BookingPending, model.BookingExpired)
		if err != nil {
			return err
		}
		current = model.BookingExpired
		if !expired {
			latest, err := tx.Bookings().GetBooking(ctx, booking.ID)
			if err != nil {
				return err
			}
			current = latest.Status
		}
		if current == model.BookingConfirmed {
			payment.FailureReason = "booking already paid"
			return tx.Payments().SavePayment(ctx, payment)
		}
		return nil
	})
	if err != nil {
		slog.Error("record payment for refund failed", "booking_id", booking.ID, "reference", payment.Reference, "error", err)
		return err
	}

	slog.Warn("payment captured after hold expiry, refund scheduled", "booking_id", booking.ID, "reference", payment.Reference)
	if released != nil && len(released.seatIds) > 0 {
		p.manager.publish(ctx, released.scheduleId, released.seatIds)
	}
	if err := p.refund(ctx, payment); err != nil {
		slog.Warn("immediate refund failed, left for reconciliation", "reference", payment.Reference, "error", err)
	}
	if current == model.BookingConfirmed {
		return apperror.ConflictError{Resource: "booking", Msg: "booking is already paid"}
	}
	return apperror.HoldExpiredError{HoldID: *booking.HoldId}
}

func (p *PaymentSettlement) refundUnconfirmed(ctx context.Context, payment *model.Payment, charge ChargeResult) error {
	payment.Status = model.PaymentFailed
	payment.GatewayTransactionId = charge.TransactionId
	payment.GatewayResponseCode = charge.ResponseCode
	payment.GatewayResponseMessage = charge.Message
	payment.FailureReason = "confirmation failed"
	payment.RefundStatus = model.RefundPending
	if err := p.stores.Payments().SavePayment(ctx, payment); err != nil {
		return err
	}
	return p.refund(ctx, payment)
}

func (p *PaymentSettlement) refund(ctx context.Context, payment *model.Payment) error {
	payment.RefundAttempts++
	if err := p.gateway.Refund(ctx, payment.Reference, payment.Amount); err != nil {
		if serr := p.stores.Payments().SavePayment(ctx, payment); serr != nil {
			return serr
		}
		return err
	}
	now := p.manager.Clock().Now()
	payment.RefundStatus = model.RefundRefunded
	payment.RefundedAt = &now
	return p.stores.Payments().SavePayment(ctx, payment)
}

// ReconcileRefunds retries every refund still owed.
func (p *PaymentSettlement) ReconcileRefunds(ctx context.Context) (int, error) {
	payments, err := p.stores.Payments().ListPendingRefunds(ctx, refundBatchSize)
	if err != nil {
		return 0, err
	}
	refunded := 0
	for i := range payments {
		if err := p.refund(ctx, &payments[i]); err != nil {
			slog.Warn("refund attempt failed", "reference", payments[i].Reference, "attempts", payments[i].RefundAttempts, "error", err)
			continue
		}
		refunded++
	}
	return refunded, nil
}

func (p *PaymentSettlement) ListPayments(ctx context.Context, bookingId, userId uint) ([]model.Payment, error) {
	booking, err := p.stores.Bookings().GetBooking(ctx, bookingId)
	if err != nil {
		return nil, err
	}
	if booking.UserId != userId {
		return nil, apperror.NotFoundError{Resource: "booking", ID: bookingId}
	}
	return p.stores.Payments().ListPaymentsByBooking(ctx, bookingId)
}

func validateMethodDetails(input model.ProcessPaymentInput) error {
	switch input.PaymentMethod {
	case model.PaymentCard:
		if n := len(input.CardNumber); n < 13 || n > 19 || !allDigits(input.CardNumber) {
			return apperror.ValidationError{Field: "cardNumber", Reason: "must be 13 to 19 digits"}
		}
		if input.CardHolder == "" {
			return apperror.ValidationError{Field: "cardHolder", Reason: "is required"}
		}
		if input.ExpiryMonth < 1 || input.ExpiryMonth > 12 {
			return apperror.ValidationError{Field: "expiryMonth", Reason: "must be between 1 and 12"}
		}
		if input.ExpiryYear < time.Now().Year() {
			return apperror.ValidationError{Field: "expiryYear", Reason: "card has expired"}
		}
		if n := len(input.Cvv); (n != 3 && n != 4) || !allDigits(input.Cvv) {
			return apperror.ValidationError{Field: "cvv", Reason: "must be 3 or 4 digits"}
		}
	case model.PaymentUPI:
		if !validate.IsUPI(input.UpiId) {
			return apperror.ValidationError{Field: "upiId", Reason: "must be a valid UPI id"}
		}
	case model.PaymentNetBanking:
		if input.BankName == "" {
			return apperror.ValidationError{Field: "bankName", Reason: "is required"}
		}
	case model.PaymentWallet:
		if input.WalletName == "" {
			return apperror.ValidationError{Field: "walletName", Reason: "is required"}
		}
	}
	return nil
}

func applyMethodDetails(payment *model.Payment, input model.ProcessPaymentInput) {
	switch input.PaymentMethod {
	case model.PaymentCard:
		payment.CardLastFour = input.CardNumber[len(input.CardNumber)-4:]
	case model.PaymentUPI:
		payment.UpiId = input.UpiId
	case model.PaymentNetBanking:
		payment.BankName = input.BankName
	case model.PaymentWallet:
		payment.WalletName = input.WalletName
	}
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

package utils

import (
	"bus_booking/apperror"
	"bus_booking/constants"
	"errors"
	"log/slog"
	"math"

	"github.com/gofiber/fiber/v2"
)

func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	var errMsg interface{}
	if err != nil {
		errMsg = err.Error()
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   errMsg,
	})
}

func SuccessResponse(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, err error) error {
	return HandleError(c, err)
}

// HandleError writes err using the status of its apperror kind.
func HandleError(c *fiber.Ctx, err error) error {
	body := fiber.Map{
		"success":   false,
		"message":   err.Error(),
		"error":     err.Error(),
		"requestId": c.GetRespHeader(fiber.HeaderXRequestID),
	}
	status := fiber.StatusInternalServerError

	var (
		notFound    apperror.NotFoundError
		unavailable apperror.SeatUnavailableError
		mismatch    apperror.HoldMismatchError
		expired     apperror.HoldExpiredError
		validation  apperror.ValidationError
		payment     apperror.PaymentFailedError
		conflict    apperror.ConflictError
		unauth      apperror.UnauthorizedError
	)
	switch {
	case errors.As(err, &notFound):
		status = fiber.StatusNotFound
		body["code"] = constants.CODE_NOT_FOUND
	case errors.As(err, &unavailable):
		status = fiber.StatusConflict
		body["code"] = constants.CODE_SEAT_UNAVAILABLE
		body["message"] = constants.ERROR_SEAT_UNAVAILABLE
		body["seatIds"] = unavailable.SeatIDs
	case errors.As(err, &mismatch):
		status = fiber.StatusConflict
		body["code"] = constants.CODE_HOLD_MISMATCH
		body["message"] = constants.ERROR_HOLD_MISMATCH
		body["seatIds"] = mismatch.SeatIDs
	case errors.As(err, &expired):
		status = fiber.StatusConflict
		body["code"] = constants.CODE_HOLD_EXPIRED
		body["message"] = constants.ERROR_HOLD_EXPIRED
	case errors.As(err, &validation):
		status = fiber.StatusBadRequest
		body["code"] = constants.CODE_VALIDATION
		body["field"] = validation.Field
	case errors.As(err, &payment):
		status = fiber.StatusPaymentRequired
		body["code"] = constants.CODE_PAYMENT_FAILED
		body["message"] = constants.ERROR_PAYMENT_FAILED
	case errors.As(err, &conflict):
		status = fiber.StatusConflict
		body["code"] = constants.CODE_CONFLICT
	case errors.As(err, &unauth):
		status = fiber.StatusUnauthorized
		body["code"] = constants.CODE_UNAUTHORIZED
	default:
		body["code"] = constants.CODE_INTERNAL
		body["message"] = constants.ERROR_INTERNAL_ERROR
		body["error"] = constants.ERROR_INTERNAL_ERROR
		slog.Error("request failed", "path", c.Path(), "request_id", body["requestId"], "error", err)
	}
	return c.Status(status).JSON(body)
}

func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

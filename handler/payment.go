package handler

import (
	"bus_booking/model"
	"bus_booking/utils"

	"github.com/gofiber/fiber/v2"
)

// ProcessPayment answers {success, bookingId} once the seats are booked.
func (h *Handler) ProcessPayment(c *fiber.Ctx) error {
	input := c.Locals("input").(model.ProcessPaymentInput)
	userId, err := callerId(c, input.UserId)
	if err != nil {
		return forbidden(c, err)
	}

	result, err := h.Payments.ProcessPayment(c.UserContext(), userId, input)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *Handler) ListPayments(c *fiber.Ctx) error {
	userId, err := callerId(c, 0)
	if err != nil {
		return forbidden(c, err)
	}
	payments, err := h.Payments.ListPayments(c.UserContext(), c.Locals("inputId").(uint), userId)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, payments)
}

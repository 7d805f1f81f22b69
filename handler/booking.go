package handler

import (
	"bus_booking/model"
	"bus_booking/utils"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) CreateBooking(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CreateBookingInput)
	userId, err := callerId(c, input.UserId)
	if err != nil {
		return forbidden(c, err)
	}

	booking, err := h.Bookings.CreateBooking(c.UserContext(), userId, input.ScheduleId, input.Passengers)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

func (h *Handler) GetBooking(c *fiber.Ctx) error {
	userId, err := callerId(c, 0)
	if err != nil {
		return forbidden(c, err)
	}
	booking, err := h.Bookings.GetBooking(c.UserContext(), c.Locals("inputId").(uint), userId)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

func (h *Handler) ListUserBookings(c *fiber.Ctx) error {
	userId, err := callerId(c, c.Locals("inputId").(uint))
	if err != nil {
		return forbidden(c, err)
	}
	bookings, err := h.Bookings.ListBookings(c.UserContext(), userId)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, bookings)
}

// CancelBooking serves both /cancel and /unlock: either way the hold goes
// back to the pool and the booking ends CANCELLED.
func (h *Handler) CancelBooking(c *fiber.Ctx) error {
	userId, err := callerId(c, queryUserId(c))
	if err != nil {
		return forbidden(c, err)
	}
	booking, err := h.Bookings.CancelBooking(c.UserContext(), c.Locals("inputId").(uint), userId)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":   true,
		"bookingId": booking.ID,
		"status":    booking.Status,
	})
}

func (h *Handler) BookingQRCode(c *fiber.Ctx) error {
	userId, err := callerId(c, 0)
	if err != nil {
		return forbidden(c, err)
	}
	booking, err := h.Bookings.GetBooking(c.UserContext(), c.Locals("inputId").(uint), userId)
	if err != nil {
		return utils.HandleError(c, err)
	}
	if booking.Status != model.BookingConfirmed {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Ticket is issued after payment", fmt.Errorf("booking is %s", booking.Status))
	}

	png, err := utils.GenerateQRCode(utils.TicketQRContent(booking), 256)
	if err != nil {
		return utils.HandleError(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Status(fiber.StatusOK).Send(png)
}
